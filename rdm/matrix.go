// SPDX-License-Identifier: MIT
// Package: pairlab/rdm
//
// Matrix is a dense symmetric dissimilarity matrix with a zero diagonal.
// Writes go to both (i,j) and (j,i) so symmetry holds by construction.

package rdm

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Matrix is an N×N symmetric matrix stored row-major.
type Matrix struct {
	n    int
	data []float64
}

// New returns an all-zero n×n matrix.
func New(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("New(%d): %w", n, ErrBadSize)
	}

	return &Matrix{n: n, data: make([]float64, n*n)}, nil
}

// FromRows builds a Matrix from a square, symmetric row slice. The
// diagonal is forced to zero; asymmetry beyond 1e-9 is rejected.
func FromRows(rows [][]float64) (*Matrix, error) {
	m, err := New(len(rows))
	if err != nil {
		return nil, fmt.Errorf("FromRows: %w", err)
	}
	for i, row := range rows {
		if len(row) != m.n {
			return nil, fmt.Errorf("FromRows: row %d has %d values, want %d: %w", i, len(row), m.n, ErrNotSquare)
		}
	}
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			a, b := rows[i][j], rows[j][i]
			if !finite(a) || !finite(b) {
				return nil, fmt.Errorf("FromRows: (%d,%d): %w", i, j, ErrNaNInf)
			}
			if math.Abs(a-b) > symmetryTol {
				return nil, fmt.Errorf("FromRows: (%d,%d)=%g vs %g: %w", i, j, a, b, ErrAsymmetry)
			}
			m.data[i*m.n+j] = a
			m.data[j*m.n+i] = a
		}
	}

	return m, nil
}

const symmetryTol = 1e-9

// N returns the number of items.
func (m *Matrix) N() int { return m.n }

// At returns element (i,j).
func (m *Matrix) At(i, j int) (float64, error) {
	if !m.inRange(i, j) {
		return 0, fmt.Errorf("At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return m.data[i*m.n+j], nil
}

// Set writes v to (i,j) and (j,i). Diagonal writes must be zero.
func (m *Matrix) Set(i, j int, v float64) error {
	if !m.inRange(i, j) {
		return fmt.Errorf("Set(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if !finite(v) {
		return fmt.Errorf("Set(%d,%d): %w", i, j, ErrNaNInf)
	}
	if i == j && v != 0 {
		return fmt.Errorf("Set(%d,%d)=%g: %w", i, j, v, ErrNonZeroDiagonal)
	}
	m.data[i*m.n+j] = v
	m.data[j*m.n+i] = v

	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (m *Matrix) inRange(i, j int) bool {
	return i >= 0 && j >= 0 && i < m.n && j < m.n
}

// Row returns a copy of row i, or nil when i is out of range.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.n {
		return nil
	}

	return append([]float64(nil), m.data[i*m.n:(i+1)*m.n]...)
}

// Rows returns a deep copy as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		out[i] = m.Row(i)
	}

	return out
}

// Max returns the largest entry.
func (m *Matrix) Max() float64 {
	var mx float64
	for _, v := range m.data {
		if v > mx {
			mx = v
		}
	}

	return mx
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, data: append([]float64(nil), m.data...)}
}

// WriteCSV writes the matrix with a header row of item ids and an id
// column, the layout pandas produces for DataFrame.to_csv.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	record := make([]string, m.n+1)
	for j := 0; j < m.n; j++ {
		record[j+1] = strconv.Itoa(j)
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	for i := 0; i < m.n; i++ {
		record[0] = strconv.Itoa(i)
		for j := 0; j < m.n; j++ {
			record[j+1] = strconv.FormatFloat(m.data[i*m.n+j], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}

	return nil
}

// ReadCSV parses the layout written by WriteCSV.
func ReadCSV(r io.Reader) (*Matrix, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("ReadCSV: %d records: %w", len(records), ErrBadSize)
	}
	rows := make([][]float64, 0, len(records)-1)
	for li, rec := range records[1:] {
		if len(rec) < 1 {
			return nil, fmt.Errorf("ReadCSV: line %d empty: %w", li+2, ErrNotSquare)
		}
		row := make([]float64, len(rec)-1)
		for j, s := range rec[1:] {
			if row[j], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("ReadCSV: line %d col %d: %w", li+2, j+1, err)
			}
		}
		rows = append(rows, row)
	}
	m, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: %w", err)
	}

	return m, nil
}
