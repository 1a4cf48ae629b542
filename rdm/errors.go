// SPDX-License-Identifier: MIT
// Package: pairlab/rdm

package rdm

import "errors"

var (
	// ErrNoDocuments indicates Aggregate was given nothing to combine.
	ErrNoDocuments = errors.New("rdm: no documents")

	// ErrItemCountMismatch indicates documents disagree on num_items_total.
	ErrItemCountMismatch = errors.New("rdm: documents disagree on item count")

	// ErrItemOutOfRange indicates a placement id outside the matrix.
	ErrItemOutOfRange = errors.New("rdm: item out of range")

	// ErrOutOfRange indicates an At/Set index outside the matrix.
	ErrOutOfRange = errors.New("rdm: index out of range")

	// ErrBadSize indicates a non-positive matrix size.
	ErrBadSize = errors.New("rdm: size must be > 0")

	// ErrNotSquare indicates row data whose rows are not all N long.
	ErrNotSquare = errors.New("rdm: matrix is not square")

	// ErrAsymmetry indicates (i,j) and (j,i) disagree.
	ErrAsymmetry = errors.New("rdm: matrix is not symmetric")

	// ErrNonZeroDiagonal indicates a non-zero write to the diagonal.
	ErrNonZeroDiagonal = errors.New("rdm: diagonal must be zero")

	// ErrUnknownWeighting indicates an unrecognised weighting name.
	ErrUnknownWeighting = errors.New("rdm: unknown weighting")

	// ErrNaNInf indicates a NaN or ±Inf entry.
	ErrNaNInf = errors.New("rdm: NaN or Inf encountered")
)
