// SPDX-License-Identifier: MIT
// Package: pairlab/mds
//
// Cyclic Jacobi eigen decomposition for small dense symmetric matrices.
// Each rotation zeroes one off-diagonal entry; a sweep visits every (p,q)
// once. Convergence is declared when the off-diagonal Frobenius norm drops
// below tol relative to the full norm.

package mds

import (
	"fmt"
	"math"
	"sort"
)

const (
	jacobiTol       = 1e-12
	jacobiMaxSweeps = 100
)

// symmetricEigen returns the eigenvalues of a (descending) and the matching
// unit eigenvectors as columns of vecs[i][k]. a is not modified.
//
// Complexity: O(sweeps·n³) time, O(n²) memory.
func symmetricEigen(a [][]float64) (vals []float64, vecs [][]float64, err error) {
	n := len(a)
	w := make([][]float64, n)
	v := make([][]float64, n)
	for i := range a {
		w[i] = append([]float64(nil), a[i]...)
		v[i] = make([]float64, n)
		v[i][i] = 1
	}

	var total float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			total += w[i][j] * w[i][j]
		}
	}

	converged := n < 2 || total == 0
	for sweep := 0; sweep < jacobiMaxSweeps && !converged; sweep++ {
		var off float64
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += 2 * w[p][q] * w[p][q]
			}
		}
		if off <= jacobiTol*jacobiTol*total {
			converged = true
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				rotate(w, v, p, q)
			}
		}
	}
	if !converged {
		return nil, nil, fmt.Errorf("symmetricEigen: %d sweeps: %w", jacobiMaxSweeps, ErrNotConverged)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return w[order[x]][order[x]] > w[order[y]][order[y]] })

	vals = make([]float64, n)
	vecs = make([][]float64, n)
	for i := range vecs {
		vecs[i] = make([]float64, n)
	}
	for k, src := range order {
		vals[k] = w[src][src]
		sign := canonicalSign(v, src)
		for i := 0; i < n; i++ {
			vecs[i][k] = sign * v[i][src]
		}
	}

	return vals, vecs, nil
}

// rotate applies the Jacobi rotation that zeroes w[p][q], accumulating it
// into the eigenvector matrix v.
func rotate(w, v [][]float64, p, q int) {
	apq := w[p][q]
	if apq == 0 {
		return
	}
	app, aqq := w[p][p], w[q][q]
	theta := (aqq - app) / (2 * apq)
	t := math.Copysign(1/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	for r := range w {
		if r == p || r == q {
			continue
		}
		arp, arq := w[r][p], w[r][q]
		w[r][p] = c*arp - s*arq
		w[p][r] = w[r][p]
		w[r][q] = s*arp + c*arq
		w[q][r] = w[r][q]
	}
	w[p][p] = app - t*apq
	w[q][q] = aqq + t*apq
	w[p][q], w[q][p] = 0, 0

	for r := range v {
		vrp, vrq := v[r][p], v[r][q]
		v[r][p] = c*vrp - s*vrq
		v[r][q] = s*vrp + c*vrq
	}
}

// canonicalSign makes the largest-magnitude component of column k
// positive so embeddings are reproducible across runs.
func canonicalSign(v [][]float64, k int) float64 {
	var best float64
	for i := range v {
		if math.Abs(v[i][k]) > math.Abs(best) {
			best = v[i][k]
		}
	}
	if best < 0 {
		return -1
	}

	return 1
}
