// SPDX-License-Identifier: MIT
// Package: pairlab/mds

package mds

import "errors"

var (
	// ErrEmptyMatrix indicates a nil or empty dissimilarity matrix.
	ErrEmptyMatrix = errors.New("mds: empty matrix")

	// ErrBadDims indicates dims outside [1, N].
	ErrBadDims = errors.New("mds: dimensions out of range")

	// ErrNotConverged indicates the Jacobi solver exhausted its sweeps.
	ErrNotConverged = errors.New("mds: eigen decomposition did not converge")

	// ErrDimensionMismatch indicates an embedding that does not match the
	// matrix it is scored against.
	ErrDimensionMismatch = errors.New("mds: dimension mismatch")
)
