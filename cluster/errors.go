// SPDX-License-Identifier: MIT
// Package: pairlab/cluster

package cluster

import "errors"

var (
	// ErrEmptyInput indicates no points or an empty matrix.
	ErrEmptyInput = errors.New("cluster: empty input")

	// ErrBadK indicates a cluster count outside the valid range.
	ErrBadK = errors.New("cluster: invalid number of clusters")

	// ErrDimensionMismatch indicates ragged points, or labels/merges that do
	// not match the input size.
	ErrDimensionMismatch = errors.New("cluster: dimension mismatch")

	// ErrUnknownLinkage indicates an unrecognised linkage method.
	ErrUnknownLinkage = errors.New("cluster: unknown linkage method")
)
