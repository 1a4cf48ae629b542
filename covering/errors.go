// SPDX-License-Identifier: MIT
// Package: pairlab/covering
//
// errors.go — sentinel errors for the covering package.
//
// Error policy:
//   • Only sentinel variables are exposed; branch with errors.Is.
//   • Context is attached with %w at the call site ("NewGenerator: ...: %w").
//   • Generate never panics; option constructors may (nil rng / nil logger).

package covering

import "errors"

// ErrInvalidSize indicates N or K is outside the supported domain
// (N ≥ 2, 2 ≤ K ≤ N).
var ErrInvalidSize = errors.New("covering: invalid item or trial size")

// ErrAnchorOutOfRange indicates an anchor id outside [0, N).
var ErrAnchorOutOfRange = errors.New("covering: anchor out of range")

// ErrDuplicateAnchor indicates the same anchor id was configured twice.
var ErrDuplicateAnchor = errors.New("covering: duplicate anchor")

// ErrAnchorOverflow indicates the anchor set leaves no room to cover the
// remaining pairs: |A| ≥ K, or |A| = K-1 while N > K (two non-anchor items
// could never share a trial).
var ErrAnchorOverflow = errors.New("covering: anchor set leaves no room for pairs")

// ErrItemOutOfRange indicates a trial references an item outside [0, N).
var ErrItemOutOfRange = errors.New("covering: item out of range")

// ErrDuplicateItem indicates a trial lists the same item twice.
var ErrDuplicateItem = errors.New("covering: duplicate item in trial")

// ErrNonTermination is an internal invariant violation: the trial cap was
// exceeded or a trial could not be completed. Valid configurations never
// return it.
var ErrNonTermination = errors.New("covering: generation did not terminate")
