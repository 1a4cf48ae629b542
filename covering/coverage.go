// SPDX-License-Identifier: MIT
// Package: pairlab/covering
//
// coverage.go — pair co-occurrence bookkeeping.
//
// Layout:
//   • Counts live in a packed upper-triangular slice of length C(N,2),
//     row-major: (0,1),(0,2),…,(0,N-1),(1,2),…
//   • Counts are monotonically non-decreasing; nothing ever decrements.
//
// Complexity:
//   • Count/Covered: O(1).
//   • Add(trial):    O(K²).
//   • Uncovered:     O(N²).

package covering

import "fmt"

// Coverage maps every pair over N items to the number of trials that
// contained it.
type Coverage struct {
	n      int
	counts []int
}

// NewCoverage returns an all-zero table over n items.
func NewCoverage(n int) *Coverage {
	if n < 0 {
		n = 0
	}

	return &Coverage{n: n, counts: make([]int, PairCount(n))}
}

// Replay rebuilds a coverage table from scratch by summing the pairs of
// every trial in order. It is the reference used to cross-check a
// Generator's internal bookkeeping.
func Replay(n int, trials TrialList) (*Coverage, error) {
	c := NewCoverage(n)
	for i, t := range trials {
		if err := c.Add(t); err != nil {
			return nil, fmt.Errorf("Replay: trial %d: %w", i, err)
		}
	}

	return c, nil
}

// N returns the number of items the table was built for.
func (c *Coverage) N() int { return c.n }

// Len returns the size of the pair universe, C(N,2).
func (c *Coverage) Len() int { return len(c.counts) }

// index maps a canonical pair (i < j) to its packed slot.
func (c *Coverage) index(i, j int) int {
	return i*c.n - i*(i+1)/2 + (j - i - 1)
}

func (c *Coverage) valid(i, j int) bool {
	return i >= 0 && j >= 0 && i < c.n && j < c.n && i != j
}

// Count returns how many trials contained both i and j. Invalid or
// degenerate pairs (i == j, out of range) report 0.
func (c *Coverage) Count(i, j int) int {
	if !c.valid(i, j) {
		return 0
	}
	p := NewPair(i, j)

	return c.counts[c.index(p.A, p.B)]
}

// Covered reports whether i and j have appeared together at least once.
func (c *Coverage) Covered(i, j int) bool {
	return c.Count(i, j) >= 1
}

// Add increments every pair formed inside t. The trial is validated before
// any count changes, so a failed Add leaves the table untouched.
func (c *Coverage) Add(t Trial) error {
	seen := make(map[int]struct{}, len(t))
	for _, v := range t {
		if v < 0 || v >= c.n {
			return fmt.Errorf("item %d not in [0,%d): %w", v, c.n, ErrItemOutOfRange)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("item %d repeated in trial: %w", v, ErrDuplicateItem)
		}
		seen[v] = struct{}{}
	}
	for _, p := range t.Pairs() {
		c.counts[c.index(p.A, p.B)]++
	}

	return nil
}

// Uncovered lists the pairs with count < 1 in ascending canonical order,
// skipping any pair listed in exclude.
func (c *Coverage) Uncovered(exclude ...Pair) []Pair {
	skip := make(map[Pair]struct{}, len(exclude))
	for _, p := range exclude {
		skip[NewPair(p.A, p.B)] = struct{}{}
	}

	var out []Pair
	k := 0
	for i := 0; i < c.n; i++ {
		for j := i + 1; j < c.n; j++ {
			if c.counts[k] < 1 {
				p := Pair{A: i, B: j}
				if _, ok := skip[p]; !ok {
					out = append(out, p)
				}
			}
			k++
		}
	}

	return out
}

// Total returns the sum of all pair counts.
func (c *Coverage) Total() int {
	sum := 0
	for _, v := range c.counts {
		sum += v
	}

	return sum
}

// Equal reports whether two tables have the same size and counts.
func (c *Coverage) Equal(o *Coverage) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.n != o.n {
		return false
	}
	for i := range c.counts {
		if c.counts[i] != o.counts[i] {
			return false
		}
	}

	return true
}

// Clone returns an independent copy.
func (c *Coverage) Clone() *Coverage {
	out := &Coverage{n: c.n, counts: make([]int, len(c.counts))}
	copy(out.counts, c.counts)

	return out
}
