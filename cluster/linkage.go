// SPDX-License-Identifier: MIT
// Package: pairlab/cluster
//
// Agglomerative clustering on a precomputed dissimilarity matrix.
// Each step merges the closest pair of active clusters and updates the
// distances to the new cluster with the Lance–Williams recurrence:
//
//	single   : min(d(k,a), d(k,b))
//	complete : max(d(k,a), d(k,b))
//	average  : (nₐ·d(k,a) + n_b·d(k,b)) / (nₐ+n_b)
//	ward     : sqrt(((nₐ+nₖ)·d(k,a)² + (n_b+nₖ)·d(k,b)² − nₖ·d(a,b)²) / (nₐ+n_b+nₖ))
//
// Ties resolve to the pair with the smallest row, then column, in the
// working matrix.

package cluster

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pairlab/rdm"
)

// Method selects the linkage criterion.
type Method int

const (
	Single   Method = iota // nearest members
	Complete               // farthest members
	Average                // UPGMA
	Ward                   // minimum variance increase
)

var methodNames = [...]string{"single", "complete", "average", "ward"}

// String returns the lower-case method name.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}

	return methodNames[m]
}

// ParseMethod is the inverse of String.
func ParseMethod(s string) (Method, error) {
	for i, name := range methodNames {
		if name == s {
			return Method(i), nil
		}
	}

	return 0, fmt.Errorf("ParseMethod(%q): %w", s, ErrUnknownLinkage)
}

// Merge is one agglomeration step. Left < Right are cluster ids (leaves
// 0..N-1, merge i creates N+i); Size counts the leaves of the new cluster.
type Merge struct {
	Left     int     `json:"left"`
	Right    int     `json:"right"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// Linkage returns the N-1 merges of the agglomerative tree over d.
//
// Complexity: O(N³) time, O(N²) memory.
func Linkage(d *rdm.Matrix, method Method) ([]Merge, error) {
	if d == nil || d.N() == 0 {
		return nil, fmt.Errorf("Linkage: %w", ErrEmptyInput)
	}
	if method < Single || method > Ward {
		return nil, fmt.Errorf("Linkage: %v: %w", method, ErrUnknownLinkage)
	}

	n := d.N()
	dist := d.Rows()
	ids := make([]int, n)   // working slot -> cluster id
	sizes := make([]int, n) // working slot -> leaf count
	active := make([]bool, n)
	for i := range ids {
		ids[i], sizes[i], active[i] = i, 1, true
	}

	merges := make([]Merge, 0, n-1)
	for step := 0; step < n-1; step++ {
		a, b := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && dist[i][j] < best {
					a, b, best = i, j, dist[i][j]
				}
			}
		}

		na, nb := float64(sizes[a]), float64(sizes[b])
		for k := 0; k < n; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			v := update(method, dist[k][a], dist[k][b], best, na, nb, float64(sizes[k]))
			dist[k][a], dist[a][k] = v, v
		}

		left, right := ids[a], ids[b]
		if left > right {
			left, right = right, left
		}
		merges = append(merges, Merge{Left: left, Right: right, Distance: best, Size: sizes[a] + sizes[b]})

		// Slot a now holds the merged cluster; slot b retires.
		ids[a] = n + step
		sizes[a] += sizes[b]
		active[b] = false
	}

	return merges, nil
}

func update(m Method, dka, dkb, dab, na, nb, nk float64) float64 {
	switch m {
	case Single:
		return math.Min(dka, dkb)
	case Complete:
		return math.Max(dka, dkb)
	case Average:
		return (na*dka + nb*dkb) / (na + nb)
	default: // Ward
		v := ((na+nk)*dka*dka + (nb+nk)*dkb*dkb - nk*dab*dab) / (na + nb + nk)
		if v < 0 {
			v = 0
		}
		return math.Sqrt(v)
	}
}

// Cut applies the first N-k merges and returns canonical flat labels
// for the N leaves.
func Cut(merges []Merge, n, k int) ([]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("Cut: %w", ErrEmptyInput)
	}
	if len(merges) != n-1 {
		return nil, fmt.Errorf("Cut: %d merges for %d leaves: %w", len(merges), n, ErrDimensionMismatch)
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("Cut: k=%d for %d leaves: %w", k, n, ErrBadK)
	}

	set := newDSU(2*n - 1)
	for i, m := range merges[:n-k] {
		node := n + i
		if m.Left < 0 || m.Right < 0 || m.Left >= node || m.Right >= node {
			return nil, fmt.Errorf("Cut: merge %d references %d/%d: %w", i, m.Left, m.Right, ErrDimensionMismatch)
		}
		set.union(m.Left, node)
		set.union(m.Right, node)
	}

	labels := make([]int, n)
	remap := make(map[int]int, k)
	for leaf := 0; leaf < n; leaf++ {
		root := set.find(leaf)
		l, ok := remap[root]
		if !ok {
			l = len(remap)
			remap[root] = l
		}
		labels[leaf] = l
	}

	return labels, nil
}
