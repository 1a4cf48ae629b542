// SPDX-License-Identifier: MIT
// Package: pairlab/cluster
//
// KMeans: k-means++ seeding followed by Lloyd iterations, repeated for
// several restarts; the partition with the lowest inertia wins.
//
// An empty cluster is re-seeded with the point farthest from its current
// centroid so K clusters always come back.

package cluster

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Option customizes KMeans and SelectK.
type Option func(*config)

type config struct {
	seed     int64
	restarts int
	maxIter  int
	logger   *slog.Logger
}

func newConfig(opts ...Option) config {
	c := config{
		seed:     time.Now().UnixNano(),
		restarts: 10,
		maxIter:  300,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithSeed fixes the random source used for seeding centroids.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithRestarts sets how many independent seedings are tried. Panics if n < 1.
func WithRestarts(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("cluster: WithRestarts(%d): must be >= 1", n))
	}
	return func(c *config) { c.restarts = n }
}

// WithMaxIter caps Lloyd iterations per restart. Panics if n < 1.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("cluster: WithMaxIter(%d): must be >= 1", n))
	}
	return func(c *config) { c.maxIter = n }
}

// WithLogger routes per-run summaries to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("cluster: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// Result is a flat partition.
type Result struct {
	K          int
	Labels     []int       // canonical: first item of each cluster in order
	Centroids  [][]float64 // Centroids[c] for label c
	Inertia    float64     // sum of squared distances to own centroid
	Iterations int         // Lloyd iterations of the winning restart
}

// KMeans partitions points into k clusters.
//
// Complexity: O(restarts·iter·N·k·dims).
func KMeans(points [][]float64, k int, opts ...Option) (*Result, error) {
	dims, err := checkPoints(points)
	if err != nil {
		return nil, fmt.Errorf("KMeans: %w", err)
	}
	if k < 1 || k > len(points) {
		return nil, fmt.Errorf("KMeans: k=%d for %d points: %w", k, len(points), ErrBadK)
	}
	cfg := newConfig(opts...)
	rng := rand.New(rand.NewSource(cfg.seed))

	var best *Result
	for r := 0; r < cfg.restarts; r++ {
		res := lloyd(points, k, dims, seedPlusPlus(points, k, rng), cfg.maxIter)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	canonicalize(best)
	cfg.logger.Debug("kmeans finished",
		slog.Int("k", k),
		slog.Int("restarts", cfg.restarts),
		slog.Float64("inertia", best.Inertia))

	return best, nil
}

// checkPoints returns the common dimensionality of points.
func checkPoints(points [][]float64) (int, error) {
	if len(points) == 0 || len(points[0]) == 0 {
		return 0, ErrEmptyInput
	}
	dims := len(points[0])
	for i, p := range points {
		if len(p) != dims {
			return 0, fmt.Errorf("point %d has %d dims, want %d: %w", i, len(p), dims, ErrDimensionMismatch)
		}
	}

	return dims, nil
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}

	return s
}

// seedPlusPlus picks k initial centroids: the first uniformly, each next
// with probability proportional to squared distance from the nearest
// chosen one. Falls back to uniform when every point is already a centre.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centres := make([][]float64, 0, k)
	centres = append(centres, append([]float64(nil), points[rng.Intn(n)]...))

	nearest := make([]float64, n)
	for i, p := range points {
		nearest[i] = sqDist(p, centres[0])
	}
	for len(centres) < k {
		var total float64
		for _, d := range nearest {
			total += d
		}
		pick := rng.Intn(n)
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range nearest {
				target -= d
				if target < 0 {
					pick = i
					break
				}
			}
		}
		c := append([]float64(nil), points[pick]...)
		centres = append(centres, c)
		for i, p := range points {
			if d := sqDist(p, c); d < nearest[i] {
				nearest[i] = d
			}
		}
	}

	return centres
}

// lloyd alternates assignment and update until labels stop changing.
func lloyd(points [][]float64, k, dims int, centres [][]float64, maxIter int) *Result {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for iter < maxIter {
		iter++
		changed := false
		for i, p := range points {
			best, bestD := 0, math.Inf(1)
			for c, ctr := range centres {
				if d := sqDist(p, ctr); d < bestD {
					best, bestD = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			for d := range p {
				sums[labels[i]][d] += p[d]
			}
		}
		for c := range centres {
			if counts[c] == 0 {
				far := farthest(points, labels, centres)
				copy(centres[c], points[far])
				labels[far] = c
				changed = true
				continue
			}
			for d := range centres[c] {
				centres[c][d] = sums[c][d] / float64(counts[c])
			}
		}
		if !changed {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centres[labels[i]])
	}

	return &Result{K: k, Labels: labels, Centroids: centres, Inertia: inertia, Iterations: iter}
}

// farthest returns the point with the largest distance to its centroid.
func farthest(points [][]float64, labels []int, centres [][]float64) int {
	idx, bestD := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, centres[labels[i]]); d > bestD {
			idx, bestD = i, d
		}
	}

	return idx
}

// canonicalize renumbers labels by first appearance and permutes the
// centroids to match.
func canonicalize(r *Result) {
	remap := make(map[int]int, r.K)
	for i, l := range r.Labels {
		nl, ok := remap[l]
		if !ok {
			nl = len(remap)
			remap[l] = nl
		}
		r.Labels[i] = nl
	}
	centres := make([][]float64, len(r.Centroids))
	for old, c := range r.Centroids {
		if nl, ok := remap[old]; ok {
			centres[nl] = c
		}
	}
	// Centroids with no members (only possible when points repeat) go last.
	next := len(remap)
	for old, c := range r.Centroids {
		if _, ok := remap[old]; !ok {
			centres[next] = c
			next++
		}
	}
	r.Centroids = centres
}
