package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
)

// Silhouette returns the mean silhouette coefficient of labels over points.
// It needs between 2 and N-1 distinct labels. Items alone in their cluster
// score 0.
//
// Complexity: O(N²·dims).
func Silhouette(points [][]float64, labels []int) (float64, error) {
	if _, err := checkPoints(points); err != nil {
		return 0, fmt.Errorf("Silhouette: %w", err)
	}
	n := len(points)
	if len(labels) != n {
		return 0, fmt.Errorf("Silhouette: %d labels for %d points: %w", len(labels), n, ErrDimensionMismatch)
	}
	sizes := make(map[int]int)
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 || len(sizes) > n-1 {
		return 0, fmt.Errorf("Silhouette: %d clusters for %d points: %w", len(sizes), n, ErrBadK)
	}

	var total float64
	sums := make(map[int]float64, len(sizes))
	for i := 0; i < n; i++ {
		if sizes[labels[i]] == 1 {
			continue
		}
		clear(sums)
		for j := 0; j < n; j++ {
			if i != j {
				sums[labels[j]] += math.Sqrt(sqDist(points[i], points[j]))
			}
		}
		a := sums[labels[i]] / float64(sizes[labels[i]]-1)
		b := math.Inf(1)
		for l, s := range sums {
			if l == labels[i] {
				continue
			}
			if m := s / float64(sizes[l]); m < b {
				b = m
			}
		}
		if den := math.Max(a, b); den > 0 {
			total += (b - a) / den
		}
	}

	return total / float64(n), nil
}

// Score is the silhouette of one candidate K.
type Score struct {
	K          int     `json:"k" yaml:"k"`
	Silhouette float64 `json:"silhouette" yaml:"silhouette"`
}

// Selection is the outcome of SelectK.
type Selection struct {
	Best   *Result
	Scores []Score // ascending K
}

// SelectK runs KMeans for every K in [kMin, kMax) and keeps the partition
// with the highest silhouette; ties go to the smaller K. kMax is clamped to
// N so every candidate has a defined silhouette. Candidates run
// concurrently; each uses the same seed, so results do not depend on
// scheduling.
func SelectK(ctx context.Context, points [][]float64, kMin, kMax int, opts ...Option) (*Selection, error) {
	if _, err := checkPoints(points); err != nil {
		return nil, fmt.Errorf("SelectK: %w", err)
	}
	if kMax > len(points) {
		kMax = len(points)
	}
	if kMin < 2 || kMin >= kMax {
		return nil, fmt.Errorf("SelectK: empty range [%d,%d) for %d points: %w", kMin, kMax, len(points), ErrBadK)
	}
	cfg := newConfig(opts...)
	// Pin the seed so every candidate starts from the same source.
	opts = append(append([]Option(nil), opts...), WithSeed(cfg.seed))

	results := make([]*Result, kMax-kMin)
	scores := make([]Score, kMax-kMin)
	g, ctx := errgroup.WithContext(ctx)
	for k := kMin; k < kMax; k++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := KMeans(points, k, opts...)
			if err != nil {
				return err
			}
			s, err := Silhouette(points, res.Labels)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			results[k-kMin] = res
			scores[k-kMin] = Score{K: k, Silhouette: s}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("SelectK: %w", err)
	}

	best := 0
	for i, s := range scores {
		if s.Silhouette > scores[best].Silhouette {
			best = i
		}
	}
	cfg.logger.Info("cluster count selected",
		slog.Int("k", scores[best].K),
		slog.Float64("silhouette", scores[best].Silhouette))

	return &Selection{Best: results[best], Scores: scores}, nil
}
