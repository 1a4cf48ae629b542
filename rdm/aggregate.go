package rdm

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/pairlab/covering"
	"github.com/katalvlaran/pairlab/session"
)

// Weighting selects how per-trial distances are averaged.
type Weighting int

const (
	// WeightSquared weights each scaled distance by its raw distance squared.
	WeightSquared Weighting = iota
	// WeightUniform is the plain mean of scaled distances.
	WeightUniform
)

// String returns the config spelling of w.
func (w Weighting) String() string {
	switch w {
	case WeightSquared:
		return "squared"
	case WeightUniform:
		return "uniform"
	default:
		return fmt.Sprintf("Weighting(%d)", int(w))
	}
}

// ParseWeighting is the inverse of String.
func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "squared", "":
		return WeightSquared, nil
	case "uniform":
		return WeightUniform, nil
	default:
		return 0, fmt.Errorf("ParseWeighting(%q): %w", s, ErrUnknownWeighting)
	}
}

// Option customizes Aggregate.
type Option func(*config)

type config struct {
	weighting Weighting
	anchors   [2]int
	anchored  bool
	logger    *slog.Logger
}

// WithWeighting selects the averaging scheme. Panics on an unknown value.
func WithWeighting(w Weighting) Option {
	if w != WeightSquared && w != WeightUniform {
		panic(fmt.Sprintf("rdm: WithWeighting(%d): unknown weighting", int(w)))
	}
	return func(c *config) { c.weighting = w }
}

// WithAnchors scales every trial that shows both a and b by their on-screen
// distance instead of the trial's largest distance. Trials missing either
// anchor, or placing the two on top of each other, fall back to the
// largest distance. Panics on negative or equal ids.
func WithAnchors(a, b int) Option {
	if a < 0 || b < 0 || a == b {
		panic(fmt.Sprintf("rdm: WithAnchors(%d, %d): need two distinct non-negative ids", a, b))
	}
	return func(c *config) { c.anchors, c.anchored = [2]int{a, b}, true }
}

// WithLogger routes per-document statistics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("rdm: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// Aggregate combines the trials of every document into one RDM. All
// documents must share num_items_total. Trials with fewer than two items
// are skipped. Each trial is scaled by its anchor distance (see
// WithAnchors) or else by its largest distance. A trial whose tokens all overlap contributes zero distance
// (and, under WeightSquared, zero weight).
//
// Complexity: O(T·K²) for T trials of K items; Memory: O(N²).
func Aggregate(docs []*session.Document, opts ...Option) (*Matrix, error) {
	cfg := config{weighting: WeightSquared, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	n, err := itemCount(docs)
	if err != nil {
		return nil, fmt.Errorf("Aggregate: %w", err)
	}

	sums := make([]float64, n*n)
	weights := make([]float64, n*n)
	var used, skipped, byAnchor int
	for di, doc := range docs {
		for _, tr := range doc.Trials {
			if len(tr.Items) < 2 {
				skipped++
				continue
			}
			anchored, err := accumulate(tr, n, &cfg, sums, weights)
			if err != nil {
				return nil, fmt.Errorf("Aggregate: document %d: trial %d: %w", di, tr.TrialIndex, err)
			}
			used++
			if anchored {
				byAnchor++
			}
		}
	}
	cfg.logger.Debug("rdm aggregated",
		slog.Int("documents", len(docs)),
		slog.Int("trials_used", used),
		slog.Int("trials_skipped", skipped),
		slog.Int("trials_anchor_scaled", byAnchor),
		slog.String("weighting", cfg.weighting.String()))

	m := &Matrix{n: n, data: make([]float64, n*n)}
	for idx := range sums {
		if weights[idx] > 0 && idx/n != idx%n {
			m.data[idx] = sums[idx] / weights[idx]
		}
	}

	return m, nil
}

// accumulate adds one trial's scaled distances into sums/weights and
// reports whether the anchor distance set the scale.
func accumulate(tr session.TrialRecord, n int, cfg *config, sums, weights []float64) (bool, error) {
	items := tr.Items
	ia, ib := -1, -1
	for idx, p := range items {
		if p.ID < 0 || p.ID >= n {
			return false, fmt.Errorf("item %d not in [0,%d): %w", p.ID, n, ErrItemOutOfRange)
		}
		if cfg.anchored {
			switch p.ID {
			case cfg.anchors[0]:
				ia = idx
			case cfg.anchors[1]:
				ib = idx
			}
		}
	}

	k := len(items)
	raw := make([]float64, k*k)
	var mx float64
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			d := math.Hypot(items[a].X-items[b].X, items[a].Y-items[b].Y)
			raw[a*k+b] = d
			if d > mx {
				mx = d
			}
		}
	}

	scale, anchored := mx, false
	if ia >= 0 && ib >= 0 {
		if d := math.Hypot(items[ia].X-items[ib].X, items[ia].Y-items[ib].Y); d > 0 {
			scale, anchored = d, true
		}
	}

	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			i, j := items[a].ID, items[b].ID
			if i == j {
				continue
			}
			d := raw[a*k+b]
			scaled := d
			if scale > 0 {
				scaled = d / scale
			}
			wt := 1.0
			if cfg.weighting == WeightSquared {
				wt = d * d
			}
			sums[i*n+j] += scaled * wt
			sums[j*n+i] += scaled * wt
			weights[i*n+j] += wt
			weights[j*n+i] += wt
		}
	}

	return anchored, nil
}

// itemCount checks every document agrees on N.
func itemCount(docs []*session.Document) (int, error) {
	if len(docs) == 0 {
		return 0, ErrNoDocuments
	}
	n := docs[0].Config.NumItemsTotal
	if n <= 0 {
		return 0, fmt.Errorf("num_items_total=%d: %w", n, ErrBadSize)
	}
	for i, d := range docs[1:] {
		if d.Config.NumItemsTotal != n {
			return 0, fmt.Errorf("document %d has %d items, want %d: %w", i+1, d.Config.NumItemsTotal, n, ErrItemCountMismatch)
		}
	}

	return n, nil
}

// Coverage counts, per item pair, the trials in which both items were
// placed. Uncovered pairs are the ones Aggregate leaves at zero.
func Coverage(docs []*session.Document) (*covering.Coverage, error) {
	n, err := itemCount(docs)
	if err != nil {
		return nil, fmt.Errorf("Coverage: %w", err)
	}

	cov := covering.NewCoverage(n)
	for di, doc := range docs {
		for _, tr := range doc.Trials {
			trial := make(covering.Trial, len(tr.Items))
			for i, p := range tr.Items {
				trial[i] = p.ID
			}
			if err := cov.Add(trial); err != nil {
				return nil, fmt.Errorf("Coverage: document %d: trial %d: %w", di, tr.TrialIndex, err)
			}
		}
	}

	return cov, nil
}
