// SPDX-License-Identifier: MIT
// Package: pairlab/covering
//
// generator.go — greedy pair-covering trial generation.
//
// Per trial, until no required pair is uncovered:
//  1. Seed the trial with the anchor set.
//  2. Collect uncovered pairs, ignoring anchor–anchor pairs (they occur in
//     every trial by construction). None left ⇒ stop.
//  3. Pick a target pair: uniformly among uncovered pairs disjoint from the
//     anchors if any exist, else uniformly among all uncovered pairs. Add
//     its missing members; both must fit.
//  4. Fill the remaining slots one at a time with a candidate that closes
//     the most uncovered pairs against the current members; ties (including
//     the all-zero case) are broken uniformly at random.
//  5. Record the trial and increment every pair inside it.
//
// Every trial contains its target pair, which was uncovered, so each
// iteration strictly grows coverage and the loop ends after at most C(N,2)
// trials. The cap is still enforced and reported as ErrNonTermination.

package covering

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Generator produces pair-covering trial plans for a fixed (N, K, anchors)
// configuration. It is not safe for concurrent use.
type Generator struct {
	n, k      int
	anchors   []int
	isAnchor  []bool
	excluded  []Pair // anchor–anchor pairs, pre-satisfied
	rng       *rand.Rand
	maxTrials int
	logger    *slog.Logger

	coverage *Coverage
	trials   TrialList
}

// NewGenerator validates the configuration and returns a ready Generator.
//
// Errors (errors.Is):
//   - ErrInvalidSize:      N < 2, K < 2 or K > N.
//   - ErrAnchorOutOfRange: anchor outside [0, N).
//   - ErrDuplicateAnchor:  anchor listed twice.
//   - ErrAnchorOverflow:   |A| ≥ K, or |A| = K-1 with N > K.
func NewGenerator(n, k int, opts ...Option) (*Generator, error) {
	cfg := newGeneratorConfig(opts...)

	if err := validateSizes(n, k); err != nil {
		return nil, fmt.Errorf("NewGenerator: %w", err)
	}
	if err := validateAnchors(n, k, cfg.anchors); err != nil {
		return nil, fmt.Errorf("NewGenerator: %w", err)
	}

	g := &Generator{
		n:         n,
		k:         k,
		anchors:   cfg.anchors,
		isAnchor:  make([]bool, n),
		rng:       cfg.rng,
		maxTrials: cfg.maxTrials,
		logger:    cfg.logger,
		coverage:  NewCoverage(n),
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.maxTrials == 0 {
		g.maxTrials = PairCount(n)
	}
	for i, a := range g.anchors {
		g.isAnchor[a] = true
		for _, b := range g.anchors[i+1:] {
			g.excluded = append(g.excluded, NewPair(a, b))
		}
	}

	return g, nil
}

// Generate is a convenience wrapper: NewGenerator followed by Generate.
func Generate(n, k int, opts ...Option) (TrialList, error) {
	g, err := NewGenerator(n, k, opts...)
	if err != nil {
		return nil, err
	}

	return g.Generate()
}

// N returns the number of items.
func (g *Generator) N() int { return g.n }

// K returns the trial size.
func (g *Generator) K() int { return g.k }

// Anchors returns a copy of the anchor set in configuration order.
func (g *Generator) Anchors() []int { return append([]int(nil), g.anchors...) }

// Coverage returns a copy of the pair table left by the last Generate.
func (g *Generator) Coverage() *Coverage { return g.coverage.Clone() }

// Trials returns a copy of the plan produced by the last Generate.
func (g *Generator) Trials() TrialList { return g.trials.Clone() }

// Generate builds a fresh plan. Each call starts from an empty coverage
// table; successive calls continue drawing from the same random source.
func (g *Generator) Generate() (TrialList, error) {
	g.coverage = NewCoverage(g.n)
	g.trials = nil

	g.logger.Debug("generating trials",
		slog.Int("num_items", g.n),
		slog.Int("items_per_trial", g.k),
		slog.Any("anchors", g.anchors))

	var trials TrialList
	for {
		missing := g.coverage.Uncovered(g.excluded...)
		if len(missing) == 0 {
			break
		}
		if len(trials) >= g.maxTrials {
			return nil, fmt.Errorf("Generate: %d pairs still open after %d trials: %w",
				len(missing), len(trials), ErrNonTermination)
		}

		trial, err := g.nextTrial(missing)
		if err != nil {
			return nil, fmt.Errorf("Generate: trial %d: %w", len(trials), err)
		}
		if err = g.coverage.Add(trial); err != nil {
			return nil, fmt.Errorf("Generate: trial %d: %w", len(trials), err)
		}
		trials = append(trials, trial)

		g.logger.Debug("trial emitted",
			slog.Int("trial_index", len(trials)-1),
			slog.Any("items", trial),
			slog.Int("open_pairs", len(missing)))
	}

	g.trials = trials
	g.logger.Info("trial plan generated",
		slog.Int("total_trials", len(trials)),
		slog.Int("num_items", g.n),
		slog.Int("items_per_trial", g.k))

	return trials.Clone(), nil
}

// nextTrial assembles one trial of exactly K members (steps 1, 3 and 4).
func (g *Generator) nextTrial(missing []Pair) (Trial, error) {
	members := make(Trial, 0, g.k)
	in := make([]bool, g.n)
	for _, a := range g.anchors {
		members = append(members, a)
		in[a] = true
	}

	target := g.pickTarget(missing)
	need := 0
	for _, v := range [2]int{target.A, target.B} {
		if !in[v] {
			need++
		}
	}
	if len(members)+need > g.k {
		// Unreachable after validateAnchors; refuse to emit a half pair.
		return nil, fmt.Errorf("target pair %v does not fit beside %d anchors: %w",
			target, len(members), ErrNonTermination)
	}
	for _, v := range [2]int{target.A, target.B} {
		if !in[v] {
			members = append(members, v)
			in[v] = true
		}
	}

	for len(members) < g.k {
		best := g.bestCandidates(members, in)
		if len(best) == 0 {
			return nil, fmt.Errorf("no candidates left at size %d: %w", len(members), ErrNonTermination)
		}
		pick := best[g.rng.Intn(len(best))]
		members = append(members, pick)
		in[pick] = true
	}

	return members, nil
}

// pickTarget prefers uncovered pairs with no anchor member.
func (g *Generator) pickTarget(missing []Pair) Pair {
	free := make([]Pair, 0, len(missing))
	for _, p := range missing {
		if !g.isAnchor[p.A] && !g.isAnchor[p.B] {
			free = append(free, p)
		}
	}
	if len(free) > 0 {
		return free[g.rng.Intn(len(free))]
	}

	return missing[g.rng.Intn(len(missing))]
}

// bestCandidates returns every non-member whose addition would close the
// maximal number of uncovered pairs. When nothing closes a pair, all
// non-members tie at zero and the caller's uniform pick is the random fill.
func (g *Generator) bestCandidates(members Trial, in []bool) []int {
	bestGain := -1
	var best []int
	for c := 0; c < g.n; c++ {
		if in[c] {
			continue
		}
		gain := 0
		for _, m := range members {
			if !g.coverage.Covered(c, m) {
				gain++
			}
		}
		switch {
		case gain > bestGain:
			bestGain = gain
			best = append(best[:0], c)
		case gain == bestGain:
			best = append(best, c)
		}
	}

	return best
}
