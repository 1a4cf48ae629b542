// SPDX-License-Identifier: MIT
// Package: pairlab/covering
//
// options.go — functional options for NewGenerator.
//
// Contract:
//   • Options mutate a private generatorConfig; later options override earlier.
//   • Option constructors PANIC on meaningless inputs (nil rng, nil logger,
//     non-positive caps). Anchor values are NOT checked here: they depend on
//     N and surface as errors from NewGenerator.
//   • Without WithSeed/WithRand the generator draws a time-seeded source,
//     so plans differ between runs.
//
// AI-Hints:
//   • Use WithSeed in tests and when a plan must be reproducible for a
//     given participant.
//   • WithAnchors(0, n-1) is the usual weakest/strongest reference frame.

package covering

import (
	"log/slog"
	"math/rand"
)

// Option customizes a Generator.
type Option func(*generatorConfig)

type generatorConfig struct {
	anchors   []int
	rng       *rand.Rand
	maxTrials int // 0 ⇒ C(N,2)
	logger    *slog.Logger
}

func newGeneratorConfig(opts ...Option) generatorConfig {
	cfg := generatorConfig{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithAnchors forces items into every trial. The slice is copied.
func WithAnchors(items ...int) Option {
	anchors := append([]int(nil), items...)
	return func(c *generatorConfig) {
		c.anchors = anchors
	}
}

// WithRand provides an explicit random source. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("covering: WithRand(nil)")
	}
	return func(c *generatorConfig) {
		c.rng = r
	}
}

// WithSeed seeds a private random source for reproducible plans.
func WithSeed(seed int64) Option {
	return func(c *generatorConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithMaxTrials overrides the defensive trial cap (default C(N,2)).
// Panics on n < 1.
func WithMaxTrials(n int) Option {
	if n < 1 {
		panic("covering: WithMaxTrials(n<1)")
	}
	return func(c *generatorConfig) {
		c.maxTrials = n
	}
}

// WithLogger routes generator diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("covering: WithLogger(nil)")
	}
	return func(c *generatorConfig) {
		c.logger = l
	}
}
