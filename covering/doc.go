// Package covering builds pair-covering trial plans for multi-arrangement
// similarity experiments.
//
// 🚀 What is a pair-covering plan?
//
//	Participants cannot arrange all N stimuli at once, so every session is
//	split into trials of K items. For the collected arrangements to yield a
//	full dissimilarity matrix, every unordered pair of stimuli must appear
//	together in at least one trial. A plan is the ordered list of trials.
//
// ✨ Key features:
//   - greedy covering: each trial is seeded with an uncovered "target" pair and
//     filled with the items that close the most still-open pairs
//   - anchors: a fixed reference subset (typically the weakest and strongest
//     stimulus) forced into every trial
//   - explicit randomness: pass WithSeed/WithRand; nothing touches a global RNG
//   - defensive termination: a trial cap turns a would-be endless loop into
//     ErrNonTermination
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/pairlab/covering"
//
//	gen, err := covering.NewGenerator(18, 7,
//	  covering.WithAnchors(0, 17),
//	  covering.WithSeed(42),
//	)
//	if err != nil { ... }
//	plan, err := gen.Generate()
//
// Performance:
//
//   - Time:   O(T·K·N·K) where T is the number of trials (T ≤ C(N,2))
//   - Memory: O(N²) for the packed coverage table
//
// The plan is short but not provably minimal; greedy covering gives no
// optimality guarantee.
package covering
