package covering_test

import (
	"testing"

	"github.com/katalvlaran/pairlab/covering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverage_PackedIndexing(t *testing.T) {
	c := covering.NewCoverage(5)
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, 5, c.N())

	require.NoError(t, c.Add(covering.Trial{4, 0, 2}))
	assert.Equal(t, 1, c.Count(0, 2))
	assert.Equal(t, 1, c.Count(2, 0), "Count is symmetric")
	assert.Equal(t, 1, c.Count(0, 4))
	assert.Equal(t, 1, c.Count(2, 4))
	assert.Equal(t, 0, c.Count(1, 3))
	assert.Equal(t, 3, c.Total())

	// Degenerate lookups never panic.
	assert.Equal(t, 0, c.Count(2, 2))
	assert.Equal(t, 0, c.Count(-1, 3))
	assert.Equal(t, 0, c.Count(1, 5))
}

func TestCoverage_AddRejectsBadTrials(t *testing.T) {
	c := covering.NewCoverage(4)

	err := c.Add(covering.Trial{0, 4})
	assert.ErrorIs(t, err, covering.ErrItemOutOfRange)

	err = c.Add(covering.Trial{1, 2, 1})
	assert.ErrorIs(t, err, covering.ErrDuplicateItem)

	assert.Equal(t, 0, c.Total(), "failed Add must not touch counts")
}

func TestCoverage_UncoveredOrderAndExclusion(t *testing.T) {
	c := covering.NewCoverage(4)
	require.NoError(t, c.Add(covering.Trial{1, 2}))

	assert.Equal(t, []covering.Pair{
		{A: 0, B: 1}, {A: 0, B: 2}, {A: 0, B: 3}, {A: 1, B: 3}, {A: 2, B: 3},
	}, c.Uncovered())

	// Exclusions are canonicalised.
	assert.Equal(t, []covering.Pair{
		{A: 0, B: 1}, {A: 0, B: 2}, {A: 1, B: 3}, {A: 2, B: 3},
	}, c.Uncovered(covering.Pair{A: 3, B: 0}))
}

func TestReplay_MatchesIncrementalAdds(t *testing.T) {
	plan := covering.TrialList{{0, 1, 2}, {2, 3, 4}, {0, 2, 4}}

	c := covering.NewCoverage(5)
	for _, tr := range plan {
		require.NoError(t, c.Add(tr))
	}
	replayed, err := covering.Replay(5, plan)
	require.NoError(t, err)
	assert.True(t, c.Equal(replayed))
	assert.Equal(t, 2, replayed.Count(0, 2))
	assert.Equal(t, 3, replayed.Count(2, 4)+replayed.Count(0, 4))

	_, err = covering.Replay(3, plan)
	assert.ErrorIs(t, err, covering.ErrItemOutOfRange)
}

func TestCoverage_EqualAndClone(t *testing.T) {
	a := covering.NewCoverage(3)
	b := a.Clone()
	assert.True(t, a.Equal(b))

	require.NoError(t, b.Add(covering.Trial{0, 1}))
	assert.False(t, a.Equal(b), "clone must be independent")
	assert.False(t, a.Equal(covering.NewCoverage(4)))
	assert.False(t, a.Equal(nil))
}

func TestTrial_Helpers(t *testing.T) {
	tr := covering.Trial{3, 1, 2}
	assert.True(t, tr.Contains(1))
	assert.False(t, tr.Contains(0))
	assert.Equal(t, covering.Trial{1, 2, 3}, tr.Sorted())
	assert.Equal(t, covering.Trial{3, 1, 2}, tr, "Sorted must not reorder in place")
	assert.Equal(t, []covering.Pair{{A: 1, B: 3}, {A: 2, B: 3}, {A: 1, B: 2}}, tr.Pairs())

	assert.Equal(t, 0, covering.PairCount(1))
	assert.Equal(t, 153, covering.PairCount(18))
}
