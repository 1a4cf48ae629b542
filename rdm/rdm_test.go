package rdm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/katalvlaran/pairlab/rdm"
	"github.com/katalvlaran/pairlab/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pt struct {
	id   int
	x, y float64
}

func trial(idx int, pts ...pt) session.TrialRecord {
	tr := session.TrialRecord{TrialIndex: idx}
	for _, p := range pts {
		tr.Items = append(tr.Items, session.Placement{ID: p.id, X: p.x, Y: p.y})
	}

	return tr
}

func doc(n int, trials ...session.TrialRecord) *session.Document {
	return &session.Document{
		Config: session.Config{NumItemsTotal: n, ItemsPerTrial: 2, TotalTrials: len(trials)},
		Trials: trials,
	}
}

// triangle is a 3-4-5 right triangle: scaled distances 0.6, 0.8, 1.0.
var triangle = trial(0, pt{0, 0, 0}, pt{1, 3, 0}, pt{2, 0, 4})

func at(t *testing.T, m *rdm.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

func TestAggregate_SingleTrialScaledByMax(t *testing.T) {
	for _, w := range []rdm.Weighting{rdm.WeightSquared, rdm.WeightUniform} {
		m, err := rdm.Aggregate([]*session.Document{doc(3, triangle)}, rdm.WithWeighting(w))
		require.NoError(t, err)
		assert.InDelta(t, 0.6, at(t, m, 0, 1), 1e-12, w.String())
		assert.InDelta(t, 0.8, at(t, m, 0, 2), 1e-12, w.String())
		assert.InDelta(t, 1.0, at(t, m, 1, 2), 1e-12, w.String())
		assert.InDelta(t, at(t, m, 0, 1), at(t, m, 1, 0), 0, "symmetric")
		assert.Zero(t, at(t, m, 2, 2))
	}
}

func TestAggregate_AnchorScaling(t *testing.T) {
	// Anchors 0 and 2 one unit apart, item 1 four units from item 0.
	anchored := trial(0, pt{0, 0, 0}, pt{1, 0, 4}, pt{2, 1, 0})

	m, err := rdm.Aggregate([]*session.Document{doc(3, anchored)},
		rdm.WithWeighting(rdm.WeightUniform), rdm.WithAnchors(0, 2))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, at(t, m, 0, 1), 1e-12)
	assert.InDelta(t, 1.0, at(t, m, 0, 2), 1e-12)

	// Without the option the largest distance sets the scale.
	plain, err := rdm.Aggregate([]*session.Document{doc(3, anchored)}, rdm.WithWeighting(rdm.WeightUniform))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, at(t, plain, 0, 1), 1e-12)
	assert.InDelta(t, 0.25, at(t, plain, 0, 2), 1e-12)
}

func TestAggregate_AnchorFallback(t *testing.T) {
	tests := []struct {
		name  string
		trial session.TrialRecord
	}{
		{"anchor missing", triangle},
		{"anchors coincide", trial(0, pt{0, 0, 0}, pt{1, 3, 0}, pt{2, 0, 4}, pt{3, 0, 0})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := rdm.Aggregate([]*session.Document{doc(4, tc.trial)},
				rdm.WithWeighting(rdm.WeightUniform), rdm.WithAnchors(0, 3))
			require.NoError(t, err)
			assert.InDelta(t, 0.6, at(t, m, 0, 1), 1e-12)
			assert.InDelta(t, 1.0, at(t, m, 1, 2), 1e-12)
		})
	}
}

func TestAggregate_Weighting(t *testing.T) {
	// Second trial puts 0 and 1 one unit apart: scaled 1.0, raw weight 1.
	docs := []*session.Document{doc(3, triangle, trial(1, pt{0, 0, 0}, pt{1, 1, 0}))}

	sq, err := rdm.Aggregate(docs)
	require.NoError(t, err)
	assert.InDelta(t, (0.6*9+1.0*1)/(9+1), at(t, sq, 0, 1), 1e-12)

	uni, err := rdm.Aggregate(docs, rdm.WithWeighting(rdm.WeightUniform))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, at(t, uni, 0, 1), 1e-12)
}

func TestAggregate_AcrossDocuments(t *testing.T) {
	a := doc(3, triangle)
	b := doc(3, trial(0, pt{1, 0, 0}, pt{2, 0, 2}))

	m, err := rdm.Aggregate([]*session.Document{a, b}, rdm.WithWeighting(rdm.WeightUniform))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, at(t, m, 1, 2), 1e-12)
	assert.InDelta(t, 0.6, at(t, m, 0, 1), 1e-12)
}

func TestAggregate_EdgeCases(t *testing.T) {
	overlap := trial(0, pt{0, 5, 5}, pt{1, 5, 5})
	single := trial(1, pt{2, 1, 1})

	m, err := rdm.Aggregate([]*session.Document{doc(4, overlap, single)})
	require.NoError(t, err)
	assert.Zero(t, at(t, m, 0, 1), "all-zero trial contributes nothing")
	assert.Zero(t, at(t, m, 2, 3), "never co-presented stays 0")

	_, err = rdm.Aggregate(nil)
	assert.ErrorIs(t, err, rdm.ErrNoDocuments)

	_, err = rdm.Aggregate([]*session.Document{doc(3, triangle), doc(4)})
	assert.ErrorIs(t, err, rdm.ErrItemCountMismatch)

	_, err = rdm.Aggregate([]*session.Document{doc(2, triangle)})
	assert.ErrorIs(t, err, rdm.ErrItemOutOfRange)
}

func TestCoverage(t *testing.T) {
	docs := []*session.Document{doc(4, triangle, trial(1, pt{0, 0, 0}, pt{1, 1, 0}))}

	cov, err := rdm.Coverage(docs)
	require.NoError(t, err)
	assert.Equal(t, 2, cov.Count(0, 1))
	assert.Equal(t, 1, cov.Count(1, 2))
	assert.Equal(t, 0, cov.Count(0, 3))
	assert.Len(t, cov.Uncovered(), 3)

	_, err = rdm.Coverage(nil)
	assert.ErrorIs(t, err, rdm.ErrNoDocuments)
}

func TestMatrix_SetAt(t *testing.T) {
	m, err := rdm.New(3)
	require.NoError(t, err)

	require.NoError(t, m.Set(0, 2, 0.5))
	assert.Equal(t, 0.5, at(t, m, 2, 0))
	assert.ErrorIs(t, m.Set(1, 1, 1), rdm.ErrNonZeroDiagonal)
	assert.ErrorIs(t, m.Set(3, 0, 1), rdm.ErrOutOfRange)
	_, err = m.At(-1, 0)
	assert.ErrorIs(t, err, rdm.ErrOutOfRange)
	assert.Equal(t, 0.5, m.Max())

	c := m.Clone()
	require.NoError(t, c.Set(0, 2, 0.9))
	assert.Equal(t, 0.5, at(t, m, 0, 2), "clone is deep")
	assert.Nil(t, m.Row(7))

	_, err = rdm.New(0)
	assert.ErrorIs(t, err, rdm.ErrBadSize)
}

func TestFromRows(t *testing.T) {
	_, err := rdm.FromRows([][]float64{{0, 1}, {2, 0}})
	assert.ErrorIs(t, err, rdm.ErrAsymmetry)

	_, err = rdm.FromRows([][]float64{{0, 1}, {1}})
	assert.ErrorIs(t, err, rdm.ErrNotSquare)

	m, err := rdm.FromRows([][]float64{{7, 1}, {1, 7}})
	require.NoError(t, err)
	assert.Zero(t, at(t, m, 0, 0), "diagonal forced to zero")
}

func TestMatrix_CSVRoundTrip(t *testing.T) {
	m, err := rdm.Aggregate([]*session.Document{doc(3, triangle)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ",0,1,2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,0,"))

	back, err := rdm.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Rows(), back.Rows())
}

func TestParseWeighting(t *testing.T) {
	w, err := rdm.ParseWeighting("uniform")
	require.NoError(t, err)
	assert.Equal(t, rdm.WeightUniform, w)

	w, err = rdm.ParseWeighting("")
	require.NoError(t, err)
	assert.Equal(t, rdm.WeightSquared, w)

	_, err = rdm.ParseWeighting("cubic")
	assert.ErrorIs(t, err, rdm.ErrUnknownWeighting)

	assert.Panics(t, func() { rdm.WithWeighting(rdm.Weighting(9)) })
	assert.Panics(t, func() { rdm.WithLogger(nil) })
	assert.Panics(t, func() { rdm.WithAnchors(1, 1) })
	assert.Panics(t, func() { rdm.WithAnchors(-1, 2) })
}
