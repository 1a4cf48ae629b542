package stimulus_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/katalvlaran/pairlab/stimulus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Preset18Order(t *testing.T) {
	set, err := stimulus.Grid(stimulus.Preset18())
	require.NoError(t, err)
	require.Len(t, set, 18)

	assert.Equal(t, stimulus.Stimulus{ID: 0, Distance: 0.05, Velocity: 10, AMFrequency: 0, STMFrequency: 0.2}, set[0])
	assert.Equal(t, 20.0, set[1].AMFrequency, "AM is the fastest-varying axis")
	assert.Equal(t, 100.0, set[3].Velocity)
	assert.Equal(t, 4.0, set[9].Distance)

	last := set[17]
	assert.Equal(t, 17, last.ID)
	assert.Equal(t, 4.0, last.Distance)
	assert.Equal(t, 1000.0, last.Velocity)
	assert.Equal(t, 100.0, last.AMFrequency)
	assert.InDelta(t, 0.25, last.STMFrequency, 1e-12)

	for i, s := range set {
		assert.Equal(t, i, s.ID)
		assert.Empty(t, s.Color)
	}
}

func TestGrid_PresetSizes(t *testing.T) {
	for name, want := range map[string]int{"8": 8, "18": 18, "27": 27} {
		axes, ok := stimulus.PresetByName(name)
		require.True(t, ok, name)
		assert.Equal(t, want, axes.Size(), name)
	}
	_, ok := stimulus.PresetByName("9")
	assert.False(t, ok)
}

func TestGrid_Colors(t *testing.T) {
	a, err := stimulus.Grid(stimulus.Preset8(), stimulus.WithColorSeed(3))
	require.NoError(t, err)
	b, err := stimulus.Grid(stimulus.Preset8(), stimulus.WithColorSeed(3))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same colour seed ⇒ same colours")
	for _, s := range a {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, s.Color)
	}
}

func TestGrid_Validation(t *testing.T) {
	_, err := stimulus.Grid(stimulus.Axes{Distances: []float64{1}, Velocities: []float64{1}})
	assert.ErrorIs(t, err, stimulus.ErrEmptyAxis)

	_, err = stimulus.Grid(stimulus.Axes{
		Distances: []float64{0}, Velocities: []float64{10}, AMFrequencies: []float64{0},
	})
	assert.ErrorIs(t, err, stimulus.ErrNonPositive)

	_, err = stimulus.Grid(stimulus.Axes{
		Distances: []float64{1}, Velocities: []float64{10}, AMFrequencies: []float64{-5},
	})
	assert.ErrorIs(t, err, stimulus.ErrNegative)
}

func TestExtremeAnchors(t *testing.T) {
	assert.Equal(t, []int{0, 17}, stimulus.ExtremeAnchors(18))
	assert.Nil(t, stimulus.ExtremeAnchors(1))
}

func TestRandomWalk_StaysInside(t *testing.T) {
	pts, err := stimulus.RandomWalk(4.0, 500, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, pts, 500)
	for i, p := range pts {
		assert.True(t, p.X >= 0 && p.X <= stimulus.AreaSize && p.Y >= 0 && p.Y <= stimulus.AreaSize,
			"point %d (%v) left the area", i, p)
		if i > 0 {
			dx, dy := p.X-pts[i-1].X, p.Y-pts[i-1].Y
			assert.InDelta(t, 16.0, dx*dx+dy*dy, 1e-9, "step %d has wrong length", i)
		}
	}
}

func TestRandomWalk_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := stimulus.RandomWalk(1, 10, nil)
	assert.ErrorIs(t, err, stimulus.ErrNilRand)
	_, err = stimulus.RandomWalk(0, 10, rng)
	assert.ErrorIs(t, err, stimulus.ErrNonPositive)
	_, err = stimulus.RandomWalk(stimulus.MaxStep+1, 10, rng)
	assert.ErrorIs(t, err, stimulus.ErrStepTooLarge)
	_, err = stimulus.RandomWalk(1, 0, rng)
	assert.ErrorIs(t, err, stimulus.ErrNonPositive)
}

func TestCheckTrajectory(t *testing.T) {
	th := stimulus.DefaultThresholds()

	var spread []stimulus.Point
	for x := 0.0; x <= 10; x++ {
		for y := 0.0; y <= 10; y++ {
			spread = append(spread, stimulus.Point{X: x, Y: y})
		}
	}
	assert.NoError(t, stimulus.CheckTrajectory(spread, th))

	clustered := []stimulus.Point{{X: 5, Y: 5}, {X: 5.1, Y: 5}, {X: 5, Y: 5.1}}
	assert.ErrorIs(t, stimulus.CheckTrajectory(clustered, th), stimulus.ErrInvalidTrajectory)

	corner := []stimulus.Point{{X: 0, Y: 0}, {X: 2, Y: 2}}
	assert.ErrorIs(t, stimulus.CheckTrajectory(corner, th), stimulus.ErrInvalidTrajectory)

	assert.ErrorIs(t, stimulus.CheckTrajectory(nil, th), stimulus.ErrInvalidTrajectory)
}

func TestFindSeed_ReplaysExactly(t *testing.T) {
	res, err := stimulus.FindSeed(4.0, 200, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Attempts, 1)
	assert.NoError(t, stimulus.CheckTrajectory(res.Trajectory, stimulus.DefaultThresholds()))

	again, err := stimulus.Replay(4.0, res.Seed)
	require.NoError(t, err)
	assert.Equal(t, res.Trajectory, again)
	assert.Len(t, again, stimulus.PointsFor(4.0))
}

func TestFindSeed_Validation(t *testing.T) {
	_, err := stimulus.FindSeed(4.0, 10, nil)
	assert.ErrorIs(t, err, stimulus.ErrNilRand)
	_, err = stimulus.FindSeed(4.0, 0, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, stimulus.ErrNonPositive)
}

func TestSeedTable_BuildAndRoundTrip(t *testing.T) {
	set, err := stimulus.Grid(stimulus.Axes{
		Distances: []float64{4.0}, Velocities: []float64{100, 1000}, AMFrequencies: []float64{0},
	})
	require.NoError(t, err)

	table, err := stimulus.BuildSeedTable(set, rand.New(rand.NewSource(5)), stimulus.WithAttempts(50))
	require.NoError(t, err)
	require.Len(t, table.Stimuli, 2)
	for _, e := range table.Stimuli {
		pts, err := stimulus.Replay(e.Distance, e.Seed)
		require.NoError(t, err)
		if e.Valid {
			assert.NoError(t, stimulus.CheckTrajectory(pts, stimulus.DefaultThresholds()))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, stimulus.WriteSeedTable(&buf, table))
	assert.Contains(t, buf.String(), `"am_freq": 0`)
	back, err := stimulus.ReadSeedTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, back)

	e, ok := back.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, 1000.0, e.Velocity)
	_, ok = back.Lookup(7)
	assert.False(t, ok)
}

func TestValidSTMFrequencies(t *testing.T) {
	freqs := stimulus.ValidSTMFrequencies(1000, 40000, 0.5)
	require.NotEmpty(t, freqs)
	assert.Equal(t, 0.5, freqs[0])
	assert.Equal(t, 40.0, freqs[len(freqs)-1])
	for i := 1; i < len(freqs); i++ {
		assert.Less(t, freqs[i-1], freqs[i])
	}

	assert.Nil(t, stimulus.ValidSTMFrequencies(0, 40000, 0))
}
