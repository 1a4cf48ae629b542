package session_test

import (
	"context"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/pairlab/covering"
	"github.com/katalvlaran/pairlab/session"
	"github.com/katalvlaran/pairlab/stimulus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

// newRecorder builds a recorder over the 8-stimulus preset with a small
// hand-written plan.
func newRecorder(t *testing.T, opts ...session.RecorderOption) (*session.Recorder, covering.TrialList) {
	t.Helper()

	stims, err := stimulus.Grid(stimulus.Preset8())
	require.NoError(t, err)
	plan := covering.TrialList{
		{0, 7, 1, 2},
		{0, 7, 3, 4},
		{0, 7, 5, 6},
	}
	opts = append([]session.RecorderOption{session.WithClock(func() time.Time { return fixedNow })}, opts...)
	rec, err := session.NewRecorder(plan, stims, opts...)
	require.NoError(t, err)

	return rec, plan
}

// place records every item of trial i at (id, 2*id).
func place(t *testing.T, rec *session.Recorder, i int) {
	t.Helper()

	tr, err := rec.Trial(i)
	require.NoError(t, err)
	pos := make(map[int]session.Position, len(tr))
	for _, id := range tr {
		pos[id] = session.Position{X: float64(id), Y: float64(2 * id)}
	}
	require.NoError(t, rec.Place(i, pos))
}

func TestNewRecorder_Validation(t *testing.T) {
	stims, err := stimulus.Grid(stimulus.Preset8())
	require.NoError(t, err)

	_, err = session.NewRecorder(nil, stims)
	assert.ErrorIs(t, err, session.ErrEmptyPlan)

	_, err = session.NewRecorder(covering.TrialList{{0, 8}}, stims)
	assert.ErrorIs(t, err, session.ErrItemOutOfRange)

	shuffled := append([]stimulus.Stimulus(nil), stims...)
	shuffled[0], shuffled[1] = shuffled[1], shuffled[0]
	_, err = session.NewRecorder(covering.TrialList{{0, 1}}, shuffled)
	assert.ErrorIs(t, err, session.ErrStimulusMismatch)

	assert.Panics(t, func() { session.WithClock(nil) })
	assert.Panics(t, func() { session.WithLogger(nil) })
}

func TestRecorder_SessionID(t *testing.T) {
	a, _ := newRecorder(t)
	b, _ := newRecorder(t)
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID(), "generated ids must differ")

	c, _ := newRecorder(t, session.WithSessionID("fixed"))
	assert.Equal(t, "fixed", c.SessionID())
}

func TestRecorder_PlaceAndDocument(t *testing.T) {
	rec, plan := newRecorder(t, session.WithAnchors(0, 7), session.WithSeed(42))
	assert.Equal(t, 3, rec.Len())
	assert.False(t, rec.Complete())

	place(t, rec, 2)
	place(t, rec, 0)
	assert.True(t, rec.Placed(0))
	assert.False(t, rec.Placed(1))
	assert.False(t, rec.Placed(-1))
	assert.False(t, rec.Complete())

	doc := rec.Document()
	require.Len(t, doc.Trials, 2, "unrecorded trials are omitted")
	assert.Equal(t, 0, doc.Trials[0].TrialIndex)
	assert.Equal(t, 2, doc.Trials[1].TrialIndex)
	assert.Equal(t, 3, doc.Config.TotalTrials)
	assert.Equal(t, 8, doc.Config.NumItemsTotal)
	assert.Equal(t, 4, doc.Config.ItemsPerTrial)
	assert.Equal(t, []int{0, 7}, doc.Config.AnchorItems)
	require.NotNil(t, doc.Config.Seed)
	assert.Equal(t, int64(42), *doc.Config.Seed)
	assert.True(t, fixedNow.Equal(doc.Config.CreatedAt))

	for i, p := range doc.Trials[0].Items {
		assert.Equal(t, plan[0][i], p.ID, "items keep trial order")
		assert.Equal(t, float64(p.ID), p.X)
		assert.Equal(t, p.ID, p.Params.ID)
	}

	place(t, rec, 1)
	assert.True(t, rec.Complete())
	require.NoError(t, rec.Document().Validate())
}

func TestRecorder_PlaceOverwrites(t *testing.T) {
	rec, _ := newRecorder(t)
	place(t, rec, 0)

	pos := map[int]session.Position{0: {X: 9}, 7: {X: 9}, 1: {X: 9}, 2: {X: 9}}
	require.NoError(t, rec.Place(0, pos))
	for _, p := range rec.Document().Trials[0].Items {
		assert.Equal(t, 9.0, p.X, "latest placement wins")
	}
}

func TestRecorder_PlaceErrors(t *testing.T) {
	rec, _ := newRecorder(t)

	err := rec.Place(5, nil)
	assert.ErrorIs(t, err, session.ErrTrialIndex)

	err = rec.Place(0, map[int]session.Position{0: {}, 7: {}, 1: {}})
	assert.ErrorIs(t, err, session.ErrPlacementMismatch, "missing member")

	err = rec.Place(0, map[int]session.Position{0: {}, 7: {}, 1: {}, 3: {}})
	assert.ErrorIs(t, err, session.ErrPlacementMismatch, "foreign item")
	assert.False(t, rec.Placed(0), "failed Place must not record")
}

func TestRecorder_DocumentIsSnapshot(t *testing.T) {
	rec, _ := newRecorder(t, session.WithAnchors(0, 7))
	place(t, rec, 0)

	doc := rec.Document()
	doc.Trials[0].Items[0].X = -1
	doc.Config.AnchorItems[0] = 5

	again := rec.Document()
	assert.NotEqual(t, -1.0, again.Trials[0].Items[0].X)
	assert.Equal(t, 0, again.Config.AnchorItems[0])
}

func TestDocument_Validate(t *testing.T) {
	good := func() *session.Document {
		return &session.Document{
			Config: session.Config{NumItemsTotal: 3, ItemsPerTrial: 2, TotalTrials: 1},
			Trials: []session.TrialRecord{{TrialIndex: 0, Items: []session.Placement{{ID: 0}, {ID: 2}}}},
		}
	}
	require.NoError(t, good().Validate())

	tests := []struct {
		name   string
		mutate func(d *session.Document)
		want   error
	}{
		{"too few items", func(d *session.Document) { d.Config.NumItemsTotal = 1 }, session.ErrInvalidDocument},
		{"K above N", func(d *session.Document) { d.Config.ItemsPerTrial = 4 }, session.ErrInvalidDocument},
		{"negative id", func(d *session.Document) { d.Trials[0].Items[0].ID = -1 }, session.ErrInvalidDocument},
		{"bad session id", func(d *session.Document) { d.Config.SessionID = "not-a-uuid" }, session.ErrInvalidDocument},
		{"id above N", func(d *session.Document) { d.Trials[0].Items[1].ID = 3 }, session.ErrItemOutOfRange},
		{"anchor above N", func(d *session.Document) { d.Config.AnchorItems = []int{0, 3} }, session.ErrItemOutOfRange},
		{"duplicate", func(d *session.Document) { d.Trials[0].Items[1].ID = 0 }, session.ErrDuplicateItem},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := good()
			tc.mutate(d)
			assert.ErrorIs(t, d.Validate(), tc.want)
		})
	}
}

func TestDocument_Stimuli(t *testing.T) {
	rec, _ := newRecorder(t)
	place(t, rec, 0)

	params, ok := rec.Document().Stimuli()
	require.Len(t, params, 8)
	for _, id := range []int{0, 1, 2, 7} {
		assert.True(t, ok[id])
		assert.Equal(t, id, params[id].ID)
	}
	assert.False(t, ok[3])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "experiment_result_20260314_150926.json", session.FileName(fixedNow))
}

func TestSaveLoad(t *testing.T) {
	rec, _ := newRecorder(t, session.WithAnchors(0, 7))
	for i := 0; i < rec.Len(); i++ {
		place(t, rec, i)
	}
	doc := rec.Document()

	dir := t.TempDir()
	path, err := session.Save(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "experiment_result_20260314_150926.json"), path)

	got, err := session.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Trials, got.Trials)
	assert.Equal(t, doc.Config.SessionID, got.Config.SessionID)
	assert.Equal(t, doc.Config.AnchorItems, got.Config.AnchorItems)
	assert.True(t, doc.Config.CreatedAt.Equal(got.Config.CreatedAt))
}

func TestSave_KeepsExistingFile(t *testing.T) {
	rec, _ := newRecorder(t)
	place(t, rec, 0)
	doc := rec.Document()

	dir := t.TempDir()
	path, err := session.Save(dir, doc)
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	other := rec.Document()
	seed := int64(99)
	other.Config.Seed = &seed
	_, err = session.Save(dir, other)
	assert.ErrorIs(t, err, session.ErrResultExists)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "first session left intact")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := session.Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"config":{"num_items_total":1,"items_per_trial":1}}`), 0o644))
	_, err = session.Load(bad)
	assert.ErrorIs(t, err, session.ErrInvalidDocument)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		rec, _ := newRecorder(t)
		place(t, rec, 0)
		doc := rec.Document()
		doc.Config.CreatedAt = fixedNow.Add(time.Duration(i) * time.Second)
		p, err := session.Save(dir, doc)
		require.NoError(t, err)
		paths = append(paths, p)
	}

	docs, err := session.LoadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, docs, 5)
	for i, d := range docs {
		assert.True(t, fixedNow.Add(time.Duration(i)*time.Second).Equal(d.Config.CreatedAt), "order preserved")
	}

	_, err = session.LoadAll(context.Background(), append(paths, filepath.Join(dir, "nope.json")))
	assert.Error(t, err)
}

func TestArena_Clamp(t *testing.T) {
	a := session.DefaultArena()

	inside := session.Position{X: 410, Y: 395}
	assert.Equal(t, inside, a.Clamp(inside))

	out := a.Clamp(session.Position{X: 400 + 1000, Y: 400})
	assert.InDelta(t, 400+330, out.X, 1e-9)
	assert.InDelta(t, 400, out.Y, 1e-9)

	diag := a.Clamp(session.Position{X: 0, Y: 0})
	assert.InDelta(t, 330, math.Hypot(diag.X-400, diag.Y-400), 1e-9)
}

func TestArena_InitialLayout(t *testing.T) {
	a := session.DefaultArena()
	trial := covering.Trial{0, 7, 3, 4, 5}

	pos := a.InitialLayout(trial, []int{0, 7}, rand.New(rand.NewSource(1)))
	require.Len(t, pos, 5)
	assert.Equal(t, session.Position{X: 90, Y: 400}, pos[0], "first anchor on the left")
	assert.Equal(t, session.Position{X: 710, Y: 400}, pos[7], "second anchor on the right")
	for _, id := range trial {
		p := pos[id]
		assert.InDelta(t, 310, math.Hypot(p.X-400, p.Y-400), 1e-9, "item %d on the ring", id)
	}

	plain := a.InitialLayout(covering.Trial{1, 2}, nil, nil)
	assert.InDelta(t, 710, plain[1].X, 1e-9)
	assert.InDelta(t, 90, plain[2].X, 1e-9)

	assert.Empty(t, a.InitialLayout(nil, nil, nil))
}
