package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/pairlab/covering"
	"github.com/katalvlaran/pairlab/stimulus"
)

// Position is a token position on the arrangement canvas.
type Position struct {
	X, Y float64
}

// RecorderOption customizes a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	anchors   []int
	seed      *int64
	sessionID string
	now       func() time.Time
	logger    *slog.Logger
}

// WithAnchors records the anchor set in the document header.
func WithAnchors(ids ...int) RecorderOption {
	anchors := append([]int(nil), ids...)
	return func(c *recorderConfig) { c.anchors = anchors }
}

// WithSeed records the seed the plan was generated with.
func WithSeed(seed int64) RecorderOption {
	return func(c *recorderConfig) { c.seed = &seed }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) RecorderOption {
	return func(c *recorderConfig) { c.sessionID = id }
}

// WithClock overrides time.Now. Panics on nil.
func WithClock(now func() time.Time) RecorderOption {
	if now == nil {
		panic("session: WithClock(nil)")
	}
	return func(c *recorderConfig) { c.now = now }
}

// WithLogger routes recorder events to l. Panics on nil.
func WithLogger(l *slog.Logger) RecorderOption {
	if l == nil {
		panic("session: WithLogger(nil)")
	}
	return func(c *recorderConfig) { c.logger = l }
}

// Recorder accumulates placements for a trial plan. Trials may be placed in
// any order and re-placed (the participant can step back); the latest
// placement wins. Not safe for concurrent use.
type Recorder struct {
	plan    covering.TrialList
	stimuli []stimulus.Stimulus
	header  Config
	records []*TrialRecord
	logger  *slog.Logger
}

// NewRecorder checks that every trial item has a stimulus and that stimulus
// ids equal their index.
func NewRecorder(plan covering.TrialList, stimuli []stimulus.Stimulus, opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{now: time.Now, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(plan) == 0 {
		return nil, fmt.Errorf("NewRecorder: %w", ErrEmptyPlan)
	}
	for i, s := range stimuli {
		if s.ID != i {
			return nil, fmt.Errorf("NewRecorder: stimulus at %d has id %d: %w", i, s.ID, ErrStimulusMismatch)
		}
	}
	for ti, tr := range plan {
		for _, id := range tr {
			if id < 0 || id >= len(stimuli) {
				return nil, fmt.Errorf("NewRecorder: trial %d: item %d: %w", ti, id, ErrItemOutOfRange)
			}
		}
	}
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.NewString()
	}

	r := &Recorder{
		plan:    plan.Clone(),
		stimuli: stimuli,
		header: Config{
			NumItemsTotal: len(stimuli),
			ItemsPerTrial: len(plan[0]),
			TotalTrials:   len(plan),
			AnchorItems:   cfg.anchors,
			Seed:          cfg.seed,
			SessionID:     cfg.sessionID,
			CreatedAt:     cfg.now().UTC(),
		},
		records: make([]*TrialRecord, len(plan)),
		logger:  cfg.logger,
	}

	return r, nil
}

// SessionID returns the id written to the document header.
func (r *Recorder) SessionID() string { return r.header.SessionID }

// Len returns the number of trials in the plan.
func (r *Recorder) Len() int { return len(r.plan) }

// Trial returns a copy of trial i.
func (r *Recorder) Trial(i int) (covering.Trial, error) {
	if i < 0 || i >= len(r.plan) {
		return nil, fmt.Errorf("Trial: %d not in [0,%d): %w", i, len(r.plan), ErrTrialIndex)
	}

	return append(covering.Trial(nil), r.plan[i]...), nil
}

// Place stores the final positions of trial i. pos must hold exactly the
// trial's members. Items are stored in trial order.
func (r *Recorder) Place(i int, pos map[int]Position) error {
	tr, err := r.Trial(i)
	if err != nil {
		return fmt.Errorf("Place: %w", err)
	}
	if len(pos) != len(tr) {
		return fmt.Errorf("Place: trial %d: got %d positions for %d items: %w", i, len(pos), len(tr), ErrPlacementMismatch)
	}

	rec := &TrialRecord{TrialIndex: i, Items: make([]Placement, 0, len(tr))}
	for _, id := range tr {
		p, ok := pos[id]
		if !ok {
			return fmt.Errorf("Place: trial %d: item %d missing: %w", i, id, ErrPlacementMismatch)
		}
		rec.Items = append(rec.Items, Placement{ID: id, X: p.X, Y: p.Y, Params: r.stimuli[id]})
	}

	replaced := r.records[i] != nil
	r.records[i] = rec
	r.logger.Debug("trial placed", slog.Int("trial_index", i), slog.Bool("replaced", replaced))

	return nil
}

// Placed reports whether trial i has been recorded.
func (r *Recorder) Placed(i int) bool {
	return i >= 0 && i < len(r.records) && r.records[i] != nil
}

// Complete reports whether every trial has been recorded.
func (r *Recorder) Complete() bool {
	for _, rec := range r.records {
		if rec == nil {
			return false
		}
	}

	return true
}

// Document snapshots the recorded trials in index order. Unrecorded trials
// are omitted; total_trials still reports the plan length.
func (r *Recorder) Document() *Document {
	doc := &Document{Config: r.header, Trials: make([]TrialRecord, 0, len(r.records))}
	doc.Config.AnchorItems = append([]int(nil), r.header.AnchorItems...)
	for _, rec := range r.records {
		if rec == nil {
			continue
		}
		cp := TrialRecord{TrialIndex: rec.TrialIndex, Items: append([]Placement(nil), rec.Items...)}
		doc.Trials = append(doc.Trials, cp)
	}

	return doc
}
