package session

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/pairlab/stimulus"
)

// documentValidate is shared; validator.Validate caches struct metadata
// and is safe for concurrent use.
var documentValidate = validator.New()

// Config is the header of a result document.
type Config struct {
	NumItemsTotal int       `json:"num_items_total" validate:"min=2"`
	ItemsPerTrial int       `json:"items_per_trial" validate:"min=2,ltefield=NumItemsTotal"`
	TotalTrials   int       `json:"total_trials" validate:"gte=0"`
	AnchorItems   []int     `json:"anchor_items,omitempty" validate:"omitempty,dive,gte=0"`
	Seed          *int64    `json:"seed,omitempty"`
	SessionID     string    `json:"session_id,omitempty" validate:"omitempty,uuid"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

// Placement is one token's final position in a trial, with the stimulus
// parameters copied in so the document is self-describing.
type Placement struct {
	ID     int               `json:"id" validate:"gte=0"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Params stimulus.Stimulus `json:"params"`
}

// TrialRecord holds the placements of one completed trial.
type TrialRecord struct {
	TrialIndex int         `json:"trial_index" validate:"gte=0"`
	Items      []Placement `json:"items" validate:"dive"`
}

// Document is a full session result.
type Document struct {
	Config Config        `json:"config"`
	Trials []TrialRecord `json:"trials" validate:"dive"`
}

// Validate runs the struct-tag rules, then checks every placement id is in
// range and unique within its trial.
func (d *Document) Validate() error {
	if err := documentValidate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	n := d.Config.NumItemsTotal
	for _, tr := range d.Trials {
		seen := make(map[int]struct{}, len(tr.Items))
		for _, p := range tr.Items {
			if p.ID >= n {
				return fmt.Errorf("trial %d: item %d not in [0,%d): %w", tr.TrialIndex, p.ID, n, ErrItemOutOfRange)
			}
			if _, dup := seen[p.ID]; dup {
				return fmt.Errorf("trial %d: item %d: %w", tr.TrialIndex, p.ID, ErrDuplicateItem)
			}
			seen[p.ID] = struct{}{}
		}
	}
	for _, a := range d.Config.AnchorItems {
		if a >= n {
			return fmt.Errorf("anchor %d not in [0,%d): %w", a, n, ErrItemOutOfRange)
		}
	}

	return nil
}

// Stimuli collects the stimulus parameters embedded in the placements,
// indexed by id. Ids never placed have a zero Stimulus and ok=false.
func (d *Document) Stimuli() (params []stimulus.Stimulus, ok []bool) {
	n := d.Config.NumItemsTotal
	params = make([]stimulus.Stimulus, n)
	ok = make([]bool, n)
	for _, tr := range d.Trials {
		for _, p := range tr.Items {
			if p.ID >= 0 && p.ID < n && !ok[p.ID] {
				params[p.ID] = p.Params
				ok[p.ID] = true
			}
		}
	}

	return params, ok
}
