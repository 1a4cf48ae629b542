package session

import "errors"

var (
	// ErrEmptyPlan indicates a Recorder was built from an empty trial list.
	ErrEmptyPlan = errors.New("session: empty trial plan")

	// ErrStimulusMismatch indicates stimulus ids do not equal their index.
	ErrStimulusMismatch = errors.New("session: stimulus ids must match their position")

	// ErrItemOutOfRange indicates an item id outside [0, num_items_total).
	ErrItemOutOfRange = errors.New("session: item out of range")

	// ErrDuplicateItem indicates an item placed twice within one trial.
	ErrDuplicateItem = errors.New("session: duplicate item in trial")

	// ErrTrialIndex indicates a trial index outside the plan.
	ErrTrialIndex = errors.New("session: trial index out of range")

	// ErrPlacementMismatch indicates Place was not given exactly the
	// trial's members.
	ErrPlacementMismatch = errors.New("session: placements do not match trial")

	// ErrResultExists indicates Save found a result file with the same
	// timestamp already in place.
	ErrResultExists = errors.New("session: result file already exists")

	// ErrInvalidDocument wraps struct-tag validation failures.
	ErrInvalidDocument = errors.New("session: invalid document")
)
