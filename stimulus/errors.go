package stimulus

import "errors"

var (
	// ErrEmptyAxis indicates a grid axis with no values.
	ErrEmptyAxis = errors.New("stimulus: empty parameter axis")

	// ErrNonPositive indicates a distance, velocity or step that must be > 0.
	ErrNonPositive = errors.New("stimulus: value must be positive")

	// ErrNegative indicates an AM frequency below zero.
	ErrNegative = errors.New("stimulus: value must not be negative")

	// ErrStepTooLarge indicates a walk step that cannot stay inside the square.
	ErrStepTooLarge = errors.New("stimulus: step does not fit the walk area")

	// ErrInvalidTrajectory is returned by CheckTrajectory when a walk is too
	// clustered or off-centre.
	ErrInvalidTrajectory = errors.New("stimulus: trajectory rejected")

	// ErrNoValidSeed indicates FindSeed exhausted its attempts.
	ErrNoValidSeed = errors.New("stimulus: no valid seed found")

	// ErrNilRand indicates a required *rand.Rand was nil.
	ErrNilRand = errors.New("stimulus: rng is required")
)
