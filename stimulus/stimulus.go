package stimulus

import (
	"fmt"
	"math/rand"
)

// Stimulus is one tactile stimulus. Values are fixed at construction;
// the JSON keys match the "params" object of session result files.
type Stimulus struct {
	ID           int     `json:"id" yaml:"id"`
	Distance     float64 `json:"dist" yaml:"dist"`         // focal step, mm
	Velocity     float64 `json:"velo" yaml:"velo"`         // focal speed, mm/s
	AMFrequency  float64 `json:"am_freq" yaml:"am_freq"`   // Hz, 0 = unmodulated
	STMFrequency float64 `json:"stm_freq" yaml:"stm_freq"` // Hz, derived
	Color        string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// STMFrequency is the rate at which the focal point visits successive walk
// points: velocity / (1000 · distance).
func STMFrequency(distance, velocity float64) float64 {
	return velocity / (1000 * distance)
}

// New validates the parameters and derives the STM frequency.
func New(id int, distance, velocity, amFrequency float64) (Stimulus, error) {
	if distance <= 0 {
		return Stimulus{}, fmt.Errorf("New: distance %g: %w", distance, ErrNonPositive)
	}
	if velocity <= 0 {
		return Stimulus{}, fmt.Errorf("New: velocity %g: %w", velocity, ErrNonPositive)
	}
	if amFrequency < 0 {
		return Stimulus{}, fmt.Errorf("New: am frequency %g: %w", amFrequency, ErrNegative)
	}

	return Stimulus{
		ID:           id,
		Distance:     distance,
		Velocity:     velocity,
		AMFrequency:  amFrequency,
		STMFrequency: STMFrequency(distance, velocity),
	}, nil
}

// Axes lists the levels of each factor of a full factorial stimulus set.
type Axes struct {
	Distances     []float64 `yaml:"distances" json:"distances"`
	Velocities    []float64 `yaml:"velocities" json:"velocities"`
	AMFrequencies []float64 `yaml:"am_frequencies" json:"am_frequencies"`
}

// Size returns the number of stimuli the axes expand to.
func (a Axes) Size() int {
	return len(a.Distances) * len(a.Velocities) * len(a.AMFrequencies)
}

// Preset8 is the reduced 2×2×2 set.
func Preset8() Axes {
	return Axes{
		Distances:     []float64{0.05, 4.0},
		Velocities:    []float64{10, 1000},
		AMFrequencies: []float64{0, 100},
	}
}

// Preset18 is the main 2×3×3 set.
func Preset18() Axes {
	return Axes{
		Distances:     []float64{0.05, 4.0},
		Velocities:    []float64{10, 100, 1000},
		AMFrequencies: []float64{0, 20, 100},
	}
}

// Preset27 adds the intermediate 0.5 mm step.
func Preset27() Axes {
	return Axes{
		Distances:     []float64{0.05, 0.5, 4.0},
		Velocities:    []float64{10, 100, 1000},
		AMFrequencies: []float64{0, 20, 100},
	}
}

// PresetByName resolves "8", "18" or "27".
func PresetByName(name string) (Axes, bool) {
	switch name {
	case "8":
		return Preset8(), true
	case "18":
		return Preset18(), true
	case "27":
		return Preset27(), true
	default:
		return Axes{}, false
	}
}

// GridOption customizes Grid.
type GridOption func(*gridConfig)

type gridConfig struct {
	colors *rand.Rand
}

// WithColorSeed assigns each stimulus a random "#rrggbb" display colour
// drawn from a source seeded with seed.
func WithColorSeed(seed int64) GridOption {
	return func(c *gridConfig) {
		c.colors = rand.New(rand.NewSource(seed))
	}
}

// Grid expands the axes in distance → velocity → AM order, assigning ids
// from 0. With the usual ascending axes, id 0 is the weakest stimulus and
// id Size()-1 the strongest.
func Grid(axes Axes, opts ...GridOption) ([]Stimulus, error) {
	var cfg gridConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(axes.Distances) == 0 || len(axes.Velocities) == 0 || len(axes.AMFrequencies) == 0 {
		return nil, fmt.Errorf("Grid: %w", ErrEmptyAxis)
	}

	out := make([]Stimulus, 0, axes.Size())
	for _, d := range axes.Distances {
		for _, v := range axes.Velocities {
			for _, am := range axes.AMFrequencies {
				s, err := New(len(out), d, v, am)
				if err != nil {
					return nil, fmt.Errorf("Grid: %w", err)
				}
				if cfg.colors != nil {
					s.Color = fmt.Sprintf("#%06x", cfg.colors.Intn(0x1000000))
				}
				out = append(out, s)
			}
		}
	}

	return out, nil
}

// ExtremeAnchors returns {0, n-1}: the weakest and strongest stimulus of a
// Grid, used as the fixed reference pair. It returns nil for n < 2.
func ExtremeAnchors(n int) []int {
	if n < 2 {
		return nil
	}

	return []int{0, n - 1}
}
