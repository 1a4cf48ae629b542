package stimulus

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// AreaSize is the side of the square walk area, mm.
	AreaSize = 10.0

	// MaxStep is the largest step for which a legal direction exists from
	// every point of the area.
	MaxStep = AreaSize / 2

	// fineStepPoints and coarseStepPoints are the walk lengths used for
	// steps below and above 1 mm.
	fineStepPoints   = 100000
	coarseStepPoints = 1000

	// maxDirectionDraws bounds the rejection loop of a single step.
	maxDirectionDraws = 10000
)

// Point is a focal position inside the walk area, mm.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointsFor returns the walk length used for a given step: short steps
// need many more points to spread over the area.
func PointsFor(step float64) int {
	if step < 1.0 {
		return fineStepPoints
	}

	return coarseStepPoints
}

// RandomWalk draws a walk of n points with fixed step length. The start is
// uniform over the area; each step draws directions until the next point
// stays inside [0, AreaSize]².
func RandomWalk(step float64, n int, rng *rand.Rand) ([]Point, error) {
	if rng == nil {
		return nil, fmt.Errorf("RandomWalk: %w", ErrNilRand)
	}
	if step <= 0 {
		return nil, fmt.Errorf("RandomWalk: step %g: %w", step, ErrNonPositive)
	}
	if step > MaxStep {
		return nil, fmt.Errorf("RandomWalk: step %g > %g: %w", step, MaxStep, ErrStepTooLarge)
	}
	if n < 1 {
		return nil, fmt.Errorf("RandomWalk: %d points: %w", n, ErrNonPositive)
	}

	pts := make([]Point, 0, n)
	cur := Point{X: rng.Float64() * AreaSize, Y: rng.Float64() * AreaSize}
	pts = append(pts, cur)

	for len(pts) < n {
		moved := false
		for draw := 0; draw < maxDirectionDraws; draw++ {
			angle := rng.Float64() * 2 * math.Pi
			next := Point{X: cur.X + step*math.Cos(angle), Y: cur.Y + step*math.Sin(angle)}
			if next.X >= 0 && next.X <= AreaSize && next.Y >= 0 && next.Y <= AreaSize {
				cur = next
				moved = true
				break
			}
		}
		if !moved {
			return nil, fmt.Errorf("RandomWalk: stuck at (%.3f,%.3f): %w", cur.X, cur.Y, ErrStepTooLarge)
		}
		pts = append(pts, cur)
	}

	return pts, nil
}

// Thresholds bound how evenly a walk must cover the area.
type Thresholds struct {
	CentroidMax float64 // max distance of the centroid from the area centre
	StdMin      float64 // min population std per axis
	RangeMin    float64 // min max−min span per axis
}

// DefaultThresholds returns the acceptance bounds used for seed search.
func DefaultThresholds() Thresholds {
	return Thresholds{CentroidMax: 2.0, StdMin: 1.5, RangeMin: 6.0}
}

// CheckTrajectory returns nil when pts satisfies th, else an error wrapping
// ErrInvalidTrajectory naming the failed criterion.
func CheckTrajectory(pts []Point, th Thresholds) error {
	if len(pts) == 0 {
		return fmt.Errorf("CheckTrajectory: empty: %w", ErrInvalidTrajectory)
	}

	n := float64(len(pts))
	var sx, sy float64
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		sx += p.X
		sy += p.Y
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	mx, my := sx/n, sy/n

	centre := AreaSize / 2
	if d := math.Hypot(mx-centre, my-centre); d > th.CentroidMax {
		return fmt.Errorf("CheckTrajectory: centroid %.2f from centre: %w", d, ErrInvalidTrajectory)
	}

	var vx, vy float64
	for _, p := range pts {
		vx += (p.X - mx) * (p.X - mx)
		vy += (p.Y - my) * (p.Y - my)
	}
	stdX, stdY := math.Sqrt(vx/n), math.Sqrt(vy/n)
	if stdX < th.StdMin || stdY < th.StdMin {
		return fmt.Errorf("CheckTrajectory: std (%.2f,%.2f): %w", stdX, stdY, ErrInvalidTrajectory)
	}

	if maxX-minX < th.RangeMin || maxY-minY < th.RangeMin {
		return fmt.Errorf("CheckTrajectory: range (%.2f,%.2f): %w", maxX-minX, maxY-minY, ErrInvalidTrajectory)
	}

	return nil
}

// Replay regenerates the walk for a stored seed.
func Replay(step float64, seed int64) ([]Point, error) {
	return RandomWalk(step, PointsFor(step), rand.New(rand.NewSource(seed)))
}

// SeedResult is the outcome of FindSeed.
type SeedResult struct {
	Seed       int64
	Attempts   int
	Trajectory []Point
}

// FindSeed draws candidate seeds from seeds and returns the first whose
// walk passes DefaultThresholds. Each candidate walks on its own source so
// the result replays exactly via Replay. On exhaustion the last candidate
// is returned together with ErrNoValidSeed.
func FindSeed(step float64, attempts int, seeds *rand.Rand) (SeedResult, error) {
	if seeds == nil {
		return SeedResult{}, fmt.Errorf("FindSeed: %w", ErrNilRand)
	}
	if attempts < 1 {
		return SeedResult{}, fmt.Errorf("FindSeed: %d attempts: %w", attempts, ErrNonPositive)
	}

	var last SeedResult
	th := DefaultThresholds()
	for a := 1; a <= attempts; a++ {
		seed := seeds.Int63n(1 << 31)
		pts, err := Replay(step, seed)
		if err != nil {
			return SeedResult{}, fmt.Errorf("FindSeed: %w", err)
		}
		last = SeedResult{Seed: seed, Attempts: a, Trajectory: pts}
		if CheckTrajectory(pts, th) == nil {
			return last, nil
		}
	}

	return last, fmt.Errorf("FindSeed: step %g after %d attempts: %w", step, attempts, ErrNoValidSeed)
}

// ValidSTMFrequencies lists the STM frequencies a device with the given base
// clock can play for a walk of n points: every divisor of baseClock is a
// legal point-switching rate, and rate/n is the resulting loop frequency.
// Frequencies below minHz are dropped. Results ascend.
func ValidSTMFrequencies(n, baseClock int, minHz float64) []float64 {
	if n < 1 || baseClock < 1 {
		return nil
	}

	var out []float64
	for rate := 1; rate <= baseClock; rate++ {
		if baseClock%rate != 0 {
			continue
		}
		if f := float64(rate) / float64(n); f >= minHz {
			out = append(out, f)
		}
	}

	return out
}
