package session

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/pairlab/covering"
)

const (
	defaultCanvasSize = 800.0
	defaultArenaR     = 350.0
	defaultNodeR      = 20.0
	layoutInset       = 40.0 // initial ring sits this far inside the arena
	layoutJitter      = 0.1  // radians
)

// Arena is the circular arrangement area on the canvas.
type Arena struct {
	CenterX, CenterY float64
	Radius           float64
	NodeRadius       float64
}

// DefaultArena is the 800×800 canvas with a 350 px arena and 20 px tokens.
func DefaultArena() Arena {
	return Arena{
		CenterX:    defaultCanvasSize / 2,
		CenterY:    defaultCanvasSize / 2,
		Radius:     defaultArenaR,
		NodeRadius: defaultNodeR,
	}
}

// Clamp pulls p back onto the circle of radius Radius-NodeRadius when a
// token would leave the arena; positions inside are returned unchanged.
func (a Arena) Clamp(p Position) Position {
	vx, vy := p.X-a.CenterX, p.Y-a.CenterY
	dist := math.Hypot(vx, vy)
	limit := a.Radius - a.NodeRadius
	if dist <= limit || dist == 0 {
		return p
	}
	scale := limit / dist

	return Position{X: a.CenterX + vx*scale, Y: a.CenterY + vy*scale}
}

// InitialLayout spreads a trial's tokens on a ring inside the arena. The
// first anchor starts at the far left and the second at the far right of
// the ring, marking the ends of the scale; every other token sits at its
// slot angle with a small random jitter (none when rng is nil).
func (a Arena) InitialLayout(trial covering.Trial, anchors []int, rng *rand.Rand) map[int]Position {
	out := make(map[int]Position, len(trial))
	if len(trial) == 0 {
		return out
	}

	r := a.Radius - layoutInset
	step := 2 * math.Pi / float64(len(trial))
	fixed := make(map[int]Position, 2)
	if len(anchors) > 0 {
		fixed[anchors[0]] = Position{X: a.CenterX - r, Y: a.CenterY}
	}
	if len(anchors) > 1 {
		fixed[anchors[1]] = Position{X: a.CenterX + r, Y: a.CenterY}
	}

	for i, id := range trial {
		if p, ok := fixed[id]; ok {
			out[id] = p
			continue
		}
		angle := float64(i) * step
		if rng != nil {
			angle += (rng.Float64()*2 - 1) * layoutJitter
		}
		out[id] = Position{X: a.CenterX + r*math.Cos(angle), Y: a.CenterY + r*math.Sin(angle)}
	}

	return out
}
