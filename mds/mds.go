package mds

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/pairlab/rdm"
)

// Embedding is the result of a scaling run. Points[i] holds item i's
// coordinates; every row has Dims entries.
type Embedding struct {
	Points      [][]float64
	Dims        int
	Stress      float64   // Kruskal stress-1 against the input matrix
	Eigenvalues []float64 // classical solution's top Dims eigenvalues
	Iterations  int       // Guttman iterations; 0 for Classical
	Converged   bool
}

// Distance returns the Euclidean distance between points i and j.
func (e *Embedding) Distance(i, j int) float64 {
	return euclid(e.Points[i], e.Points[j])
}

func euclid(a, b []float64) float64 {
	var s float64
	for k := range a {
		d := a[k] - b[k]
		s += d * d
	}

	return math.Sqrt(s)
}

// checkInput validates d and dims and returns the rows of d.
func checkInput(d *rdm.Matrix, dims int) ([][]float64, error) {
	if d == nil || d.N() == 0 {
		return nil, ErrEmptyMatrix
	}
	if dims < 1 || dims > d.N() {
		return nil, fmt.Errorf("dims=%d for N=%d: %w", dims, d.N(), ErrBadDims)
	}

	return d.Rows(), nil
}

// Classical performs Torgerson scaling. Eigenpairs with non-positive
// eigenvalues yield all-zero coordinates in their dimension.
//
// Complexity: O(N³) per Jacobi sweep.
func Classical(d *rdm.Matrix, dims int) (*Embedding, error) {
	rows, err := checkInput(d, dims)
	if err != nil {
		return nil, fmt.Errorf("Classical: %w", err)
	}

	vals, vecs, err := symmetricEigen(doubleCentre(rows))
	if err != nil {
		return nil, fmt.Errorf("Classical: %w", err)
	}

	n := len(rows)
	emb := &Embedding{
		Points:      make([][]float64, n),
		Dims:        dims,
		Eigenvalues: append([]float64(nil), vals[:dims]...),
		Converged:   true,
	}
	for i := range emb.Points {
		emb.Points[i] = make([]float64, dims)
		for k := 0; k < dims; k++ {
			if vals[k] > 0 {
				emb.Points[i][k] = vecs[i][k] * math.Sqrt(vals[k])
			}
		}
	}
	emb.Stress = stress(rows, emb.Points)

	return emb, nil
}

// doubleCentre returns B = −½·J·D²·J with J the centring matrix.
func doubleCentre(d [][]float64) [][]float64 {
	n := len(d)
	sq := make([][]float64, n)
	rowMean := make([]float64, n)
	var grand float64
	for i := range d {
		sq[i] = make([]float64, n)
		for j := range d[i] {
			v := d[i][j] * d[i][j]
			sq[i][j] = v
			rowMean[i] += v
		}
		grand += rowMean[i]
		rowMean[i] /= float64(n)
	}
	grand /= float64(n * n)

	// D² is symmetric, so column means equal row means.
	b := make([][]float64, n)
	for i := range b {
		b[i] = make([]float64, n)
		for j := range b[i] {
			b[i][j] = -0.5 * (sq[i][j] - rowMean[i] - rowMean[j] + grand)
		}
	}

	return b
}

// Stress returns Kruskal's stress-1 of emb against d:
// sqrt(Σ(dᵢⱼ−δᵢⱼ)² / Σδᵢⱼ²) over i<j. A zero matrix scores 0.
func Stress(d *rdm.Matrix, emb *Embedding) (float64, error) {
	if d == nil || emb == nil {
		return 0, ErrEmptyMatrix
	}
	if len(emb.Points) != d.N() {
		return 0, fmt.Errorf("Stress: %d points for N=%d: %w", len(emb.Points), d.N(), ErrDimensionMismatch)
	}

	return stress(d.Rows(), emb.Points), nil
}

// Rating labels a stress-1 value on Kruskal's (1964) scale.
func Rating(stress float64) string {
	switch {
	case stress < 0.025:
		return "Near Perfect"
	case stress < 0.05:
		return "Excellent"
	case stress < 0.1:
		return "Good"
	case stress < 0.2:
		return "Fair"
	default:
		return "Poor"
	}
}

func stress(delta, pts [][]float64) float64 {
	var num, den float64
	for i := range delta {
		for j := i + 1; j < len(delta); j++ {
			diff := euclid(pts[i], pts[j]) - delta[i][j]
			num += diff * diff
			den += delta[i][j] * delta[i][j]
		}
	}
	if den == 0 {
		return 0
	}

	return math.Sqrt(num / den)
}

// rawStress is Σ(dᵢⱼ−δᵢⱼ)² over i<j, the SMACOF objective.
func rawStress(delta, pts [][]float64) float64 {
	var s float64
	for i := range delta {
		for j := i + 1; j < len(delta); j++ {
			diff := euclid(pts[i], pts[j]) - delta[i][j]
			s += diff * diff
		}
	}

	return s
}

// Option customizes SMACOF.
type Option func(*smacofConfig)

type smacofConfig struct {
	maxIter int
	eps     float64
	logger  *slog.Logger
}

// WithMaxIter caps Guttman iterations. Panics if n < 1.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("mds: WithMaxIter(%d): must be >= 1", n))
	}
	return func(c *smacofConfig) { c.maxIter = n }
}

// WithEpsilon sets the relative stress-improvement stop threshold.
// Panics if eps <= 0.
func WithEpsilon(eps float64) Option {
	if !(eps > 0) {
		panic(fmt.Sprintf("mds: WithEpsilon(%g): must be > 0", eps))
	}
	return func(c *smacofConfig) { c.eps = eps }
}

// WithLogger routes the run summary to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("mds: WithLogger(nil)")
	}
	return func(c *smacofConfig) { c.logger = l }
}

// SMACOF minimises raw stress by repeated Guttman transforms
// X ← (1/N)·B(X)·X, starting from the classical solution. Iteration stops
// when the relative stress drop falls below epsilon; hitting the cap is
// reported through Embedding.Converged, not an error.
//
// Complexity: O(iter·N²·dims).
func SMACOF(d *rdm.Matrix, dims int, opts ...Option) (*Embedding, error) {
	cfg := smacofConfig{maxIter: 300, eps: 1e-3, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	start, err := Classical(d, dims)
	if err != nil {
		return nil, fmt.Errorf("SMACOF: %w", err)
	}
	delta := d.Rows()
	n := len(delta)

	x := start.Points
	prev := rawStress(delta, x)
	emb := &Embedding{Dims: dims, Eigenvalues: start.Eigenvalues, Converged: prev == 0}
	for it := 1; it <= cfg.maxIter && !emb.Converged; it++ {
		x = guttman(delta, x, dims)
		cur := rawStress(delta, x)
		emb.Iterations = it
		if prev == 0 || (prev-cur) < cfg.eps*prev {
			emb.Converged = true
		}
		prev = cur
	}
	emb.Points = x
	emb.Stress = stress(delta, x)

	cfg.logger.Debug("smacof finished",
		slog.Int("n", n),
		slog.Int("dims", dims),
		slog.Int("iterations", emb.Iterations),
		slog.Bool("converged", emb.Converged),
		slog.Float64("stress", emb.Stress))

	return emb, nil
}

// guttman computes one Guttman transform of x.
func guttman(delta, x [][]float64, dims int) [][]float64 {
	n := len(delta)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, dims)
	}
	for i := 0; i < n; i++ {
		var diag float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dij := euclid(x[i], x[j])
			if dij == 0 {
				continue
			}
			bij := -delta[i][j] / dij
			diag -= bij
			for k := 0; k < dims; k++ {
				out[i][k] += bij * x[j][k]
			}
		}
		for k := 0; k < dims; k++ {
			out[i][k] = (out[i][k] + diag*x[i][k]) / float64(n)
		}
	}

	return out
}
