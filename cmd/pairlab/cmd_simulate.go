package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pairlab/covering"
	"github.com/katalvlaran/pairlab/session"
	"github.com/katalvlaran/pairlab/stimulus"
)

// simulatedLayoutScale is the share of the usable arena radius the
// participant's mental map spans.
const simulatedLayoutScale = 0.7

func (a *app) simulateCmd() *cobra.Command {
	var (
		participants int
		noise        float64
		seed         int64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write synthetic session results from a model participant",
		Long: `Run complete sessions with a model participant who places every token at
its position in a fixed 2-D perceptual map (speed on one axis, focal step and
modulation on the other) plus Gaussian noise. Each session is saved to
output_dir as a regular result file, so the analyze command can be exercised
without the arrangement GUI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if participants < 1 {
				return fmt.Errorf("--participants must be >= 1, got %d", participants)
			}
			if !cmd.Flags().Changed("seed") {
				if s := a.cfg.Experiment.Seed; s != nil {
					seed = *s
				} else {
					seed = a.now().UnixNano()
				}
			}
			stims, err := a.cfg.Stimuli()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
				return err
			}

			truth := perceptualMap(stims)
			start := a.now().UTC().Truncate(time.Second)
			for p := 0; p < participants; p++ {
				path, err := a.simulateSession(stims, truth, seed+int64(p), noise, start.Add(time.Duration(p)*time.Second))
				if err != nil {
					return fmt.Errorf("participant %d: %w", p, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&participants, "participants", "p", 1, "number of sessions to write")
	f.Float64Var(&noise, "noise", 0.05, "placement noise, as a fraction of the arena radius")
	f.Int64Var(&seed, "seed", 0, "seed for plans and noise (defaults to experiment.seed, else the clock)")

	return cmd
}

// simulateSession plans, places and saves one session.
func (a *app) simulateSession(stims []stimulus.Stimulus, truth []session.Position, seed int64, noise float64, at time.Time) (string, error) {
	n := len(stims)
	anchors := a.cfg.Anchors(n)
	plan, err := covering.Generate(n, a.cfg.Experiment.ItemsPerTrial,
		covering.WithAnchors(anchors...),
		covering.WithSeed(seed),
		covering.WithLogger(a.logger()))
	if err != nil {
		return "", err
	}
	rec, err := session.NewRecorder(plan, stims,
		session.WithAnchors(anchors...),
		session.WithSeed(seed),
		session.WithClock(func() time.Time { return at }),
		session.WithLogger(a.logger()))
	if err != nil {
		return "", err
	}

	arena := session.DefaultArena()
	scale := (arena.Radius - arena.NodeRadius) * simulatedLayoutScale
	sigma := noise * arena.Radius
	rng := rand.New(rand.NewSource(seed))
	var dragged float64
	for i := 0; i < rec.Len(); i++ {
		trial, err := rec.Trial(i)
		if err != nil {
			return "", err
		}
		pos := arena.InitialLayout(trial, anchors, rng)
		for _, id := range trial {
			target := arena.Clamp(session.Position{
				X: arena.CenterX + scale*truth[id].X + sigma*rng.NormFloat64(),
				Y: arena.CenterY + scale*truth[id].Y + sigma*rng.NormFloat64(),
			})
			dragged += math.Hypot(target.X-pos[id].X, target.Y-pos[id].Y)
			pos[id] = target
		}
		if err := rec.Place(i, pos); err != nil {
			return "", err
		}
	}

	path, err := session.Save(a.cfg.OutputDir, rec.Document())
	if err != nil {
		return "", err
	}
	a.logger().Info("session simulated",
		slog.String("path", path),
		slog.String("session_id", rec.SessionID()),
		slog.Int("trials", rec.Len()),
		slog.Float64("mean_drag_px", dragged/float64(rec.Len()*a.cfg.Experiment.ItemsPerTrial)))

	return path, nil
}

// perceptualMap places each stimulus in [-1,1]²: X follows log speed, Y
// mixes log focal step with modulation depth.
func perceptualMap(stims []stimulus.Stimulus) []session.Position {
	logVelo := make([]float64, len(stims))
	logDist := make([]float64, len(stims))
	am := make([]float64, len(stims))
	for i, s := range stims {
		logVelo[i] = math.Log10(s.Velocity)
		logDist[i] = math.Log10(s.Distance)
		am[i] = s.AMFrequency
	}
	nv, nd, na := normalise(logVelo), normalise(logDist), normalise(am)

	out := make([]session.Position, len(stims))
	for i := range stims {
		out[i] = session.Position{X: nv[i], Y: 0.6*nd[i] + 0.4*na[i]}
	}

	return out
}

// normalise maps xs linearly onto [-1,1]; a constant slice maps to 0.
func normalise(xs []float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	out := make([]float64, len(xs))
	if hi == lo {
		return out
	}
	for i, x := range xs {
		out[i] = 2*(x-lo)/(hi-lo) - 1
	}

	return out
}
