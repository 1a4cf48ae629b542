package stimulus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
)

const (
	defaultSeedAttempts  = 100
	seedTableDescription = "Seed values for reproducible trajectory generation"
)

// SeedEntry pins one stimulus to the seed of its trajectory.
type SeedEntry struct {
	ID          int     `json:"id"`
	Distance    float64 `json:"dist"`
	Velocity    float64 `json:"velo"`
	AMFrequency float64 `json:"am_freq"`
	Seed        int64   `json:"seed"`
	Valid       bool    `json:"valid"`
}

// SeedTable is the on-disk seed file consumed by experiment runs.
type SeedTable struct {
	Description string      `json:"description"`
	Stimuli     []SeedEntry `json:"stimuli"`
}

// Lookup returns the entry for id.
func (t SeedTable) Lookup(id int) (SeedEntry, bool) {
	for _, e := range t.Stimuli {
		if e.ID == id {
			return e, true
		}
	}

	return SeedEntry{}, false
}

// SeedOption customizes BuildSeedTable.
type SeedOption func(*seedConfig)

type seedConfig struct {
	attempts int
	logger   *slog.Logger
}

// WithAttempts caps the candidates tried per stimulus. Panics on n < 1.
func WithAttempts(n int) SeedOption {
	if n < 1 {
		panic("stimulus: WithAttempts(n<1)")
	}
	return func(c *seedConfig) { c.attempts = n }
}

// WithLogger reports per-stimulus progress to l. Panics on nil.
func WithLogger(l *slog.Logger) SeedOption {
	if l == nil {
		panic("stimulus: WithLogger(nil)")
	}
	return func(c *seedConfig) { c.logger = l }
}

// BuildSeedTable runs FindSeed for every stimulus. A stimulus whose search
// is exhausted keeps its last candidate with Valid=false and a warning is
// logged; only structural errors abort.
func BuildSeedTable(stimuli []Stimulus, seeds *rand.Rand, opts ...SeedOption) (SeedTable, error) {
	cfg := seedConfig{attempts: defaultSeedAttempts, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	table := SeedTable{Description: seedTableDescription, Stimuli: make([]SeedEntry, 0, len(stimuli))}
	for _, s := range stimuli {
		res, err := FindSeed(s.Distance, cfg.attempts, seeds)
		valid := err == nil
		if err != nil && !errors.Is(err, ErrNoValidSeed) {
			return SeedTable{}, fmt.Errorf("BuildSeedTable: stimulus %d: %w", s.ID, err)
		}
		if valid {
			cfg.logger.Info("seed found",
				slog.Int("id", s.ID), slog.Float64("dist", s.Distance),
				slog.Int64("seed", res.Seed), slog.Int("attempt", res.Attempts))
		} else {
			cfg.logger.Warn("no valid seed, keeping last candidate",
				slog.Int("id", s.ID), slog.Float64("dist", s.Distance),
				slog.Int64("seed", res.Seed), slog.Int("attempts", cfg.attempts))
		}
		table.Stimuli = append(table.Stimuli, SeedEntry{
			ID:          s.ID,
			Distance:    s.Distance,
			Velocity:    s.Velocity,
			AMFrequency: s.AMFrequency,
			Seed:        res.Seed,
			Valid:       valid,
		})
	}

	return table, nil
}

// WriteSeedTable encodes t as indented JSON.
func WriteSeedTable(w io.Writer, t SeedTable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("WriteSeedTable: %w", err)
	}

	return nil
}

// ReadSeedTable decodes a seed file.
func ReadSeedTable(r io.Reader) (SeedTable, error) {
	var t SeedTable
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return SeedTable{}, fmt.Errorf("ReadSeedTable: %w", err)
	}

	return t, nil
}
