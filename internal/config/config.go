// Package config loads the YAML experiment file used by the pairlab CLI.
//
// Loading starts from Default() and overlays the file, so a file only
// needs the keys it changes. The merged result is checked with struct-tag
// rules plus a few cross-field checks that tags cannot express.
//
//	experiment:
//	  preset: "18"
//	  items_per_trial: 7
//	  anchor_mode: extremes
//	  seed: 42
//	analysis:
//	  weighting: squared
//	  dimensions: 2
//	  method: smacof
//	  linkage: ward
//	output_dir: results
//	log:
//	  level: info
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pairlab/stimulus"
)

// Anchor modes.
const (
	AnchorNone     = "none"
	AnchorExtremes = "extremes"
	AnchorExplicit = "explicit"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

var validate = validator.New()

// Config is the full experiment file.
type Config struct {
	Experiment Experiment `yaml:"experiment"`
	Analysis   Analysis   `yaml:"analysis"`
	OutputDir  string     `yaml:"output_dir" validate:"required"`
	Log        Log        `yaml:"log"`
}

// Experiment describes the stimulus set and the trial plan.
type Experiment struct {
	Preset        string         `yaml:"preset,omitempty" validate:"required_without=Grid"`
	Grid          *stimulus.Axes `yaml:"grid,omitempty"`
	ItemsPerTrial int            `yaml:"items_per_trial" validate:"min=2"`
	AnchorMode    string         `yaml:"anchor_mode" validate:"oneof=none extremes explicit"`
	Anchors       []int          `yaml:"anchors,omitempty" validate:"required_if=AnchorMode explicit,dive,gte=0"`
	Seed          *int64         `yaml:"seed,omitempty"`
	ColorSeed     *int64         `yaml:"color_seed,omitempty"`
}

// Analysis configures the rdm → mds → cluster pipeline.
type Analysis struct {
	Weighting  string `yaml:"weighting" validate:"oneof=squared uniform"`
	Dimensions int    `yaml:"dimensions" validate:"min=1,max=3"`
	Method     string `yaml:"method" validate:"oneof=classical smacof"`
	KMin       int    `yaml:"k_min" validate:"min=2"`
	KMax       int    `yaml:"k_max" validate:"gtfield=KMin"`
	Linkage    string `yaml:"linkage" validate:"oneof=single complete average ward"`
	Seed       int64  `yaml:"seed"`
}

// Log mirrors logging.Config in file form.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	Dir    string `yaml:"dir,omitempty"`
}

// Default returns the 18-stimulus, 7-per-trial design with extreme anchors
// and SMACOF/Ward analysis in two dimensions.
func Default() *Config {
	return &Config{
		Experiment: Experiment{
			Preset:        "18",
			ItemsPerTrial: 7,
			AnchorMode:    AnchorExtremes,
		},
		Analysis: Analysis{
			Weighting:  "squared", // distance² weights; "uniform" is the plain mean
			Dimensions: 2,
			Method:     "smacof",
			KMin:       2,
			KMax:       11, // exclusive: scores K=2..10
			Linkage:    "ward",
			Seed:       42,
		},
		OutputDir: ".",
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load reads path over Default() and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %s: %w", path, err)
	}

	return cfg, nil
}

// Validate runs the tag rules, then checks the trial size and anchors
// against the stimulus count.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Experiment.Grid == nil {
		if _, ok := stimulus.PresetByName(c.Experiment.Preset); !ok {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalid, c.Experiment.Preset)
		}
	}
	n := c.Axes().Size()
	if n < 2 {
		return fmt.Errorf("%w: stimulus grid has %d items", ErrInvalid, n)
	}
	if c.Experiment.ItemsPerTrial > n {
		return fmt.Errorf("%w: items_per_trial %d exceeds %d stimuli", ErrInvalid, c.Experiment.ItemsPerTrial, n)
	}
	for _, a := range c.Anchors(n) {
		if a >= n {
			return fmt.Errorf("%w: anchor %d not in [0,%d)", ErrInvalid, a, n)
		}
	}

	return nil
}

// Axes resolves the stimulus axes: an explicit grid wins over the preset.
func (c *Config) Axes() stimulus.Axes {
	if c.Experiment.Grid != nil {
		return *c.Experiment.Grid
	}
	axes, _ := stimulus.PresetByName(c.Experiment.Preset)

	return axes
}

// Stimuli expands Axes into the stimulus list.
func (c *Config) Stimuli() ([]stimulus.Stimulus, error) {
	var opts []stimulus.GridOption
	if c.Experiment.ColorSeed != nil {
		opts = append(opts, stimulus.WithColorSeed(*c.Experiment.ColorSeed))
	}

	return stimulus.Grid(c.Axes(), opts...)
}

// Anchors returns the anchor ids for n stimuli under the configured mode.
func (c *Config) Anchors(n int) []int {
	switch c.Experiment.AnchorMode {
	case AnchorExtremes:
		return stimulus.ExtremeAnchors(n)
	case AnchorExplicit:
		return append([]int(nil), c.Experiment.Anchors...)
	default:
		return nil
	}
}
