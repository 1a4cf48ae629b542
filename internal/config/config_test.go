package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	stims, err := cfg.Stimuli()
	require.NoError(t, err)
	assert.Len(t, stims, 18)
	assert.Equal(t, []int{0, 17}, cfg.Anchors(len(stims)))
	assert.Equal(t, 2, cfg.Analysis.KMin)
	assert.Equal(t, 11, cfg.Analysis.KMax, "K=2..10 scored")
	assert.Equal(t, "squared", cfg.Analysis.Weighting)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
experiment:
  preset: "8"
  items_per_trial: 4
  anchor_mode: none
  seed: 7
analysis:
  linkage: average
output_dir: out
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8", cfg.Experiment.Preset)
	assert.Equal(t, 4, cfg.Experiment.ItemsPerTrial)
	require.NotNil(t, cfg.Experiment.Seed)
	assert.Equal(t, int64(7), *cfg.Experiment.Seed)
	assert.Nil(t, cfg.Anchors(8))
	assert.Equal(t, "average", cfg.Analysis.Linkage)
	assert.Equal(t, "squared", cfg.Analysis.Weighting, "untouched keys keep defaults")
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoad_ExplicitGridAndAnchors(t *testing.T) {
	path := writeFile(t, `
experiment:
  preset: ""
  grid:
    distances: [1, 2]
    velocities: [100]
    am_frequencies: [0, 50]
  items_per_trial: 3
  anchor_mode: explicit
  anchors: [1, 2]
  color_seed: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	stims, err := cfg.Stimuli()
	require.NoError(t, err)
	require.Len(t, stims, 4)
	assert.NotEmpty(t, stims[0].Color)
	assert.Equal(t, []int{1, 2}, cfg.Anchors(4))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown preset", func(c *Config) { c.Experiment.Preset = "9" }},
		{"no preset no grid", func(c *Config) { c.Experiment.Preset = "" }},
		{"K too small", func(c *Config) { c.Experiment.ItemsPerTrial = 1 }},
		{"K above N", func(c *Config) { c.Experiment.ItemsPerTrial = 19 }},
		{"bad anchor mode", func(c *Config) { c.Experiment.AnchorMode = "middle" }},
		{"explicit without anchors", func(c *Config) { c.Experiment.AnchorMode = AnchorExplicit }},
		{"anchor out of range", func(c *Config) {
			c.Experiment.AnchorMode = AnchorExplicit
			c.Experiment.Anchors = []int{0, 18}
		}},
		{"bad weighting", func(c *Config) { c.Analysis.Weighting = "cubic" }},
		{"dims", func(c *Config) { c.Analysis.Dimensions = 4 }},
		{"k range", func(c *Config) { c.Analysis.KMax = 2 }},
		{"linkage", func(c *Config) { c.Analysis.Linkage = "median" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"output dir", func(c *Config) { c.OutputDir = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "experiment: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "analysis:\n  dimensions: 9\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}
