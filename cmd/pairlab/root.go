package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pairlab/internal/config"
	"github.com/katalvlaran/pairlab/internal/logging"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration and built the logger.
type app struct {
	cfgPath   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *logging.Logger
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:               "pairlab",
		Short:             "Plan and analyse multi-arrangement similarity experiments",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.log.Close()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "experiment YAML file (built-in defaults when empty)")
	pf.StringVar(&a.logLevel, "log-level", "", "override log.level (debug|info|warn|error)")
	pf.StringVar(&a.logFormat, "log-format", "", "override log.format (text|json)")

	root.AddCommand(
		a.stimuliCmd(),
		a.trialsCmd(),
		a.seedsCmd(),
		a.simulateCmd(),
		a.analyzeCmd(),
	)

	return root
}

// setup loads the config and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.cfgPath != "" {
		loaded, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Log.Format == "json",
		Output:  cmd.ErrOrStderr(),
		LogDir:  cfg.Log.Dir,
		Service: "pairlab",
	})
	a.log.Slog().Debug("configuration loaded",
		slog.String("path", a.cfgPath),
		slog.String("command", cmd.Name()))

	return nil
}

// logger is the *slog.Logger handed to library WithLogger options.
func (a *app) logger() *slog.Logger { return a.log.Slog() }
