package main

import (
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pairlab/stimulus"
)

func (a *app) seedsCmd() *cobra.Command {
	var (
		format   string
		seed     int64
		attempts int
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Search random-walk seeds whose trajectories pass the coverage checks",
		Long: `For every stimulus, search seeds until the random-walk focal trajectory of
its focal step stays centred and spreads across the 10 mm area. Stimuli whose
search is exhausted keep their last candidate and are marked invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			stims, err := a.cfg.Stimuli()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.now().UnixNano()
			}
			opts := []stimulus.SeedOption{stimulus.WithLogger(a.logger())}
			if attempts > 0 {
				opts = append(opts, stimulus.WithAttempts(attempts))
			}

			table, err := stimulus.BuildSeedTable(stims, rand.New(rand.NewSource(seed)), opts...)
			if err != nil {
				return err
			}

			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				if err := stimulus.WriteSeedTable(f, table); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				a.logger().Info("seed table written", slog.String("path", outPath))
			}

			if format != formatTable {
				return emit(cmd.OutOrStdout(), format, table)
			}
			rows := make([][]string, len(table.Stimuli))
			valid := 0
			for i, e := range table.Stimuli {
				if e.Valid {
					valid++
				}
				rows[i] = []string{strconv.Itoa(e.ID), ftoa(e.Distance), ftoa(e.Velocity),
					ftoa(e.AMFrequency), strconv.FormatInt(e.Seed, 10), strconv.FormatBool(e.Valid)}
			}
			title := strconv.Itoa(valid) + "/" + strconv.Itoa(len(rows)) + " valid seeds"
			return renderTable(cmd.OutOrStdout(), title,
				[]string{"id", "dist", "velo", "am", "seed", "valid"}, rows)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	f.Int64Var(&seed, "seed", 0, "seed of the candidate source (defaults to the clock)")
	f.IntVar(&attempts, "attempts", 0, "candidates per stimulus (0 = library default)")
	f.StringVarP(&outPath, "out", "o", "", "write the seed table JSON to this file")

	return cmd
}
