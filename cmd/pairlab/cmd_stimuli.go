package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pairlab/stimulus"
)

const (
	deviceBaseClock = 40000 // Hz, point-switching clock of the array
	minSTMHz        = 0.5
)

// stmOptions lists the playable STM frequencies for one focal step.
type stmOptions struct {
	Distance    float64   `json:"dist" yaml:"dist"`
	Points      int       `json:"points" yaml:"points"`
	Frequencies []float64 `json:"frequencies" yaml:"frequencies"`
}

func (a *app) stimuliCmd() *cobra.Command {
	var (
		format   string
		validSTM bool
	)
	cmd := &cobra.Command{
		Use:   "stimuli",
		Short: "List the configured stimulus grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			stims, err := a.cfg.Stimuli()
			if err != nil {
				return err
			}
			if validSTM {
				return writeSTMOptions(cmd, format, stims)
			}
			if format != formatTable {
				return emit(cmd.OutOrStdout(), format, stims)
			}

			rows := make([][]string, len(stims))
			for i, s := range stims {
				rows[i] = []string{
					strconv.Itoa(s.ID), ftoa(s.Distance), ftoa(s.Velocity),
					ftoa(s.AMFrequency), ftoa(s.STMFrequency),
					strconv.Itoa(stimulus.PointsFor(s.Distance)), s.Color,
				}
			}
			title := strconv.Itoa(len(stims)) + " stimuli"
			return renderTable(cmd.OutOrStdout(), title,
				[]string{"id", "dist mm", "velo mm/s", "am Hz", "stm Hz", "points", "color"}, rows)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	cmd.Flags().BoolVar(&validSTM, "valid-stm", false, "list device-playable STM frequencies per focal step instead")

	return cmd
}

func writeSTMOptions(cmd *cobra.Command, format string, stims []stimulus.Stimulus) error {
	seen := make(map[float64]bool)
	var out []stmOptions
	for _, s := range stims {
		if seen[s.Distance] {
			continue
		}
		seen[s.Distance] = true
		n := stimulus.PointsFor(s.Distance)
		out = append(out, stmOptions{
			Distance:    s.Distance,
			Points:      n,
			Frequencies: stimulus.ValidSTMFrequencies(n, deviceBaseClock, minSTMHz),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })

	if format != formatTable {
		return emit(cmd.OutOrStdout(), format, out)
	}
	rows := make([][]string, len(out))
	for i, o := range out {
		freqs := make([]string, len(o.Frequencies))
		for j, f := range o.Frequencies {
			freqs[j] = ftoa(f)
		}
		rows[i] = []string{ftoa(o.Distance), strconv.Itoa(o.Points), strings.Join(freqs, " ")}
	}

	return renderTable(cmd.OutOrStdout(), "playable STM frequencies",
		[]string{"dist mm", "points", "Hz"}, rows)
}
