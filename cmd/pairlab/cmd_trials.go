package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pairlab/covering"
)

// trialPlan is the serialisable form of a generated plan.
type trialPlan struct {
	NumItems      int     `json:"num_items" yaml:"num_items"`
	ItemsPerTrial int     `json:"items_per_trial" yaml:"items_per_trial"`
	Anchors       []int   `json:"anchors,omitempty" yaml:"anchors,omitempty"`
	Seed          int64   `json:"seed" yaml:"seed"`
	Trials        [][]int `json:"trials" yaml:"trials"`
}

// buildPlan generates the configured plan. A nil seed draws one from the
// clock so the plan is still reproducible from its output.
func (a *app) buildPlan(seed *int64) (trialPlan, error) {
	stims, err := a.cfg.Stimuli()
	if err != nil {
		return trialPlan{}, err
	}
	n := len(stims)
	s := a.now().UnixNano()
	if seed != nil {
		s = *seed
	}
	anchors := a.cfg.Anchors(n)
	k := a.cfg.Experiment.ItemsPerTrial

	plan, err := covering.Generate(n, k,
		covering.WithAnchors(anchors...),
		covering.WithSeed(s),
		covering.WithLogger(a.logger()))
	if err != nil {
		return trialPlan{}, err
	}

	out := trialPlan{NumItems: n, ItemsPerTrial: k, Anchors: anchors, Seed: s, Trials: make([][]int, len(plan))}
	for i, t := range plan {
		out.Trials[i] = []int(t)
	}

	return out, nil
}

func (a *app) trialsCmd() *cobra.Command {
	var (
		format  string
		seed    int64
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "trials",
		Short: "Generate a pair-covering trial plan",
		Long: `Generate a trial plan in which every pair of stimuli appears together in
at least one trial. Anchors, when configured, appear in every trial.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			var seedp *int64
			if cmd.Flags().Changed("seed") {
				seedp = &seed
			} else {
				seedp = a.cfg.Experiment.Seed
			}
			plan, err := a.buildPlan(seedp)
			if err != nil {
				return err
			}

			if outPath != "" {
				data, err := json.MarshalIndent(plan, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return err
				}
				a.logger().Info("plan written", slog.String("path", outPath), slog.Int("trials", len(plan.Trials)))
			}

			if format != formatTable {
				return emit(cmd.OutOrStdout(), format, plan)
			}
			rows := make([][]string, len(plan.Trials))
			for i, t := range plan.Trials {
				rows[i] = []string{strconv.Itoa(i), itoas(t)}
			}
			title := fmt.Sprintf("%d trials · N=%d K=%d · %d pairs · seed %d",
				len(plan.Trials), plan.NumItems, plan.ItemsPerTrial, covering.PairCount(plan.NumItems), plan.Seed)
			return renderTable(cmd.OutOrStdout(), title, []string{"trial", "items"}, rows)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	f.Int64Var(&seed, "seed", 0, "random seed (defaults to experiment.seed, else the clock)")
	f.StringVarP(&outPath, "out", "o", "", "also write the plan as JSON to this file")

	return cmd
}
