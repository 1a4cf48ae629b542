package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pairlab/cluster"
	"github.com/katalvlaran/pairlab/mds"
	"github.com/katalvlaran/pairlab/rdm"
	"github.com/katalvlaran/pairlab/session"
	"github.com/katalvlaran/pairlab/stimulus"
)

const (
	rdmFileName    = "analysis_rdm.csv"
	coordsFileName = "analysis_mds_coordinates.csv"
	resultGlob     = "experiment_result_*.json"
	maxStressDims  = 5
)

// dimStress is the stress-1 of one embedding dimensionality.
type dimStress struct {
	Dims   int     `json:"dims" yaml:"dims"`
	Stress float64 `json:"stress" yaml:"stress"`
	Rating string  `json:"rating" yaml:"rating"`
}

// itemReport is one stimulus in the analysis output.
type itemReport struct {
	ID           int       `json:"id" yaml:"id"`
	Cluster      int       `json:"cluster" yaml:"cluster"`
	Hierarchical int       `json:"hierarchical" yaml:"hierarchical"`
	Coords       []float64 `json:"coords" yaml:"coords"`
	Distance     float64   `json:"dist" yaml:"dist"`
	Velocity     float64   `json:"velo" yaml:"velo"`
	AMFrequency  float64   `json:"am_freq" yaml:"am_freq"`
}

// analysisReport is the machine-readable analyze output.
type analysisReport struct {
	Documents      int             `json:"documents" yaml:"documents"`
	Trials         int             `json:"trials" yaml:"trials"`
	NumItems       int             `json:"num_items" yaml:"num_items"`
	UncoveredPairs int             `json:"uncovered_pairs" yaml:"uncovered_pairs"`
	Weighting      string          `json:"weighting" yaml:"weighting"`
	Anchors        []int           `json:"anchors,omitempty" yaml:"anchors,omitempty"`
	Method         string          `json:"method" yaml:"method"`
	Stress         float64         `json:"stress" yaml:"stress"`
	Iterations     int             `json:"iterations" yaml:"iterations"`
	StressByDim    []dimStress     `json:"stress_by_dim" yaml:"stress_by_dim"`
	BestK          int             `json:"best_k" yaml:"best_k"`
	Scores         []cluster.Score `json:"scores" yaml:"scores"`
	Linkage        string          `json:"linkage" yaml:"linkage"`
	Merges         []cluster.Merge `json:"merges" yaml:"merges"`
	Items          []itemReport    `json:"items" yaml:"items"`
}

func (a *app) analyzeCmd() *cobra.Command {
	var (
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "analyze [result files or directories...]",
		Short: "Build the RDM, embed it and cluster the stimuli",
		Long: `Load session result files (directories are searched for
experiment_result_*.json), aggregate them into one representational
dissimilarity matrix, embed it with MDS, choose K by silhouette and cluster
with k-means and hierarchical linkage. The RDM and coordinates are written as
CSV to the output directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			paths, err := expandResultPaths(args)
			if err != nil {
				return err
			}
			report, err := a.analyze(cmd, paths, outDir)
			if err != nil {
				return err
			}
			if format != formatTable {
				return emit(cmd.OutOrStdout(), format, report)
			}

			return renderReport(cmd, report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json or yaml")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for CSV output (defaults to output_dir)")

	return cmd
}

// expandResultPaths replaces directories with the result files inside.
func expandResultPaths(args []string) ([]string, error) {
	var out []string
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, resultGlob))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no result files in %v", args)
	}

	return out, nil
}

func (a *app) analyze(cmd *cobra.Command, paths []string, outDir string) (*analysisReport, error) {
	ac := a.cfg.Analysis
	log := a.logger()

	docs, err := session.LoadAll(cmd.Context(), paths)
	if err != nil {
		return nil, err
	}
	weighting, err := rdm.ParseWeighting(ac.Weighting)
	if err != nil {
		return nil, err
	}
	n := docs[0].Config.NumItemsTotal
	anchors := docs[0].Config.AnchorItems
	if len(anchors) != 2 {
		anchors = a.cfg.Anchors(n)
	}
	opts := []rdm.Option{rdm.WithWeighting(weighting), rdm.WithLogger(log)}
	if len(anchors) == 2 && anchors[0] != anchors[1] && min(anchors[0], anchors[1]) >= 0 {
		opts = append(opts, rdm.WithAnchors(anchors[0], anchors[1]))
	} else {
		anchors = nil
	}
	m, err := rdm.Aggregate(docs, opts...)
	if err != nil {
		return nil, err
	}
	cov, err := rdm.Coverage(docs)
	if err != nil {
		return nil, err
	}
	uncovered := cov.Uncovered()
	if len(uncovered) > 0 {
		log.Warn("pairs never co-presented; their dissimilarity is 0",
			slog.Int("pairs", len(uncovered)))
	}

	embed := func(dims int) (*mds.Embedding, error) {
		if ac.Method == "classical" {
			return mds.Classical(m, dims)
		}
		return mds.SMACOF(m, dims, mds.WithLogger(log))
	}
	emb, err := embed(ac.Dimensions)
	if err != nil {
		return nil, err
	}
	var byDim []dimStress
	for dims := 1; dims <= min(maxStressDims, m.N()-1); dims++ {
		e := emb
		if dims != ac.Dimensions {
			if e, err = embed(dims); err != nil {
				return nil, fmt.Errorf("stress for %d dims: %w", dims, err)
			}
		}
		byDim = append(byDim, dimStress{Dims: dims, Stress: e.Stress, Rating: mds.Rating(e.Stress)})
		log.Debug("mds stress", slog.Int("dims", dims), slog.Float64("stress", e.Stress))
	}

	sel, err := cluster.SelectK(cmd.Context(), emb.Points, ac.KMin, ac.KMax,
		cluster.WithSeed(ac.Seed), cluster.WithLogger(log))
	if err != nil {
		return nil, err
	}
	method, err := cluster.ParseMethod(ac.Linkage)
	if err != nil {
		return nil, err
	}
	merges, err := cluster.Linkage(m, method)
	if err != nil {
		return nil, err
	}
	hier, err := cluster.Cut(merges, m.N(), sel.Best.K)
	if err != nil {
		return nil, err
	}

	report := &analysisReport{
		Documents:      len(docs),
		NumItems:       m.N(),
		UncoveredPairs: len(uncovered),
		Weighting:      weighting.String(),
		Anchors:        anchors,
		Method:         ac.Method,
		Stress:         emb.Stress,
		Iterations:     emb.Iterations,
		StressByDim:    byDim,
		BestK:          sel.Best.K,
		Scores:         sel.Scores,
		Linkage:        method.String(),
		Merges:         merges,
	}
	params := stimulusParams(docs, m.N())
	for _, d := range docs {
		report.Trials += len(d.Trials)
	}
	for i := 0; i < m.N(); i++ {
		report.Items = append(report.Items, itemReport{
			ID:           i,
			Cluster:      sel.Best.Labels[i],
			Hierarchical: hier[i],
			Coords:       emb.Points[i],
			Distance:     params[i].Distance,
			Velocity:     params[i].Velocity,
			AMFrequency:  params[i].AMFrequency,
		})
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	if err := writeRDM(filepath.Join(outDir, rdmFileName), m); err != nil {
		return nil, err
	}
	if err := writeCoords(filepath.Join(outDir, coordsFileName), report); err != nil {
		return nil, err
	}
	log.Info("analysis written", slog.String("dir", outDir), slog.Int("best_k", report.BestK))

	return report, nil
}

// stimulusParams merges the embedded stimulus parameters of all documents.
func stimulusParams(docs []*session.Document, n int) []stimulus.Stimulus {
	out := make([]stimulus.Stimulus, n)
	have := make([]bool, n)
	for _, d := range docs {
		params, ok := d.Stimuli()
		for i := 0; i < n && i < len(params); i++ {
			if ok[i] && !have[i] {
				out[i], have[i] = params[i], true
			}
		}
	}

	return out
}

func writeRDM(path string, m *rdm.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteCSV(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// writeCoords writes one row per stimulus: id, clusters, MDS coordinates
// and the stimulus parameters.
func writeCoords(path string, r *analysisReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	header := []string{"ID", "Cluster", "Hierarchical"}
	dims := 0
	if len(r.Items) > 0 {
		dims = len(r.Items[0].Coords)
	}
	for d := 1; d <= dims; d++ {
		header = append(header, "MDS_Dim"+strconv.Itoa(d))
	}
	header = append(header, "Dist", "Velo", "AM_Freq")
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, it := range r.Items {
		row := []string{strconv.Itoa(it.ID), strconv.Itoa(it.Cluster), strconv.Itoa(it.Hierarchical)}
		for _, c := range it.Coords {
			row = append(row, strconv.FormatFloat(c, 'g', -1, 64))
		}
		row = append(row, ftoa(it.Distance), ftoa(it.Velocity), ftoa(it.AMFrequency))
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func renderReport(cmd *cobra.Command, r *analysisReport) error {
	out := cmd.OutOrStdout()
	summary := [][]string{
		{"documents", strconv.Itoa(r.Documents)},
		{"trials", strconv.Itoa(r.Trials)},
		{"items", strconv.Itoa(r.NumItems)},
		{"uncovered pairs", strconv.Itoa(r.UncoveredPairs)},
		{"weighting", r.Weighting},
		{"anchors", itoas(r.Anchors)},
		{"mds", r.Method + " · stress " + ftoa(r.Stress)},
		{"best K", strconv.Itoa(r.BestK)},
		{"linkage", r.Linkage},
	}
	if err := renderTable(out, "analysis", []string{"", ""}, summary); err != nil {
		return err
	}

	stress := make([][]string, len(r.StressByDim))
	for i, s := range r.StressByDim {
		stress[i] = []string{strconv.Itoa(s.Dims), ftoa(s.Stress), s.Rating}
	}
	if err := renderTable(out, "kruskal stress-1", []string{"dims", "stress", "rating"}, stress); err != nil {
		return err
	}

	scores := make([][]string, len(r.Scores))
	for i, s := range r.Scores {
		scores[i] = []string{strconv.Itoa(s.K), ftoa(s.Silhouette)}
	}
	if err := renderTable(out, "silhouette", []string{"K", "score"}, scores); err != nil {
		return err
	}

	items := make([][]string, len(r.Items))
	for i, it := range r.Items {
		coords := make([]string, len(it.Coords))
		for j, c := range it.Coords {
			coords[j] = ftoa(c)
		}
		items[i] = []string{strconv.Itoa(it.ID), strconv.Itoa(it.Cluster), strconv.Itoa(it.Hierarchical),
			fmt.Sprint(coords), ftoa(it.Distance), ftoa(it.Velocity), ftoa(it.AMFrequency)}
	}

	return renderTable(out, "items", []string{"id", "k-means", r.Linkage, "coords", "dist", "velo", "am"}, items)
}
