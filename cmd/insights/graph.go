package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/insights/centrality"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/internal/export"
	"github.com/katalvlaran/insights/missgraph"
)

type graphFlags struct {
	scoresPath  string
	granularity string
	threshold   float64
	minMisses   int
	focus       []string
	hops        bool
	scale       bool
	risk        string
	rank        string
}

func newGraphCmd(a *app) *cobra.Command {
	var f graphFlags
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the co-miss graph and its centrality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fl := cmd.Flags()
			if fl.Changed("granularity") {
				a.cfg.Graph.Granularity = f.granularity
			}
			if fl.Changed("threshold") {
				a.cfg.Graph.MissThreshold = f.threshold
			}
			if fl.Changed("min-misses") {
				a.cfg.Graph.MinMisses = f.minMisses
			}
			if fl.Changed("focus") {
				a.cfg.Graph.Focus = f.focus
			}

			table, err := a.loadScores(f.scoresPath)
			if err != nil {
				return err
			}
			opts, err := a.cfg.MissGraphOptions()
			if err != nil {
				return err
			}
			opts = append(opts, missgraph.WithLogger(a.log))
			var measure centrality.Measure
			if f.rank != "" {
				if measure, err = centrality.ParseMeasure(f.rank); err != nil {
					return err
				}
			}

			if f.risk != "" {
				return a.writeRisk(table, f.risk, opts)
			}

			mg, err := missgraph.Build(table, a.cs, opts...)
			if err != nil {
				return err
			}
			copts := []centrality.Option{centrality.WithLogger(a.log)}
			if f.hops {
				copts = append(copts, centrality.WithHops())
			}
			results, err := centrality.Compute(mg, copts...)
			if err != nil {
				return err
			}
			if f.scale {
				results = centrality.Scale(results)
			}
			a.log.Info("graph built",
				zap.Stringer("granularity", mg.Granularity),
				zap.Int("nodes", mg.VertexCount()),
				zap.Int("edges", mg.EdgeCount()),
				zap.Int("effective_min", mg.EffectiveMin))

			rep := export.NewGraphReport(mg, results)
			if f.rank != "" {
				rep.RankNodes(results, measure)
			}
			if a.format == "csv" {
				return export.EdgesCSV(a.out, rep.Edges)
			}

			return export.JSON(a.out, rep)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.scoresPath, "scores", "", "score CSV written by generate; generated from the profile when empty")
	fl.StringVar(&f.granularity, "granularity", "element", "node granularity: element or domain")
	fl.Float64Var(&f.threshold, "threshold", missgraph.DefaultMissThreshold, "scores below this count as misses")
	fl.IntVar(&f.minMisses, "min-misses", missgraph.DefaultMinMisses, "minimum co-miss count per edge")
	fl.StringSliceVar(&f.focus, "focus", nil, "restrict to these domains or elements")
	fl.BoolVar(&f.hops, "hops", false, "ignore weights for closeness and betweenness")
	fl.BoolVar(&f.scale, "scale", false, "rescale centrality to 0-100")
	fl.StringVar(&f.risk, "risk", "", "print the elements this student is at risk on")
	fl.StringVar(&f.rank, "rank", "", "order nodes by degree, closeness or betweenness")

	return cmd
}

// riskEntry is one element a student keeps missing.
type riskEntry struct {
	Element string `json:"element"`
	Misses  int64  `json:"misses"`
}

func (a *app) writeRisk(table *dataset.ScoreTable, student string, opts []missgraph.Option) error {
	rm, err := missgraph.BuildRiskMap(table, a.cs, opts...)
	if err != nil {
		return err
	}
	edges, err := rm.AtRisk(student)
	if err != nil {
		return err
	}
	out := make([]riskEntry, len(edges))
	for i, e := range edges {
		out[i] = riskEntry{Element: e.Other(student), Misses: e.Weight}
	}
	if a.format == "csv" {
		rows := make([]export.Edge, len(edges))
		for i, e := range out {
			rows[i] = export.Edge{Source: student, Target: e.Element, Weight: e.Misses}
		}
		return export.EdgesCSV(a.out, rows)
	}

	return export.JSON(a.out, struct {
		Student string      `json:"student"`
		Risks   []riskEntry `json:"risks"`
	}{student, out})
}

// loadScores reads path when set, otherwise generates the profile's table.
func (a *app) loadScores(path string) (*dataset.ScoreTable, error) {
	if path == "" {
		return a.scores()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return export.ReadScoresCSV(f)
}
