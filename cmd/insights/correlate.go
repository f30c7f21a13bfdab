package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/insights/correlation"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/internal/export"
)

func newCorrelateCmd(a *app) *cobra.Command {
	var (
		scoresPath string
		cross      bool
		matrix     bool
		maxP       float64
		minAbsR    float64
	)
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Report significant element correlations",
		Long: "Correlates every pair of rubric elements and keeps the pairs with p below --max-p.\n" +
			"With --cross, correlates per-student element means against auxiliary metric means instead.\n" +
			"With --matrix, prints the unfiltered r matrix over all elements.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("max-p") {
				a.cfg.Correlation.MaxP = maxP
			}
			if cmd.Flags().Changed("min-abs-r") {
				a.cfg.Correlation.MinAbsR = minAbsR
			}
			opts := []correlation.Option{
				correlation.WithMaxPValue(a.cfg.Correlation.MaxP),
				correlation.WithMinAbsR(a.cfg.Correlation.MinAbsR),
				correlation.WithLogger(a.log),
			}

			table, err := a.loadScores(scoresPath)
			if err != nil {
				return err
			}
			if matrix {
				return a.writeMatrix(table)
			}

			var pairs []correlation.Pair
			if cross {
				aux, err := a.auxiliary()
				if err != nil {
					return err
				}
				pairs, err = correlation.CrossCompute(table, aux, opts...)
				if err != nil {
					return err
				}
			} else {
				pairs, err = correlation.Compute(table, table.Elements, opts...)
				if err != nil {
					return err
				}
			}
			a.log.Info("correlations computed", zap.Bool("cross", cross), zap.Int("pairs", len(pairs)))

			if a.format == "csv" {
				return export.PairsCSV(a.out, pairs)
			}

			return export.JSON(a.out, pairs)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&scoresPath, "scores", "", "score CSV written by generate; generated from the profile when empty")
	fl.BoolVar(&cross, "cross", false, "correlate elements against auxiliary metrics")
	fl.BoolVar(&matrix, "matrix", false, "print the full element r matrix")
	fl.Float64Var(&maxP, "max-p", correlation.DefaultMaxP, "significance cutoff")
	fl.Float64Var(&minAbsR, "min-abs-r", correlation.DefaultMinAbsR, "minimum |r| kept by --cross")

	return cmd
}

func (a *app) writeMatrix(table *dataset.ScoreTable) error {
	m, err := correlation.Matrix(table, table.Elements)
	if err != nil {
		return err
	}
	out := export.NewMatrix(table.Elements, m)
	a.log.Info("correlation matrix computed", zap.Int("series", len(out.Names)))
	if a.format == "csv" {
		return export.MatrixCSV(a.out, out)
	}

	return export.JSON(a.out, out)
}
