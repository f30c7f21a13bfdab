package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/internal/export"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/summary"
)

// cohortSummary is the report written next to the generated tables.
type cohortSummary struct {
	Domains    []summary.DomainMean  `json:"domain_means"`
	Attempts   []summary.AttemptMean `json:"attempt_trend"`
	Trend      *summary.Line         `json:"trend_line,omitempty"`
	Threshold  float64               `json:"completion_threshold"`
	Completion []summary.Completion  `json:"completion"`
	Checklist  []summary.AttemptRate `json:"checklist_completion"`
}

func newCohortSummary(scores *dataset.ScoreTable, aux *dataset.AuxiliaryTable, cs *rubric.CriteriaSet, threshold float64) cohortSummary {
	out := cohortSummary{
		Domains:    summary.DomainMeans(scores, cs),
		Attempts:   summary.AttemptTrend(scores),
		Threshold:  threshold,
		Completion: summary.CompletionRates(scores, cs, threshold),
		Checklist:  summary.AttemptCompletion(aux),
	}
	if line, ok := summary.TrendLine(scores); ok {
		out.Trend = &line
	}

	return out
}

func newGenerateCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic scores and auxiliary metrics as CSV, plus a cohort summary",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			scores, err := a.scores()
			if err != nil {
				return err
			}
			aux, err := a.auxiliary()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			files := []struct {
				name  string
				write func(io.Writer) error
			}{
				{"scores.csv", func(w io.Writer) error { return export.ScoresCSV(w, scores) }},
				{"auxiliary.csv", func(w io.Writer) error { return export.AuxiliaryCSV(w, aux) }},
				{"dialogue.csv", func(w io.Writer) error { return export.DialogueCSV(w, aux.Long()) }},
				{"summary.json", func(w io.Writer) error {
					return export.JSON(w, newCohortSummary(scores, aux, a.cs, a.cfg.Graph.MissThreshold))
				}},
			}
			for _, f := range files {
				path := filepath.Join(outDir, f.name)
				if err := writeFile(path, f.write); err != nil {
					return err
				}
				fmt.Fprintln(a.out, path)
			}
			a.log.Info("generated",
				zap.Int("score_rows", scores.Len()),
				zap.Int("auxiliary_rows", aux.Len()),
				zap.String("out_dir", outDir))

			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for the output files")

	return cmd
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f)
}
