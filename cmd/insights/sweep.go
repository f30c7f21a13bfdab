package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/insights/auxmetrics"
	"github.com/katalvlaran/insights/internal/export"
	"github.com/katalvlaran/insights/summary"
)

// sweepRow is the mean checklist completion of one attempt across seeds.
type sweepRow struct {
	Attempt     int     `json:"attempt"`
	Probability float64 `json:"probability"`
	Mean        float64 `json:"mean_completion"`
	Min         float64 `json:"min_completion"`
	Max         float64 `json:"max_completion"`
	Seeds       int     `json:"seeds"`
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		seeds    int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Average checklist completion per attempt over many seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seeds < 1 {
				return fmt.Errorf("--seeds must be positive, got %d", seeds)
			}
			list := make([]int64, seeds)
			for i := range list {
				list[i] = a.cfg.Seed + int64(i)
			}
			rows, err := sweep(cmd.Context(), a.cfg.IDs(), a.cfg.Attempts, list, parallel, a.log)
			if err != nil {
				return err
			}

			return export.JSON(a.out, rows)
		},
	}
	cmd.Flags().IntVar(&seeds, "seeds", 20, "number of consecutive base seeds")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "maximum concurrent seeds; 0 runs all at once")

	return cmd
}

// sweep generates auxiliary metrics for every seed concurrently and folds
// the per-attempt completion means. Results do not depend on scheduling.
func sweep(ctx context.Context, students []string, attempts int, seeds []int64, parallel int, log *zap.Logger) ([]sweepRow, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	perSeed := make([][]summary.AttemptRate, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, s := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			aux, err := auxmetrics.Generate(students, s, attempts)
			if err != nil {
				return fmt.Errorf("seed %d: %w", s, err)
			}
			perSeed[i] = summary.AttemptCompletion(aux)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]sweepRow, attempts)
	for a := range rows {
		rows[a] = sweepRow{Attempt: a + 1, Probability: auxmetrics.CompletionProbability(a + 1), Min: 1}
	}
	for _, rates := range perSeed {
		for _, m := range rates {
			r := &rows[m.Attempt-1]
			r.Mean += m.Rate
			r.Min = min(r.Min, m.Rate)
			r.Max = max(r.Max, m.Rate)
			r.Seeds++
		}
	}
	for a := range rows {
		if rows[a].Seeds > 0 {
			rows[a].Mean /= float64(rows[a].Seeds)
		} else {
			rows[a].Min = 0
		}
	}
	log.Info("sweep finished",
		zap.Int("seeds", len(seeds)),
		zap.Int("students", len(students)),
		zap.Int("attempts", attempts))

	return rows, nil
}
