package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/insights/feedback"
	"github.com/katalvlaran/insights/internal/export"
)

func newFeedbackCmd(a *app) *cobra.Command {
	var (
		student string
		attempt int
	)
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Print the feedback context of one student attempt",
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
			in, ok := feedback.InputFrom(scores, aux, a.cs, student, attempt)
			if !ok {
				return fmt.Errorf("no data for student %q attempt %d", student, attempt)
			}
			ctx := feedback.BuildContext(in, a.cfg.Seed)
			a.log.Info("feedback built",
				zap.String("student", student),
				zap.Int("attempt", attempt),
				zap.Uint32("context_seed", ctx.Seed))

			return export.JSON(a.out, ctx)
		},
	}
	cmd.Flags().StringVar(&student, "student", "S01", "student id")
	cmd.Flags().IntVar(&attempt, "attempt", 1, "attempt number")

	return cmd
}
