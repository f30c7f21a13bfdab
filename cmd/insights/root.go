package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/insights/auxmetrics"
	"github.com/katalvlaran/insights/config"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/internal/logger"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/simu"
)

// app is the state shared by every subcommand after the root pre-run.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	seed       int64
	format     string

	cfg   *config.Config
	cs    *rubric.CriteriaSet
	log   *zap.Logger
	runID string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:          "insights",
		Short:        "Synthetic assessment data and co-miss analytics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "profile file (YAML or JSON)")
	pf.Int64Var(&a.seed, "seed", 0, "base seed, overrides the profile")
	pf.StringVar(&a.format, "format", "json", "output format: json or csv")

	root.AddCommand(
		newGenerateCmd(a),
		newGraphCmd(a),
		newCorrelateCmd(a),
		newFeedbackCmd(a),
		newSweepCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = a.seed
	}
	if a.format != "json" && a.format != "csv" {
		return fmt.Errorf("unknown format %q", a.format)
	}
	cs, err := cfg.CriteriaSet()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log, a.errOut)
	if err != nil {
		return err
	}

	a.cfg, a.cs = cfg, cs
	a.runID = uuid.NewString()
	a.log = log.With(zap.String("run_id", a.runID), zap.String("command", cmd.Name()))
	a.log.Debug("profile loaded",
		zap.Int64("seed", cfg.Seed),
		zap.Int("students", len(cfg.IDs())),
		zap.Int("attempts", cfg.Attempts),
		zap.String("criteria", cs.Name()))

	return nil
}

// scores generates the profile's score table.
func (a *app) scores() (*dataset.ScoreTable, error) {
	return simu.GenerateScores(a.cs, a.cfg.IDs(), a.cfg.AttemptList(), a.cfg.Seed,
		simu.WithScenarios(a.cfg.Scenarios...),
		simu.WithModes(a.cfg.Modes...),
		simu.WithLogger(a.log))
}

// auxiliary generates the profile's auxiliary table.
func (a *app) auxiliary() (*dataset.AuxiliaryTable, error) {
	return auxmetrics.Generate(a.cfg.IDs(), a.cfg.Seed, a.cfg.Attempts, auxmetrics.WithLogger(a.log))
}
