// Package auxmetrics generates the companion datasets keyed to the same
// (student, attempt) pairs as the rubric scores: a completion checklist,
// speech-quality scores and a secondary Socratic dialogue rubric.
//
// Draw order per call, from one seed.Stream:
//
//	per student:  speech bases U(7.0, 8.5), then dialogue bases U(1.2, 2.8)
//	per attempt:  checklist flags Bernoulli(p) in item order,
//	              then per speech metric   (a−1)·U(0.1, 0.3) + N(0, 0.5),
//	              then per dialogue metric (a−1)·U(0.1, 0.3) + N(0, 0.4)
//
// with p = min(1, 0.5 + 0.08·(a−1)). Speech scores are clamped to [0,10],
// dialogue scores to [0,5], both rounded to one decimal.
package auxmetrics

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/seed"
)

// Sentinel errors.
var (
	// ErrBadAttemptCount is returned for a negative attempt count.
	ErrBadAttemptCount = errors.New("auxmetrics: attempt count must be >= 0")

	// ErrDuplicateStudent is returned when a student id repeats.
	ErrDuplicateStudent = errors.New("auxmetrics: duplicate student id")
)

// Scale bounds per metric family.
const (
	SpeechMax   = 10.0
	DialogueMax = 5.0
)

// DefaultSchema returns the PROaCTIVE checklist, speech and dialogue columns.
func DefaultSchema() dataset.AuxSchema {
	return dataset.AuxSchema{
		Checklist: []string{
			"chief_complaint", "hpi", "pmh", "social_history",
			"ros", "family_history", "surgical_history", "allergies",
		},
		Speech: []string{"volume", "pace", "pitch", "pauses"},
		Dialogue: []dataset.DialogueMetric{
			{Area: "Question Formulation", Name: "Question Depth", Measurement: "levels", Component: "WONDER"},
			{Area: "Response Quality", Name: "Response Completeness", Measurement: "percent", Component: "REFLECT"},
			{Area: "Critical Thinking", Name: "Assumption Recognition", Measurement: "rating", Component: "REFINE"},
			{Area: "Humility Partnership", Name: "Plan Flexibility", Measurement: "percent", Component: "RESTATE"},
			{Area: "Reflective Practice", Name: "In-Encounter Adjustment", Measurement: "rating", Component: "REPEAT"},
		},
	}
}

// CompletionProbability is the checklist success rate at attempt a,
// capped at 1.
func CompletionProbability(attempt int) float64 {
	return math.Min(1, 0.5+0.08*float64(attempt-1))
}

// Options configures Generate.
type Options struct {
	Schema dataset.AuxSchema
	Logger *zap.Logger
}

// Option is a functional option for Generate.
type Option func(*Options)

// WithSchema replaces the default column layout.
func WithSchema(s dataset.AuxSchema) Option {
	return func(o *Options) { o.Schema = s }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Generate returns exactly one record per (student, attempt) for attempts
// 1..numAttempts, student-major.
func Generate(students []string, baseSeed int64, numAttempts int, opts ...Option) (*dataset.AuxiliaryTable, error) {
	if numAttempts < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadAttemptCount, numAttempts)
	}
	seen := make(map[string]struct{}, len(students))
	for _, s := range students {
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStudent, s)
		}
		seen[s] = struct{}{}
	}
	o := Options{Schema: DefaultSchema(), Logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	rng := seed.New(baseSeed)
	table := dataset.NewAuxiliaryTable(o.Schema)
	speechBase := make([]float64, len(o.Schema.Speech))
	dialogueBase := make([]float64, len(o.Schema.Dialogue))

	for _, student := range students {
		for i := range speechBase {
			speechBase[i] = rng.Uniform(7.0, 8.5)
		}
		for i := range dialogueBase {
			dialogueBase[i] = rng.Uniform(1.2, 2.8)
		}
		for a := 1; a <= numAttempts; a++ {
			rec := dataset.AuxiliaryRecord{
				StudentID: student,
				Attempt:   a,
				Checklist: make([]bool, len(o.Schema.Checklist)),
				Speech:    make([]float64, len(speechBase)),
				Dialogue:  make([]float64, len(dialogueBase)),
			}
			p := CompletionProbability(a)
			for i := range rec.Checklist {
				rec.Checklist[i] = rng.Bernoulli(p)
			}
			steps := float64(a - 1)
			for i, base := range speechBase {
				v := base + steps*rng.Uniform(0.1, 0.3) + rng.Normal(0, 0.5)
				rec.Speech[i] = round1(clamp(v, 0, SpeechMax))
			}
			for i, base := range dialogueBase {
				v := base + steps*rng.Uniform(0.1, 0.3) + rng.Normal(0, 0.4)
				rec.Dialogue[i] = round1(clamp(v, 0, DialogueMax))
			}
			if err := table.Append(rec); err != nil {
				return nil, err
			}
		}
	}
	o.Logger.Debug("auxmetrics: generated",
		zap.Int64("seed", baseSeed),
		zap.Int("students", len(students)),
		zap.Int("attempts", numAttempts),
		zap.Int("records", table.Len()))

	return table, nil
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
