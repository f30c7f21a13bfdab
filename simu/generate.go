package simu

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/seed"
)

// Sentinel errors.
var (
	// ErrNilCriteria is returned when no criteria set is supplied.
	ErrNilCriteria = errors.New("simu: criteria set is nil")

	// ErrBadAttempt is returned for attempt numbers below 1.
	ErrBadAttempt = errors.New("simu: attempt numbers must be >= 1")

	// ErrNoLabels is returned when scenarios or modes are empty.
	ErrNoLabels = errors.New("simu: scenario and mode labels must be non-empty")

	// ErrDuplicateStudent is returned when a student id repeats.
	ErrDuplicateStudent = errors.New("simu: duplicate student id")

	// ErrDuplicateAttempt is returned when an attempt number repeats.
	ErrDuplicateAttempt = errors.New("simu: duplicate attempt number")
)

// Score scale bounds.
const (
	MinScore = 0.0
	MaxScore = 4.0
)

// GenerateScores builds one record per (student, scenario, mode, attempt).
// Empty students or attempts yield an empty table. The result depends only
// on its arguments; see the package doc for the draw order.
func GenerateScores(cs *rubric.CriteriaSet, students []string, attempts []int, baseSeed int64, opts ...Option) (*dataset.ScoreTable, error) {
	if cs == nil {
		return nil, ErrNilCriteria
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.Scenarios) == 0 || len(o.Modes) == 0 {
		return nil, ErrNoLabels
	}
	seenAttempt := make(map[int]struct{}, len(attempts))
	for _, a := range attempts {
		if a < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrBadAttempt, a)
		}
		if _, dup := seenAttempt[a]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateAttempt, a)
		}
		seenAttempt[a] = struct{}{}
	}
	seenStudent := make(map[string]struct{}, len(students))
	for _, s := range students {
		if _, dup := seenStudent[s]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStudent, s)
		}
		seenStudent[s] = struct{}{}
	}

	table := dataset.NewScoreTable(cs.Elements())
	if len(students) == 0 || len(attempts) == 0 {
		o.Logger.Debug("simu: nothing to generate",
			zap.Int("students", len(students)), zap.Int("attempts", len(attempts)))
		return table, nil
	}

	g := &generator{
		domains: cs.Domains(),
		opts:    o,
		rng:     seed.New(baseSeed),
		table:   table,
	}
	g.run(students, attempts)

	if o.Shuffle {
		rows := table.Rows
		seed.New(baseSeed).Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	}
	o.Logger.Debug("simu: scores generated",
		zap.Int64("seed", baseSeed),
		zap.Int("rows", table.Len()),
		zap.Int("elements", len(table.Elements)))

	return table, nil
}

// generator carries the per-call state of GenerateScores.
type generator struct {
	domains []rubric.Domain
	opts    Options
	rng     *seed.Stream
	table   *dataset.ScoreTable
}

func (g *generator) run(students []string, attempts []int) {
	baselines := make([]float64, len(students))
	for i := range students {
		baselines[i] = g.rng.Uniform(1.2, 2.8)
	}
	sens := make([]float64, len(g.domains))
	for i := range g.domains {
		sens[i] = g.rng.Uniform(0.8, 1.2)
	}

	width := len(g.table.Elements)
	bias := make([]float64, len(g.domains))
	for si, student := range students {
		for di := range g.domains {
			bias[di] = g.rng.Uniform(-0.3, 0.3)
		}
		for _, scenario := range g.opts.Scenarios {
			for _, mode := range g.opts.Modes {
				scenarioMod := g.rng.Normal(0, 0.1)
				modeMod := g.rng.Normal(0, 0.1)
				for _, a := range attempts {
					improvement := float64(a-1) * g.rng.Uniform(0.1, 0.3)
					scores := make([]float64, 0, width)
					for di, d := range g.domains {
						shift := baselines[si] + improvement*sens[di] + bias[di] + scenarioMod + modeMod
						for range d.Elements {
							scores = append(scores, Round1(Clamp(shift+g.rng.Normal(0, 0.5), MinScore, MaxScore)))
						}
					}
					// width is fixed by the criteria set, Append cannot fail
					_ = g.table.Append(dataset.ScoreRecord{
						StudentID: student,
						Attempt:   a,
						Scenario:  scenario,
						Mode:      mode,
						Scores:    scores,
					})
				}
			}
		}
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds v to one decimal, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
