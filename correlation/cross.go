package correlation

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/insights/dataset"
)

// CrossCompute correlates per-student element means of scores with
// per-student metric means of aux, over the students present in both. It
// returns every (element, metric) pair with |r| ≥ MinAbsR, sorted like
// Compute; no p-value filter is applied.
func CrossCompute(scores *dataset.ScoreTable, aux *dataset.AuxiliaryTable, opts ...Option) ([]Pair, error) {
	if scores == nil || aux == nil {
		return nil, ErrNilSource
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	left := scores.StudentMeans()
	right := aux.StudentMeans()
	var students []string
	for _, id := range scores.Students() {
		if _, ok := right[id]; ok {
			students = append(students, id)
		}
	}

	metrics := aux.MetricNames()
	elemCols := columns(students, left, len(scores.Elements))
	metricCols := columns(students, right, len(metrics))

	out := make([]Pair, 0)
	for i, el := range scores.Elements {
		for j, m := range metrics {
			p, ok := Correlate(el, elemCols[i], m, metricCols[j])
			if !ok || math.Abs(p.R) < o.MinAbsR {
				continue
			}
			out = append(out, p)
		}
	}
	Sort(out)
	o.Logger.Debug("correlation: cross computed",
		zap.Int("students", len(students)),
		zap.Int("elements", len(scores.Elements)),
		zap.Int("metrics", len(metrics)),
		zap.Int("kept", len(out)),
		zap.Float64("min_abs_r", o.MinAbsR))

	return out, nil
}

// columns transposes per-student mean rows into per-column series in
// student order.
func columns(students []string, means map[string][]float64, width int) [][]float64 {
	out := make([][]float64, width)
	for c := range out {
		out[c] = make([]float64, len(students))
		for s, id := range students {
			out[c][s] = means[id][c]
		}
	}

	return out
}
