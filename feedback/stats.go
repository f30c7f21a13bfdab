package feedback

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats are population descriptive statistics, each rounded to 2 decimals.
type Stats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
}

// Describe computes Stats over xs; ok is false when xs is empty.
func Describe(xs []float64) (s Stats, ok bool) {
	if len(xs) == 0 {
		return Stats{}, false
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	return Stats{
		Mean:     round2(mean),
		Median:   round2(median(sorted)),
		StdDev:   round2(math.Sqrt(variance)),
		Variance: round2(variance),
		Min:      round2(lo),
		Max:      round2(hi),
		Range:    round2(hi - lo),
	}, true
}

// median of an ascending slice; the two middle values are averaged.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
