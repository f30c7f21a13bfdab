// Package correlation reports pairwise Pearson correlations between score
// series with a two-sided p-value and a 95% Fisher-z confidence interval.
//
//	t  = r·√((n−2)/(1−r²))            p = 2·(1 − T_{n−2}(|t|))
//	z  = atanh(r), se = 1/√(n−3)       CI = tanh(z ± 1.96·se)
//
// When |r| ≥ 0.999 the transform is skipped and the interval collapses to r.
// NaN marks a missing observation; only rows where both series are present
// count toward n, and pairs with fewer than MinSamples rows are skipped.
package correlation

import (
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/insights/dataset"
)

// ErrNilSource is returned when no data source is supplied.
var ErrNilSource = errors.New("correlation: source is nil")

// Statistical constants.
const (
	MinSamples     = 4
	DegenerateAbsR = 0.999
	Z95            = 1.96
	DefaultMaxP    = 0.05
	DefaultMinAbsR = 0.3
)

// Pair is the correlation of series A and B.
type Pair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	R     float64 `json:"r"`
	P     float64 `json:"p_value"`
	Lower float64 `json:"ci_lower"`
	Upper float64 `json:"ci_upper"`
	N     int     `json:"n"`
}

// Options configures Compute and CrossCompute.
type Options struct {
	// MaxP keeps pairs with p < MaxP (Compute only).
	MaxP float64
	// MinAbsR keeps pairs with |r| ≥ MinAbsR (CrossCompute only).
	MinAbsR float64
	Logger  *zap.Logger
}

// Option is a functional option.
type Option func(*Options)

// DefaultOptions returns MaxP 0.05, MinAbsR 0.3 and a no-op logger.
func DefaultOptions() Options {
	return Options{MaxP: DefaultMaxP, MinAbsR: DefaultMinAbsR, Logger: zap.NewNop()}
}

// WithMaxPValue sets the significance cutoff.
func WithMaxPValue(p float64) Option {
	return func(o *Options) { o.MaxP = p }
}

// WithMinAbsR sets the minimum |r| kept by CrossCompute.
func WithMinAbsR(r float64) Option {
	return func(o *Options) { o.MinAbsR = r }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Compute correlates every unordered pair of names in src and returns the
// pairs with p < MaxP, sorted by r ascending then by names. Names missing
// from src are skipped.
func Compute(src dataset.Source, names []string, opts ...Option) ([]Pair, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cols := load(src, names, o.Logger)
	out := make([]Pair, 0)
	skipped := 0
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			p, ok := Correlate(cols[i].name, cols[i].values, cols[j].name, cols[j].values)
			if !ok {
				skipped++
				continue
			}
			if p.P < o.MaxP {
				out = append(out, p)
			}
		}
	}
	Sort(out)
	o.Logger.Debug("correlation: computed",
		zap.Int("series", len(cols)),
		zap.Int("skipped_pairs", skipped),
		zap.Int("significant", len(out)),
		zap.Float64("max_p", o.MaxP))

	return out, nil
}

// Correlate computes the Pair of two series; ok is false when fewer than
// MinSamples rows have both values or either series is constant.
func Correlate(a string, x []float64, b string, y []float64) (Pair, bool) {
	xs, ys := paired(x, y)
	n := len(xs)
	if n < MinSamples {
		return Pair{}, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return Pair{}, false
	}
	r = math.Max(-1, math.Min(1, r))

	lo, hi := Interval(r, n)

	return Pair{A: a, B: b, R: r, P: PValue(r, n), Lower: lo, Upper: hi, N: n}, true
}

// PValue is the two-sided p-value of r over n paired observations.
func PValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(t)))

	return math.Max(0, math.Min(1, p))
}

// Interval is the 95% Fisher-z confidence interval of r. It is degenerate
// (r, r) when |r| ≥ DegenerateAbsR or n ≤ 3.
func Interval(r float64, n int) (lower, upper float64) {
	if math.Abs(r) >= DegenerateAbsR || n <= 3 {
		return r, r
	}
	z := math.Atanh(r)
	se := 1 / math.Sqrt(float64(n-3))

	return math.Tanh(z - Z95*se), math.Tanh(z + Z95*se)
}

// Sort orders pairs by r ascending, then A, then B.
func Sort(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].R != pairs[j].R {
			return pairs[i].R < pairs[j].R
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}

// Matrix returns the full r matrix over names, NaN where a pair is skipped.
// The diagonal is 1 for series with enough data.
func Matrix(src dataset.Source, names []string) ([][]float64, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	m := make([][]float64, len(names))
	values := make([][]float64, len(names))
	present := make([]bool, len(names))
	for i, name := range names {
		values[i], present[i] = src.Column(name)
		m[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			r := math.NaN()
			if present[i] && present[j] {
				if p, ok := Correlate(names[i], values[i], names[j], values[j]); ok {
					r = p.R
				}
			}
			m[i][j], m[j][i] = r, r
		}
	}

	return m, nil
}

type series struct {
	name   string
	values []float64
}

func load(src dataset.Source, names []string, log *zap.Logger) []series {
	out := make([]series, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := src.Column(name)
		if !ok {
			log.Debug("correlation: unknown series", zap.String("name", name))
			continue
		}
		out = append(out, series{name: name, values: v})
	}

	return out
}

// paired keeps the rows where both x and y are present.
func paired(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if dataset.IsMissing(x[i]) || dataset.IsMissing(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	return xs, ys
}
