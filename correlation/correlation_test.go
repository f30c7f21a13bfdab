package correlation_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/insights/auxmetrics"
	"github.com/katalvlaran/insights/correlation"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/simu"
)

func cols(series map[string][]float64, order ...string) *dataset.Columns {
	c := dataset.NewColumns()
	for _, name := range order {
		c.Set(name, series[name])
	}

	return c
}

func TestCompute_PerfectPairIsDegenerate(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}
	src := cols(map[string][]float64{"a": a, "b": b}, "a", "b")

	pairs, err := correlation.Compute(src, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.InDelta(t, 1.0, p.R, 1e-12)
	assert.Equal(t, p.R, p.Lower)
	assert.Equal(t, p.R, p.Upper)
	assert.Equal(t, 6, p.N)
	assert.Less(t, p.P, 0.05)
}

func TestCompute_KnownValues(t *testing.T) {
	src := cols(map[string][]float64{
		"x": {1, 2, 3, 4},
		"y": {1, 3, 2, 4},
	}, "x", "y")

	pairs, err := correlation.Compute(src, []string{"x", "y"}, correlation.WithMaxPValue(1))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.InDelta(t, 0.8, p.R, 1e-12)
	// t = 0.8·√(2/0.36); two-sided p on 2 dof is exactly 0.2
	assert.InDelta(t, 0.2, p.P, 1e-9)
	assert.InDelta(t, math.Tanh(math.Atanh(0.8)-1.96), p.Lower, 1e-9)
	assert.InDelta(t, math.Tanh(math.Atanh(0.8)+1.96), p.Upper, 1e-9)

	// same pair is not significant at the default cutoff
	pairs, err = correlation.Compute(src, []string{"x", "y"})
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestCompute_SkipsSparsePairs(t *testing.T) {
	nan := dataset.Missing()
	src := cols(map[string][]float64{
		"x": {1, 2, 3, nan, 5},
		"y": {2, nan, 6, 8, 10},
		"z": {5, 5, 5, 5, 5},
	}, "x", "y", "z")

	pairs, err := correlation.Compute(src, []string{"x", "y", "z", "missing"}, correlation.WithMaxPValue(1))
	require.NoError(t, err)
	// x–y has 3 complete rows, z is constant
	assert.Empty(t, pairs)

	p, ok := correlation.Correlate("x", []float64{1, 2, 3, 4, nan}, "y", []float64{2, 4, 6, 8, 1})
	require.True(t, ok)
	assert.Equal(t, 4, p.N)
	assert.InDelta(t, 1.0, p.R, 1e-12)
}

func TestCompute_SortedAndFiltered(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	src := cols(map[string][]float64{
		"a": a,
		"b": {2, 4, 6, 8, 10},
		"c": {-1, -2, -3, -4, -5},
	}, "a", "b", "c")

	pairs, err := correlation.Compute(src, []string{"a", "b", "c", "a"})
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.ElementsMatch(t, [][2]string{{"a", "c"}, {"b", "c"}},
		[][2]string{{pairs[0].A, pairs[0].B}, {pairs[1].A, pairs[1].B}})
	assert.Equal(t, [2]string{"a", "b"}, [2]string{pairs[2].A, pairs[2].B})

	// exact ties fall back to names
	tied := []correlation.Pair{{A: "b", B: "c", R: 0.5}, {A: "a", B: "d", R: 0.5}, {A: "a", B: "c", R: 0.5}, {A: "z", B: "z", R: -0.1}}
	correlation.Sort(tied)
	assert.Equal(t, "z", tied[0].A)
	assert.Equal(t, [2]string{"a", "c"}, [2]string{tied[1].A, tied[1].B})
	assert.Equal(t, [2]string{"a", "d"}, [2]string{tied[2].A, tied[2].B})
	assert.Equal(t, "b", tied[3].A)
}

func TestCompute_SimulatedSignificance(t *testing.T) {
	cs := rubric.Proactive()
	students := []string{"S01", "S02", "S03", "S04", "S05", "S06", "S07", "S08"}
	tbl, err := simu.GenerateScores(cs, students, []int{1, 2, 3, 4}, 42)
	require.NoError(t, err)

	for _, maxP := range []float64{0.01, 0.05, 0.2} {
		pairs, err := correlation.Compute(tbl, cs.Elements(), correlation.WithMaxPValue(maxP))
		require.NoError(t, err)
		for i, p := range pairs {
			assert.Less(t, p.P, maxP)
			assert.GreaterOrEqual(t, p.R, -1.0)
			assert.LessOrEqual(t, p.R, 1.0)
			assert.LessOrEqual(t, p.Lower, p.R)
			assert.GreaterOrEqual(t, p.Upper, p.R)
			if i > 0 {
				assert.LessOrEqual(t, pairs[i-1].R, p.R)
			}
		}
	}

	strict, err := correlation.Compute(tbl, cs.Elements(), correlation.WithMaxPValue(0.01))
	require.NoError(t, err)
	loose, err := correlation.Compute(tbl, cs.Elements(), correlation.WithMaxPValue(0.2))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(loose), len(strict))
}

func TestCompute_NilSource(t *testing.T) {
	_, err := correlation.Compute(nil, []string{"a"})
	assert.ErrorIs(t, err, correlation.ErrNilSource)
	_, err = correlation.Matrix(nil, nil)
	assert.ErrorIs(t, err, correlation.ErrNilSource)
	_, err = correlation.CrossCompute(nil, nil)
	assert.ErrorIs(t, err, correlation.ErrNilSource)
}

func TestHelpers(t *testing.T) {
	lo, hi := correlation.Interval(0.9995, 50)
	assert.Equal(t, 0.9995, lo)
	assert.Equal(t, 0.9995, hi)
	lo, hi = correlation.Interval(-0.5, 30)
	assert.Less(t, lo, -0.5)
	assert.Greater(t, hi, -0.5)

	assert.Equal(t, 0.0, correlation.PValue(1, 10))
	assert.InDelta(t, 1.0, correlation.PValue(0, 10), 1e-12)
}

func TestMatrix(t *testing.T) {
	src := cols(map[string][]float64{
		"a": {1, 2, 3, 4},
		"b": {4, 3, 2, 1},
	}, "a", "b")
	m, err := correlation.Matrix(src, []string{"a", "b", "zzz"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m[0][0], 1e-12)
	assert.InDelta(t, -1.0, m[0][1], 1e-12)
	assert.Equal(t, m[0][1], m[1][0])
	assert.True(t, math.IsNaN(m[2][0]))
	assert.True(t, math.IsNaN(m[2][2]))
}

func TestCrossCompute(t *testing.T) {
	scores := dataset.NewScoreTable([]string{"x", "flat"})
	aux := dataset.NewAuxiliaryTable(dataset.AuxSchema{Speech: []string{"pace"}})
	for i, id := range []string{"S1", "S2", "S3", "S4", "S5"} {
		v := float64(i + 1)
		require.NoError(t, scores.Append(dataset.ScoreRecord{StudentID: id, Attempt: 1, Scores: []float64{v, 2}}))
		require.NoError(t, scores.Append(dataset.ScoreRecord{StudentID: id, Attempt: 2, Scores: []float64{v + 1, 2}}))
		require.NoError(t, aux.Append(dataset.AuxiliaryRecord{StudentID: id, Attempt: 1, Speech: []float64{10 - v}}))
	}
	// a student only present in the auxiliary table is ignored
	require.NoError(t, aux.Append(dataset.AuxiliaryRecord{StudentID: "S9", Attempt: 1, Speech: []float64{0}}))

	pairs, err := correlation.CrossCompute(scores, aux)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "x", pairs[0].A)
	assert.Equal(t, "pace", pairs[0].B)
	assert.InDelta(t, -1.0, pairs[0].R, 1e-12)
	assert.Equal(t, 5, pairs[0].N)
}

func TestCrossCompute_Simulated(t *testing.T) {
	cs := rubric.Proactive()
	students := []string{"S01", "S02", "S03", "S04", "S05", "S06", "S07", "S08", "S09", "S10", "S11", "S12"}
	scores, err := simu.GenerateScores(cs, students, []int{1, 2, 3, 4, 5}, 42)
	require.NoError(t, err)
	aux, err := auxmetrics.Generate(students, 42, 5)
	require.NoError(t, err)

	pairs, err := correlation.CrossCompute(scores, aux, correlation.WithMinAbsR(0.3))
	require.NoError(t, err)
	elements := make(map[string]bool)
	for _, el := range cs.Elements() {
		elements[el] = true
	}
	for _, p := range pairs {
		assert.GreaterOrEqual(t, math.Abs(p.R), 0.3)
		assert.True(t, elements[p.A])
		assert.Equal(t, 12, p.N)
	}
}
