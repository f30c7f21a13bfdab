package missgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/missgraph"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/simu"
)

// fixture: D1{a,b,c}, D2{d,e}; ever-missed at threshold 2.0
//
//	S1: a b c d   (c only in the second sitting)
//	S2: a d
//	S3: a b
func fixture(t *testing.T) (*dataset.ScoreTable, *rubric.CriteriaSet) {
	t.Helper()
	cs := rubric.MustNew("fixture", []rubric.Domain{
		{Name: "D1", Elements: []string{"a", "b", "c"}},
		{Name: "D2", Elements: []string{"d", "e"}},
	})
	tbl := dataset.NewScoreTable(cs.Elements())
	for _, r := range []dataset.ScoreRecord{
		{StudentID: "S1", Attempt: 1, Scores: []float64{1, 1, 3, 1, 3}},
		{StudentID: "S1", Attempt: 2, Scores: []float64{3, 3, 1, 3, 3}},
		{StudentID: "S2", Attempt: 1, Scores: []float64{1, 3, 3, 1, 3}},
		{StudentID: "S3", Attempt: 1, Scores: []float64{1, 1, 3, 3, 3}},
	} {
		require.NoError(t, tbl.Append(r))
	}

	return tbl, cs
}

func weight(t *testing.T, mg *missgraph.MissGraph, a, b string) int64 {
	t.Helper()
	e, err := mg.EdgeBetween(a, b)
	require.NoError(t, err)

	return e.Weight
}

func TestBuild_ElementGraph(t *testing.T) {
	tbl, cs := fixture(t)
	mg, err := missgraph.Build(tbl, cs)
	require.NoError(t, err)

	assert.Equal(t, 2, mg.EffectiveMin)
	assert.Equal(t, 3, mg.Students)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, mg.Vertices())
	require.Equal(t, 2, mg.EdgeCount())
	assert.Equal(t, int64(2), weight(t, mg, "a", "b"))
	assert.Equal(t, int64(2), weight(t, mg, "a", "d"))

	assert.Equal(t, 3, mg.MissCount("a"))
	assert.Equal(t, 1, mg.MissCount("c"))
	assert.Equal(t, 0, mg.MissCount("e"))
	d, ok := mg.Metadata("d", missgraph.MetaDomain)
	require.True(t, ok)
	assert.Equal(t, "D2", d)
}

func TestBuild_EverMissedCollapse(t *testing.T) {
	tbl, cs := fixture(t)
	mg, err := missgraph.Build(tbl, cs, missgraph.WithMinMisses(1))
	require.NoError(t, err)

	// S1 missed a and c in different sittings; the pair still co-occurs.
	assert.Equal(t, int64(1), weight(t, mg, "a", "c"))
	assert.Equal(t, 6, mg.EdgeCount())
	assert.False(t, mg.HasEdge("a", "e"))
}

func TestBuild_DomainGraph(t *testing.T) {
	tbl, cs := fixture(t)
	mg, err := missgraph.Build(tbl, cs, missgraph.WithGranularity(missgraph.Domain))
	require.NoError(t, err)

	assert.Equal(t, []string{"D1", "D2"}, mg.Vertices())
	assert.Equal(t, 6, mg.MissCount("D1"))
	assert.Equal(t, 2, mg.MissCount("D2"))
	// ad 2 + bd 1 + cd 1 = 4 ≥ 2·3·2/4 = 3
	assert.Equal(t, int64(4), weight(t, mg, "D1", "D2"))

	strict, err := missgraph.Build(tbl, cs,
		missgraph.WithGranularity(missgraph.Domain), missgraph.WithMinMisses(3))
	require.NoError(t, err)
	// 4 < 3·3·2/4 = 4.5
	assert.True(t, strict.Empty())
	assert.Equal(t, 2, strict.VertexCount())
}

func TestBuild_AdaptiveThreshold(t *testing.T) {
	tbl, cs := fixture(t)

	// four active nodes, configured minimum 5: relaxed to 1
	mg, err := missgraph.Build(tbl, cs,
		missgraph.WithFocus("a", "b", "c", "d"), missgraph.WithMinMisses(5))
	require.NoError(t, err)
	assert.Equal(t, 1, mg.EffectiveMin)
	assert.Equal(t, 5, mg.MinMisses)
	assert.Equal(t, 4, mg.VertexCount())
	assert.Equal(t, 6, mg.EdgeCount())

	// focusing a domain selects its elements
	dom, err := missgraph.Build(tbl, cs, missgraph.WithFocus("D1"), missgraph.WithMinMisses(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, dom.Vertices())
	assert.Equal(t, 3, dom.EdgeCount())

	// five active nodes keep the configured minimum
	all, err := missgraph.Build(tbl, cs, missgraph.WithMinMisses(5))
	require.NoError(t, err)
	assert.Equal(t, 5, all.EffectiveMin)
	assert.True(t, all.Empty())
}

func TestBuild_SoftEmpty(t *testing.T) {
	tbl, cs := fixture(t)

	for _, th := range []float64{-0.1, 4.1} {
		mg, err := missgraph.Build(tbl, cs, missgraph.WithMissThreshold(th))
		require.NoError(t, err)
		assert.Equal(t, 0, mg.VertexCount())
		assert.True(t, mg.Empty())
	}

	mg, err := missgraph.Build(dataset.NewScoreTable(cs.Elements()), cs)
	require.NoError(t, err)
	assert.Equal(t, 0, mg.VertexCount())

	mg, err = missgraph.Build(tbl, cs, missgraph.WithFocus())
	require.NoError(t, err)
	assert.Equal(t, 0, mg.VertexCount())

	// threshold 0 misses nothing: nodes without edges
	mg, err = missgraph.Build(tbl, cs, missgraph.WithMissThreshold(0))
	require.NoError(t, err)
	assert.Equal(t, 5, mg.VertexCount())
	assert.True(t, mg.Empty())
}

func TestBuild_Errors(t *testing.T) {
	tbl, cs := fixture(t)

	_, err := missgraph.Build(nil, cs)
	assert.ErrorIs(t, err, missgraph.ErrNilTable)
	_, err = missgraph.Build(tbl, nil)
	assert.ErrorIs(t, err, missgraph.ErrNilCriteria)
	_, err = missgraph.Build(tbl, cs, missgraph.WithMinMisses(0))
	assert.ErrorIs(t, err, missgraph.ErrBadMinMisses)
	_, err = missgraph.Build(tbl, cs, missgraph.WithFocus("zzz"))
	assert.ErrorIs(t, err, missgraph.ErrUnknownElement)
	_, err = missgraph.Build(tbl, cs, missgraph.WithGranularity(missgraph.Granularity(9)))
	assert.ErrorIs(t, err, missgraph.ErrBadGranularity)
}

func TestBuild_SimulatedSymmetry(t *testing.T) {
	cs := rubric.Proactive()
	tbl, err := simu.GenerateScores(cs, []string{"S01", "S02", "S03", "S04", "S05", "S06"}, []int{1, 2, 3}, 42)
	require.NoError(t, err)

	for _, g := range []missgraph.Granularity{missgraph.Element, missgraph.Domain} {
		mg, err := missgraph.Build(tbl, cs, missgraph.WithGranularity(g), missgraph.WithMissThreshold(2.5))
		require.NoError(t, err)
		for _, e := range mg.Edges() {
			assert.NotEqual(t, e.From, e.To, "self-loop")
			back, err := mg.EdgeBetween(e.To, e.From)
			require.NoError(t, err)
			assert.Equal(t, e.ID, back.ID)
			assert.Equal(t, e.Weight, back.Weight)
			assert.GreaterOrEqual(t, e.Weight, int64(mg.EffectiveMin))
		}
	}

	again, err := missgraph.Build(tbl, cs, missgraph.WithMissThreshold(2.5))
	require.NoError(t, err)
	first, err := missgraph.Build(tbl, cs, missgraph.WithMissThreshold(2.5))
	require.NoError(t, err)
	assert.Equal(t, first.Edges(), again.Edges())
}

func TestParseGranularity(t *testing.T) {
	g, err := missgraph.ParseGranularity("Domain")
	require.NoError(t, err)
	assert.Equal(t, missgraph.Domain, g)
	assert.Equal(t, "domain", g.String())

	g, err = missgraph.ParseGranularity(" element ")
	require.NoError(t, err)
	assert.Equal(t, missgraph.Element, g)

	_, err = missgraph.ParseGranularity("student")
	assert.ErrorIs(t, err, missgraph.ErrBadGranularity)
	assert.Equal(t, "Granularity(7)", missgraph.Granularity(7).String())
}

func TestBuildRiskMap(t *testing.T) {
	tbl, cs := fixture(t)
	rm, err := missgraph.BuildRiskMap(tbl, cs, missgraph.WithMinMisses(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"S1", "S2", "S3"}, rm.Students)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, rm.Elements)
	assert.Equal(t, 8, rm.EdgeCount())

	kind, _ := rm.Metadata("S2", missgraph.MetaKind)
	assert.Equal(t, missgraph.KindStudent, kind)
	total, _ := rm.Metadata("a", missgraph.MetaMissCount)
	assert.Equal(t, 3, total)

	edges, err := rm.AtRisk("S1")
	require.NoError(t, err)
	var names []string
	for _, e := range edges {
		names = append(names, e.Other("S1"))
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)

	strict, err := missgraph.BuildRiskMap(tbl, cs)
	require.NoError(t, err)
	assert.Equal(t, 0, strict.EdgeCount())
	assert.Equal(t, 8, strict.VertexCount())
}

func TestBuildRiskMap_Collision(t *testing.T) {
	tbl, cs := fixture(t)
	require.NoError(t, tbl.Append(dataset.ScoreRecord{StudentID: "a", Attempt: 1, Scores: []float64{1, 1, 1, 1, 1}}))
	_, err := missgraph.BuildRiskMap(tbl, cs)
	assert.ErrorIs(t, err, missgraph.ErrIDCollision)
}
