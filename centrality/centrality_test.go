package centrality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/insights/centrality"
	"github.com/katalvlaran/insights/core"
	"github.com/katalvlaran/insights/missgraph"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/simu"
)

type edge struct {
	a, b string
	w    int64
}

func build(t *testing.T, weighted bool, nodes []string, edges []edge) *core.Graph {
	t.Helper()
	var g *core.Graph
	if weighted {
		g = core.NewGraph(core.WithWeighted())
	} else {
		g = core.NewGraph()
	}
	for _, n := range nodes {
		require.NoError(t, g.AddVertex(n))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e.a, e.b, e.w)
		require.NoError(t, err)
	}

	return g
}

func byNode(rs []centrality.Result) map[string]centrality.Result {
	m := make(map[string]centrality.Result, len(rs))
	for _, r := range rs {
		m[r.Node] = r
	}

	return m
}

func TestCompute_Path(t *testing.T) {
	g := build(t, false, []string{"a", "b", "c"}, []edge{{"a", "b", 0}, {"b", "c", 0}})
	rs, err := centrality.Compute(g)
	require.NoError(t, err)
	require.Len(t, rs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{rs[0].Node, rs[1].Node, rs[2].Node})

	m := byNode(rs)
	assert.InDelta(t, 0.5, m["a"].Degree, 1e-12)
	assert.InDelta(t, 1.0, m["b"].Degree, 1e-12)
	assert.InDelta(t, 2.0/3.0, m["a"].Closeness, 1e-12)
	assert.InDelta(t, 1.0, m["b"].Closeness, 1e-12)
	assert.InDelta(t, 1.0, m["b"].Betweenness, 1e-12)
	assert.InDelta(t, 0.0, m["a"].Betweenness, 1e-12)
}

func TestCompute_SquareSplitsPaths(t *testing.T) {
	g := build(t, false, nil, []edge{{"a", "b", 0}, {"b", "c", 0}, {"c", "d", 0}, {"d", "a", 0}})
	rs, err := centrality.Compute(g)
	require.NoError(t, err)
	for _, r := range rs {
		assert.InDelta(t, 2.0/3.0, r.Degree, 1e-12)
		assert.InDelta(t, 0.75, r.Closeness, 1e-12)
		assert.InDelta(t, 1.0/6.0, r.Betweenness, 1e-12)
	}
}

func TestCompute_Disconnected(t *testing.T) {
	g := build(t, false, []string{"a", "b", "c"}, []edge{{"a", "b", 0}})
	rs, err := centrality.Compute(g)
	require.NoError(t, err)
	m := byNode(rs)

	// reachable component only, scaled by (r−1)/(n−1)
	assert.InDelta(t, 0.5, m["a"].Closeness, 1e-12)
	assert.InDelta(t, 0.0, m["c"].Closeness, 1e-12)
	assert.InDelta(t, 0.0, m["c"].Degree, 1e-12)
	for _, r := range rs {
		assert.InDelta(t, 0.0, r.Betweenness, 1e-12)
	}
}

func TestCompute_WeightedTransform(t *testing.T) {
	// heavy a-b and b-c make the detour through b shorter than the light a-c
	g := build(t, true, nil, []edge{{"a", "b", 4}, {"b", "c", 4}, {"a", "c", 1}})

	rs, err := centrality.Compute(g)
	require.NoError(t, err)
	m := byNode(rs)
	assert.InDelta(t, 1.0, m["b"].Betweenness, 1e-12)
	assert.InDelta(t, 0.0, m["a"].Betweenness, 1e-12)
	// a: d(b)=1, d(c)=2
	assert.InDelta(t, 2.0/3.0, m["a"].Closeness, 1e-12)
	assert.InDelta(t, 1.0, m["b"].Closeness, 1e-12)
	assert.InDelta(t, 1.0, m["a"].Degree, 1e-12)

	hopRs, err := centrality.Compute(g, centrality.WithHops())
	require.NoError(t, err)
	for _, r := range hopRs {
		assert.InDelta(t, 0.0, r.Betweenness, 1e-12)
		assert.InDelta(t, 1.0, r.Closeness, 1e-12)
	}
}

func TestCompute_WeightedTies(t *testing.T) {
	// two equal-length weighted routes a→d: via b and via c
	g := build(t, true, nil, []edge{{"a", "b", 2}, {"b", "d", 2}, {"a", "c", 2}, {"c", "d", 2}})
	rs, err := centrality.Compute(g)
	require.NoError(t, err)
	m := byNode(rs)
	assert.InDelta(t, m["b"].Betweenness, m["c"].Betweenness, 1e-12)
	assert.InDelta(t, 1.0/6.0, m["b"].Betweenness, 1e-12)
}

func TestCompute_Edges(t *testing.T) {
	_, err := centrality.Compute(nil)
	assert.ErrorIs(t, err, centrality.ErrNilGraph)

	rs, err := centrality.Compute(core.NewGraph())
	require.NoError(t, err)
	assert.Empty(t, rs)

	single := build(t, false, []string{"x"}, nil)
	rs, err = centrality.Compute(single)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, centrality.Result{Node: "x", Degree: 1}, rs[0])
}

func TestCompute_MissGraphNodesOnly(t *testing.T) {
	cs := rubric.Proactive()
	tbl, err := simu.GenerateScores(cs, []string{"S01", "S02", "S03", "S04"}, []int{1, 2}, 42)
	require.NoError(t, err)
	mg, err := missgraph.Build(tbl, cs, missgraph.WithFocus(rubric.CriticalThinking), missgraph.WithMissThreshold(2.5))
	require.NoError(t, err)

	rs, err := centrality.Compute(mg)
	require.NoError(t, err)
	require.Len(t, rs, mg.VertexCount())
	for _, r := range rs {
		assert.True(t, mg.HasVertex(r.Node))
		assert.GreaterOrEqual(t, r.Degree, 0.0)
		assert.GreaterOrEqual(t, r.Closeness, 0.0)
		assert.GreaterOrEqual(t, r.Betweenness, 0.0)
		assert.LessOrEqual(t, r.Degree, 1.0)
		assert.LessOrEqual(t, r.Closeness, 1.0+1e-12)
		assert.LessOrEqual(t, r.Betweenness, 1.0+1e-12)
	}
}

func TestScaleAndRank(t *testing.T) {
	rs := []centrality.Result{
		{Node: "a", Degree: 0.5, Closeness: 0.2, Betweenness: 0},
		{Node: "b", Degree: 1.0, Closeness: 0.6, Betweenness: 1},
		{Node: "c", Degree: 0.5, Closeness: 0.4, Betweenness: 0},
	}
	scaled := centrality.Scale(rs)
	assert.InDelta(t, 0.0, scaled[0].Degree, 1e-6)
	assert.InDelta(t, 100.0, scaled[1].Degree, 1e-6)
	assert.InDelta(t, 50.0, scaled[2].Closeness, 1e-6)
	assert.Equal(t, 0.5, rs[0].Degree, "input untouched")

	// constant measure collapses to 0 rather than dividing by zero
	flat := centrality.Scale([]centrality.Result{{Node: "x", Degree: 1}, {Node: "y", Degree: 1}})
	assert.Equal(t, 0.0, flat[0].Degree)
	assert.Empty(t, centrality.Scale(nil))

	ranked := centrality.Rank(rs, centrality.Degree)
	assert.Equal(t, []string{"b", "a", "c"}, []string{ranked[0].Node, ranked[1].Node, ranked[2].Node})
	ranked = centrality.Rank(rs, centrality.Closeness)
	assert.Equal(t, "c", ranked[1].Node)

	m, err := centrality.ParseMeasure("betweenness")
	require.NoError(t, err)
	assert.Equal(t, centrality.Betweenness, m)
	_, err = centrality.ParseMeasure("eigen")
	assert.ErrorIs(t, err, centrality.ErrBadMeasure)
}
