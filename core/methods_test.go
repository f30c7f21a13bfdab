// SPDX-License-Identifier: MIT

package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/insights/core"
)

// buildSquare constructs a weighted 4-cycle A-B-C-D-A with weights 1..4.
func buildSquare(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithWeighted())
	for i, pair := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "A"}} {
		_, err := g.AddEdge(pair[0], pair[1], int64(i+1))
		require.NoError(t, err)
	}

	return g
}

func TestAddVertex_Validation(t *testing.T) {
	g := core.NewGraph()
	assert.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)

	require.NoError(t, g.AddVertex("A"))
	require.NoError(t, g.AddVertex("A")) // idempotent
	assert.Equal(t, 1, g.VertexCount())
	assert.True(t, g.HasVertex("A"))
	assert.False(t, g.HasVertex(""))
}

func TestAddEdge_SimpleUndirected(t *testing.T) {
	g := core.NewGraph(core.WithWeighted())

	eid, err := g.AddEdge("A", "B", 3)
	require.NoError(t, err)
	assert.Equal(t, "e1", eid)

	// both orientations resolve to the same edge
	assert.True(t, g.HasEdge("A", "B"))
	assert.True(t, g.HasEdge("B", "A"))
	ab, err := g.EdgeBetween("A", "B")
	require.NoError(t, err)
	ba, err := g.EdgeBetween("B", "A")
	require.NoError(t, err)
	assert.Same(t, ab, ba)
	assert.Equal(t, int64(3), ba.Weight)
	assert.Equal(t, "A", ab.Other("B"))
	assert.Equal(t, "", ab.Other("Z"))

	// parallel edges in either orientation are rejected
	_, err = g.AddEdge("A", "B", 1)
	assert.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)
	_, err = g.AddEdge("B", "A", 1)
	assert.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)

	// loops are rejected
	_, err = g.AddEdge("A", "A", 1)
	assert.ErrorIs(t, err, core.ErrLoopNotAllowed)

	assert.Equal(t, 1, g.EdgeCount())
}

func TestAddEdge_Weights(t *testing.T) {
	unweighted := core.NewGraph()
	_, err := unweighted.AddEdge("A", "B", 2)
	assert.ErrorIs(t, err, core.ErrBadWeight)
	_, err = unweighted.AddEdge("A", "B", 0)
	assert.NoError(t, err)

	weighted := core.NewGraph(core.WithWeighted())
	_, err = weighted.AddEdge("A", "B", -1)
	assert.ErrorIs(t, err, core.ErrBadWeight)

	_, err = weighted.AddEdge("", "B", 1)
	assert.ErrorIs(t, err, core.ErrEmptyVertexID)
}

func TestQueries_Deterministic(t *testing.T) {
	g := buildSquare(t)

	assert.Equal(t, []string{"A", "B", "C", "D"}, g.Vertices())

	nbrs, err := g.NeighborIDs("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D"}, nbrs)

	edges, err := g.Neighbors("A")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "e4", edges[1].ID)

	all := g.Edges()
	require.Len(t, all, 4)
	for i, e := range all {
		assert.Equal(t, int64(i+1), e.Weight)
	}
	assert.Equal(t, int64(4), g.MaxWeight())

	deg, err := g.Degree("C")
	require.NoError(t, err)
	assert.Equal(t, 2, deg)

	_, err = g.Degree("Z")
	assert.ErrorIs(t, err, core.ErrVertexNotFound)
	_, err = g.Neighbors("Z")
	assert.ErrorIs(t, err, core.ErrVertexNotFound)
	_, err = g.EdgeBetween("A", "C")
	assert.ErrorIs(t, err, core.ErrEdgeNotFound)
}

func TestEdges_NumericOrdering(t *testing.T) {
	// "e10" must sort after "e9"
	g := core.NewGraph()
	for i := 0; i < 11; i++ {
		_, err := g.AddEdge("hub", string(rune('a'+i)), 0)
		require.NoError(t, err)
	}
	edges := g.Edges()
	assert.Equal(t, "e9", edges[8].ID)
	assert.Equal(t, "e10", edges[9].ID)
	assert.Equal(t, "e11", edges[10].ID)
}

func TestMetadata(t *testing.T) {
	g := buildSquare(t)
	require.NoError(t, g.SetMetadata("A", "miss_count", 7))
	assert.ErrorIs(t, g.SetMetadata("Z", "miss_count", 1), core.ErrVertexNotFound)

	val, ok := g.Metadata("A", "miss_count")
	require.True(t, ok)
	assert.Equal(t, 7, val)
	_, ok = g.Metadata("B", "miss_count")
	assert.False(t, ok)
	_, ok = g.Metadata("Z", "miss_count")
	assert.False(t, ok)
}
