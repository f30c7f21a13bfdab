package missgraph

import (
	"sort"

	"github.com/katalvlaran/insights/core"
)

// Backbone returns the maximum spanning forest of g: for every connected
// cluster, the co-miss edges of greatest total weight that still connect
// it without cycles.
//
// Edges are scanned heaviest first; equal weights keep creation order, so
// the result is deterministic. Isolated nodes contribute nothing.
//
// Complexity: O(E log E + α(V)·E).
func Backbone(g *core.Graph) []*core.Edge {
	if g == nil {
		return nil
	}
	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})

	ds := newDisjointSet(g.Vertices())
	out := make([]*core.Edge, 0, g.VertexCount())
	for _, e := range edges {
		if ds.union(e.From, e.To) {
			out = append(out, e)
		}
	}

	return out
}

// Components returns the connected clusters of g. Each cluster is sorted,
// and clusters are ordered by size descending, then by first member.
// Isolated nodes form singleton clusters.
func Components(g *core.Graph) [][]string {
	if g == nil {
		return nil
	}
	vertices := g.Vertices()
	ds := newDisjointSet(vertices)
	for _, e := range g.Edges() {
		ds.union(e.From, e.To)
	}

	byRoot := make(map[string][]string)
	for _, v := range vertices {
		r := ds.find(v)
		byRoot[r] = append(byRoot[r], v)
	}
	out := make([][]string, 0, len(byRoot))
	for _, members := range byRoot {
		out = append(out, members) // vertices arrive sorted
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})

	return out
}

// disjointSet is union-find with path halving and union by rank.
type disjointSet struct {
	parent map[string]string
	rank   map[string]int
}

func newDisjointSet(ids []string) *disjointSet {
	ds := &disjointSet{
		parent: make(map[string]string, len(ids)),
		rank:   make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		ds.parent[id] = id
	}

	return ds
}

func (ds *disjointSet) find(u string) string {
	for ds.parent[u] != u {
		ds.parent[u] = ds.parent[ds.parent[u]]
		u = ds.parent[u]
	}

	return u
}

// union merges the sets of u and v and reports whether they were disjoint.
func (ds *disjointSet) union(u, v string) bool {
	ru, rv := ds.find(u), ds.find(v)
	if ru == rv {
		return false
	}
	switch {
	case ds.rank[ru] < ds.rank[rv]:
		ds.parent[ru] = rv
	case ds.rank[ru] > ds.rank[rv]:
		ds.parent[rv] = ru
	default:
		ds.parent[rv] = ru
		ds.rank[ru]++
	}

	return true
}
