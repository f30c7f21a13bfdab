package export

import (
	"encoding/json"
	"io"
	"math"
	"sort"

	"github.com/katalvlaran/insights/centrality"
	"github.com/katalvlaran/insights/core"
	"github.com/katalvlaran/insights/missgraph"
)

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// Edge is the serialized form of a graph edge.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int64  `json:"weight"`
}

// Node is one miss-graph node with its miss count, neighbours and
// centrality. Links is the raw edge count; Degree is the centrality score.
type Node struct {
	ID          string   `json:"id"`
	Misses      int      `json:"miss_count"`
	Links       int      `json:"links"`
	Neighbors   []string `json:"neighbors"`
	Degree      float64  `json:"degree"`
	Closeness   float64  `json:"closeness"`
	Betweenness float64  `json:"betweenness"`
}

// GraphReport is a miss graph with its parameters and centrality.
type GraphReport struct {
	Granularity   string  `json:"granularity"`
	MissThreshold float64 `json:"miss_threshold"`
	MinMisses     int     `json:"min_misses"`
	EffectiveMin  int     `json:"effective_min"`
	Students      int     `json:"students"`
	RankedBy      string  `json:"ranked_by,omitempty"`
	Nodes         []Node  `json:"nodes"`
	Edges         []Edge  `json:"edges"`

	// Backbone is the maximum spanning forest of Edges.
	Backbone   []Edge     `json:"backbone"`
	Components [][]string `json:"components"`
}

// Edges converts the edges of g in graph order.
func Edges(g *core.Graph) []Edge {
	return convert(g.Edges())
}

func convert(es []*core.Edge) []Edge {
	out := make([]Edge, len(es))
	for i, e := range es {
		out[i] = Edge{Source: e.From, Target: e.To, Weight: e.Weight}
	}

	return out
}

// NewGraphReport joins mg with its centrality results. results may be nil.
func NewGraphReport(mg *missgraph.MissGraph, results []centrality.Result) GraphReport {
	byNode := make(map[string]centrality.Result, len(results))
	for _, r := range results {
		byNode[r.Node] = r
	}
	rep := GraphReport{
		Granularity:   mg.Granularity.String(),
		MissThreshold: mg.MissThreshold,
		MinMisses:     mg.MinMisses,
		EffectiveMin:  mg.EffectiveMin,
		Students:      mg.Students,
		Nodes:         make([]Node, 0, mg.VertexCount()),
		Edges:         Edges(mg.Graph),
		Backbone:      convert(missgraph.Backbone(mg.Graph)),
		Components:    missgraph.Components(mg.Graph),
	}
	for _, id := range mg.Vertices() {
		r := byNode[id]
		links, _ := mg.Degree(id)
		nbrs, _ := mg.NeighborIDs(id)
		if nbrs == nil {
			nbrs = []string{}
		}
		rep.Nodes = append(rep.Nodes, Node{
			ID:          id,
			Misses:      mg.MissCount(id),
			Links:       links,
			Neighbors:   nbrs,
			Degree:      r.Degree,
			Closeness:   r.Closeness,
			Betweenness: r.Betweenness,
		})
	}

	return rep
}

// RankNodes reorders Nodes by m descending as centrality.Rank orders
// results. Nodes absent from results go last in their current order.
func (r *GraphReport) RankNodes(results []centrality.Result, m centrality.Measure) {
	pos := make(map[string]int, len(results))
	for i, res := range centrality.Rank(results, m) {
		pos[res.Node] = i
	}
	at := func(id string) int {
		if i, ok := pos[id]; ok {
			return i
		}
		return len(pos)
	}
	sort.SliceStable(r.Nodes, func(i, j int) bool { return at(r.Nodes[i].ID) < at(r.Nodes[j].ID) })
	r.RankedBy = m.String()
}

// Matrix is a correlation matrix over Names. Cells are null where the
// pair could not be correlated.
type Matrix struct {
	Names []string     `json:"names"`
	R     [][]*float64 `json:"r"`
}

// NewMatrix wraps m, mapping NaN cells to null.
func NewMatrix(names []string, m [][]float64) Matrix {
	out := Matrix{Names: names, R: make([][]*float64, len(m))}
	for i, row := range m {
		out.R[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				out.R[i][j] = &v
			}
		}
	}

	return out
}
