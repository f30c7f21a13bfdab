// Package centrality scores the nodes of a co-miss graph.
//
// Measures, for a graph of n nodes:
//
//	degree       deg(u) / (n−1)
//	closeness    (r−1)/Σd(u,v) · (r−1)/(n−1), r = nodes reachable from u incl. u
//	betweenness  Brandes, normalised by 1/((n−1)(n−2)) over ordered pairs
//
// On a weighted graph path lengths use the transform maxW/w, so heavily
// co-missed pairs are close. An unweighted graph uses hop counts.
// Disconnected graphs are fine: unreachable pairs are left out of every sum.
package centrality

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/insights/core"
)

// Sentinel errors.
var (
	ErrNilGraph   = errors.New("centrality: graph is nil")
	ErrNeighbors  = errors.New("centrality: neighbor lookup failed")
	ErrBadMeasure = errors.New("centrality: unknown measure")
)

// Graph is the read-only view Compute needs. *core.Graph and every type
// embedding it satisfy it.
type Graph interface {
	Vertices() []string
	Neighbors(id string) ([]*core.Edge, error)
	Weighted() bool
	MaxWeight() int64
}

// Result holds the three scores of one node.
type Result struct {
	Node        string  `json:"node"`
	Degree      float64 `json:"degree"`
	Closeness   float64 `json:"closeness"`
	Betweenness float64 `json:"betweenness"`
}

// Options configures Compute.
type Options struct {
	// Hops ignores edge weights and measures paths in hops.
	Hops   bool
	Logger *zap.Logger
}

// Option is a functional option for Compute.
type Option func(*Options)

// WithHops forces hop-count distances on a weighted graph.
func WithHops() Option {
	return func(o *Options) { o.Hops = true }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Compute returns one Result per node of g, ordered by node ID.
// An empty graph yields an empty result.
func Compute(g Graph, opts ...Option) ([]Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	o := Options{Logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	nodes := g.Vertices()
	n := len(nodes)
	if n == 0 {
		return []Result{}, nil
	}

	maxW := g.MaxWeight()
	weighted := g.Weighted() && maxW > 0 && !o.Hops
	r := &runner{g: g, n: n, weighted: weighted, length: hops}
	if weighted {
		r.length = inverse(maxW)
	}

	out := make([]Result, n)
	betweenness := make(map[string]float64, n)
	for i, u := range nodes {
		nbrs, err := g.Neighbors(u)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrNeighbors, u, err)
		}
		p, err := r.shortestPaths(u)
		if err != nil {
			return nil, err
		}
		out[i] = Result{
			Node:      u,
			Degree:    r.degree(len(nbrs)),
			Closeness: r.closeness(p),
		}
		accumulate(p, u, betweenness)
	}
	scale := 1.0
	if n > 2 {
		scale = 1 / float64((n-1)*(n-2))
	}
	for i := range out {
		out[i].Betweenness = betweenness[out[i].Node] * scale
	}
	o.Logger.Debug("centrality: computed",
		zap.Int("nodes", n),
		zap.Bool("weighted", weighted),
		zap.Int64("max_weight", maxW))

	return out, nil
}

// runner carries the per-call configuration of Compute.
type runner struct {
	g        Graph
	n        int
	weighted bool
	length   metric
}

func (r *runner) shortestPaths(src string) (*paths, error) {
	if r.weighted {
		return dijkstraPaths(r.g, src, r.n, r.length)
	}

	return bfsPaths(r.g, src, r.n)
}

func (r *runner) degree(deg int) float64 {
	if r.n <= 1 {
		return 1
	}

	return float64(deg) / float64(r.n-1)
}

func (r *runner) closeness(p *paths) float64 {
	reach := len(p.order)
	if reach <= 1 || r.n <= 1 {
		return 0
	}
	var total float64
	for _, v := range p.order {
		total += p.dist[v]
	}
	if total <= 0 {
		return 0
	}
	k := float64(reach - 1)

	return (k / total) * (k / float64(r.n-1))
}

// accumulate adds the dependencies of source s to bc (Brandes back-propagation).
func accumulate(p *paths, s string, bc map[string]float64) {
	delta := make(map[string]float64, len(p.order))
	for i := len(p.order) - 1; i >= 0; i-- {
		w := p.order[i]
		coeff := (1 + delta[w]) / p.sigma[w]
		for _, v := range p.pred[w] {
			delta[v] += p.sigma[v] * coeff
		}
		if w != s {
			bc[w] += delta[w]
		}
	}
}

// Measure names one of the three scores.
type Measure int

const (
	Degree Measure = iota
	Closeness
	Betweenness
)

// String implements fmt.Stringer.
func (m Measure) String() string {
	switch m {
	case Degree:
		return "degree"
	case Closeness:
		return "closeness"
	case Betweenness:
		return "betweenness"
	default:
		return fmt.Sprintf("Measure(%d)", int(m))
	}
}

// ParseMeasure accepts "degree", "closeness" or "betweenness".
func ParseMeasure(s string) (Measure, error) {
	for _, m := range []Measure{Degree, Closeness, Betweenness} {
		if m.String() == s {
			return m, nil
		}
	}

	return Degree, fmt.Errorf("%w: %q", ErrBadMeasure, s)
}

// Value returns the score of r under m.
func (m Measure) Value(r Result) float64 {
	switch m {
	case Closeness:
		return r.Closeness
	case Betweenness:
		return r.Betweenness
	default:
		return r.Degree
	}
}

// Rank returns a copy of results ordered by m descending, ties by node.
func Rank(results []Result, m Measure) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := m.Value(out[i]), m.Value(out[j])
		if a != b {
			return a > b
		}
		return out[i].Node < out[j].Node
	})

	return out
}

// Scale rescales each measure to 0–100 for display:
// (v − min) / (max − min + 1e−10) · 100.
func Scale(results []Result) []Result {
	out := append([]Result(nil), results...)
	if len(out) == 0 {
		return out
	}
	for _, m := range []Measure{Degree, Closeness, Betweenness} {
		lo, hi := m.Value(out[0]), m.Value(out[0])
		for _, r := range out[1:] {
			v := m.Value(r)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		span := hi - lo + 1e-10
		for i := range out {
			v := (m.Value(out[i]) - lo) / span * 100
			switch m {
			case Degree:
				out[i].Degree = v
			case Closeness:
				out[i].Closeness = v
			case Betweenness:
				out[i].Betweenness = v
			}
		}
	}

	return out
}
