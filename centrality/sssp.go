package centrality

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/insights/core"
)

// paths is the single-source shortest-path DAG Brandes' accumulation needs.
type paths struct {
	order []string            // vertices in non-decreasing distance
	dist  map[string]float64  // distance from the source
	sigma map[string]float64  // number of shortest paths from the source
	pred  map[string][]string // predecessors on shortest paths
}

func newPaths(src string, n int) *paths {
	p := &paths{
		order: make([]string, 0, n),
		dist:  make(map[string]float64, n),
		sigma: make(map[string]float64, n),
		pred:  make(map[string][]string, n),
	}
	p.sigma[src] = 1

	return p
}

// metric maps an edge to its path length.
type metric func(e *core.Edge) float64

// hops is the unweighted metric.
func hops(*core.Edge) float64 { return 1 }

// inverse returns the distance transform maxW/w: heavier co-occurrence
// means a shorter distance.
func inverse(maxW int64) metric {
	return func(e *core.Edge) float64 {
		if e.Weight <= 0 {
			return math.Inf(1)
		}
		return float64(maxW) / float64(e.Weight)
	}
}

// bfsPaths walks g level by level from src; every edge has length 1.
func bfsPaths(g Graph, src string, n int) (*paths, error) {
	p := newPaths(src, n)
	p.dist[src] = 0
	queue := []string{src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		p.order = append(p.order, v)

		nbrs, err := g.Neighbors(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrNeighbors, v, err)
		}
		for _, e := range nbrs {
			w := e.Other(v)
			if _, seen := p.dist[w]; !seen {
				p.dist[w] = p.dist[v] + 1
				queue = append(queue, w)
			}
			if p.dist[w] == p.dist[v]+1 {
				p.sigma[w] += p.sigma[v]
				p.pred[w] = append(p.pred[w], v)
			}
		}
	}

	return p, nil
}

// dijkstraPaths is Dijkstra with lazy decrease-key that also counts
// equal-length paths. Ties in the heap pop in insertion order.
func dijkstraPaths(g Graph, src string, n int, length metric) (*paths, error) {
	p := newPaths(src, n)
	seen := map[string]float64{src: 0}
	done := make(map[string]bool, n)

	pq := make(nodePQ, 0, n)
	var seq uint64
	heap.Push(&pq, &nodeItem{id: src, dist: 0, seq: seq})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*nodeItem)
		v := item.id
		if done[v] {
			continue
		}
		done[v] = true
		p.dist[v] = item.dist
		p.order = append(p.order, v)

		nbrs, err := g.Neighbors(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrNeighbors, v, err)
		}
		for _, e := range nbrs {
			w := e.Other(v)
			if done[w] {
				continue
			}
			alt := item.dist + length(e)
			if math.IsInf(alt, 1) {
				continue
			}
			cur, ok := seen[w]
			switch {
			case !ok || alt < cur && !same(alt, cur):
				seen[w] = alt
				seq++
				heap.Push(&pq, &nodeItem{id: w, dist: alt, seq: seq})
				p.sigma[w] = p.sigma[v]
				p.pred[w] = []string{v}
			case same(alt, cur):
				p.sigma[w] += p.sigma[v]
				p.pred[w] = append(p.pred[w], v)
			}
		}
	}

	return p, nil
}

// same compares path lengths with a relative tolerance so that sums of
// transformed weights along different routes still tie.
func same(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// nodeItem is a heap entry: a vertex and a tentative distance.
type nodeItem struct {
	id   string
	dist float64
	seq  uint64
}

// nodePQ is a min-heap of *nodeItem by (dist, seq).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
