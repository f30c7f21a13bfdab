// SPDX-License-Identifier: MIT
//
// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/HasEdge/EdgeBetween/Neighbors/Edges,
//       plus MaxWeight. Also: reserveEdgeID().
// Determinism:
//   - Edges() and Neighbors() return edges in creation order (numeric ID asc).
//   - reserveEdgeID() is monotonic ("e" + decimal).
package core

import (
	"fmt"
	"sort"
	"strconv"
)

// edgeIDPrefix is the textual prefix for edge identifiers.
const edgeIDPrefix = 'e'

// AddEdge creates an undirected edge a-b with the given weight and returns its ID.
// Missing endpoints are created.
//
// Returns ErrEmptyVertexID, ErrBadWeight, ErrLoopNotAllowed or ErrMultiEdgeNotAllowed.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, weight int64) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if from == to {
		return "", ErrLoopNotAllowed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if weight < 0 || (!g.weighted && weight != 0) {
		return "", fmt.Errorf("%w: %s-%s weight=%d", ErrBadWeight, from, to, weight)
	}
	g.addVertexLocked(from)
	g.addVertexLocked(to)
	if _, exists := g.adjacency[from][to]; exists {
		return "", fmt.Errorf("%w: %s-%s", ErrMultiEdgeNotAllowed, from, to)
	}

	seq, eid := g.reserveEdgeID()
	g.edges[eid] = &Edge{ID: eid, From: from, To: to, Weight: weight, seq: seq}
	g.adjacency[from][to] = eid
	g.adjacency[to][from] = eid

	return eid, nil
}

// HasEdge reports whether a-b exists (in either orientation).
// Complexity: O(1).
func (g *Graph) HasEdge(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[a][b]

	return ok
}

// EdgeBetween returns the edge joining a and b.
// Returns ErrEdgeNotFound if the vertices are not adjacent.
func (g *Graph) EdgeBetween(a, b string) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	eid, ok := g.adjacency[a][b]
	if !ok {
		return nil, fmt.Errorf("%w: %s-%s", ErrEdgeNotFound, a, b)
	}

	return g.edges[eid], nil
}

// Neighbors returns the edges incident to id, ordered by creation.
// Complexity: O(d log d).
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	adj, ok := g.adjacency[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	out := make([]*Edge, 0, len(adj))
	for _, eid := range adj {
		out = append(out, g.edges[eid])
	}
	sortEdges(out)

	return out, nil
}

// NeighborIDs returns the unique IDs adjacent to id, sorted ascending.
// Complexity: O(d log d).
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	g.mu.RLock()
	adj, ok := g.adjacency[id]
	if !ok {
		g.mu.RUnlock()
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	ids := make([]string, 0, len(adj))
	for nbr := range adj {
		ids = append(ids, nbr)
	}
	g.mu.RUnlock()
	sort.Strings(ids)

	return ids, nil
}

// Edges returns all edges ordered by creation.
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	g.mu.RUnlock()
	sortEdges(out)

	return out
}

// EdgeCount returns |E|.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// MaxWeight returns the largest edge weight, or 0 for an edgeless graph.
func (g *Graph) MaxWeight() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var maxW int64
	for _, e := range g.edges {
		if e.Weight > maxW {
			maxW = e.Weight
		}
	}

	return maxW
}

// reserveEdgeID reserves the next sequence number and its textual ID; caller holds g.mu.
func (g *Graph) reserveEdgeID() (uint64, string) {
	g.nextEdgeID++
	n := g.nextEdgeID
	buf := make([]byte, 0, 1+20)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, n, 10)

	return n, string(buf)
}

func sortEdges(es []*Edge) {
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
}
