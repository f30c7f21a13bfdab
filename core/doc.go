// SPDX-License-Identifier: MIT

// Package core provides the in-memory graph that backs every miss graph and
// risk map in insights.
//
// The Graph G = (V,E) is deliberately narrow compared to a general-purpose
// graph library: it is always undirected and always simple.
//
//   - No self-loops: AddEdge(v, v, …) → ErrLoopNotAllowed.
//   - No parallel edges: a second AddEdge(a, b, …) or AddEdge(b, a, …) → ErrMultiEdgeNotAllowed.
//   - Weighted vs. unweighted (WithWeighted). Unweighted graphs only accept weight 0.
//   - Non-negative weights only; negative weights → ErrBadWeight.
//
// Adjacency is stored as a nested map adjacency[a][b] = edgeID, mirrored for
// both endpoints, so (a,b) and (b,a) always resolve to the same *Edge.
//
// Determinism:
//
//	Vertices()    – IDs sorted lexicographically.
//	Edges()       – sorted by numeric edge sequence ("e1" < "e2" < "e10").
//	Neighbors()   – sorted by the same sequence.
//	NeighborIDs() – unique IDs, sorted lexicographically.
//
// Vertex metadata:
//
//	Every Vertex carries a Metadata map (e.g. the "miss_count" attribute a miss
//	graph stores on each node).
//
// Concurrency:
//
//	A single sync.RWMutex guards vertices, edges and adjacency. The analysis
//	packages build a graph once and only read it afterwards, so a single lock
//	keeps the invariants simple without measurable contention.
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrEdgeNotFound        – missing edge
//	ErrBadWeight           – non-zero weight on unweighted graph, or negative weight
//	ErrLoopNotAllowed      – self-loop
//	ErrMultiEdgeNotAllowed – parallel edge
package core
