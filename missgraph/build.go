// Package missgraph converts rubric scores into co-miss graphs.
//
// A score below the miss threshold is a miss. Misses are collapsed per
// student by OR-ing across every row of that student, so two nodes co-occur
// when a student ever struggled with both, not only within one sitting.
//
// Element granularity: weight(a,b) is the number of students who ever missed
// both elements; the edge exists iff weight ≥ effective minimum.
//
// Domain granularity: weight(A,B) sums the element-level counts over every
// pair (eA ∈ A, eB ∈ B) of active elements; the edge exists iff
//
//	weight ≥ effectiveMin · |A| · |B| / 4
//
// The effective minimum equals the configured one unless the analysis is
// narrowed to FocusedUniverse active elements or fewer, where it is 1.
//
// Every active node is present even when isolated, carrying a "miss_count"
// metadata entry: missed rows for an element, the sum of its elements'
// counts for a domain.
package missgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/insights/core"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/rubric"
)

// Sentinel errors. Soft conditions (empty table, threshold out of range,
// empty focus) are not errors: they yield an empty graph.
var (
	ErrNilTable       = errors.New("missgraph: score table is nil")
	ErrNilCriteria    = errors.New("missgraph: criteria set is nil")
	ErrUnknownElement = errors.New("missgraph: focus names an unknown domain or element")
	ErrBadMinMisses   = errors.New("missgraph: min misses must be >= 1")
	ErrBadGranularity = errors.New("missgraph: unknown granularity")
	ErrIDCollision    = errors.New("missgraph: student id collides with an element name")
)

// Metadata keys set on graph vertices.
const (
	MetaMissCount = "miss_count"
	MetaDomain    = "domain"
	MetaKind      = "kind"
)

// Score scale bounds accepted for the miss threshold.
const (
	MinThreshold = 0.0
	MaxThreshold = 4.0
)

// MissGraph is an undirected, simple, weighted co-miss graph.
type MissGraph struct {
	*core.Graph

	Granularity   Granularity `json:"granularity"`
	MissThreshold float64     `json:"miss_threshold"`
	MinMisses     int         `json:"min_misses"`
	EffectiveMin  int         `json:"effective_min"`
	Students      int         `json:"students"`
}

// MissCount returns the miss_count metadata of node.
func (m *MissGraph) MissCount(node string) int {
	v, ok := m.Metadata(node, MetaMissCount)
	if !ok {
		return 0
	}
	n, _ := v.(int)

	return n
}

// Empty reports whether the graph has no edges.
func (m *MissGraph) Empty() bool { return m.EdgeCount() == 0 }

// Build constructs the co-miss graph of table under cs.
func Build(table *dataset.ScoreTable, cs *rubric.CriteriaSet, opts ...Option) (*MissGraph, error) {
	o, err := resolve(table, cs, opts)
	if err != nil {
		return nil, err
	}
	mg := &MissGraph{
		Graph:         core.NewGraph(core.WithWeighted()),
		Granularity:   o.Granularity,
		MissThreshold: o.MissThreshold,
		MinMisses:     o.MinMisses,
		EffectiveMin:  o.MinMisses,
	}

	active, soft := activeElements(table, cs, o)
	if soft != "" {
		o.Logger.Debug("missgraph: empty graph", zap.String("reason", soft))
		return mg, nil
	}
	if len(active) <= FocusedUniverse {
		mg.EffectiveMin = 1
	}

	m := collect(table, active, o.MissThreshold)
	mg.Students = len(m.students)

	switch o.Granularity {
	case Domain:
		buildDomains(mg, cs, active, m)
	default:
		buildElements(mg, cs, active, m)
	}
	o.Logger.Debug("missgraph: built",
		zap.Stringer("granularity", o.Granularity),
		zap.Int("active_elements", len(active)),
		zap.Int("students", mg.Students),
		zap.Int("effective_min", mg.EffectiveMin),
		zap.Int("nodes", mg.VertexCount()),
		zap.Int("edges", mg.EdgeCount()))

	return mg, nil
}

func resolve(table *dataset.ScoreTable, cs *rubric.CriteriaSet, opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if table == nil {
		return o, ErrNilTable
	}
	if cs == nil {
		return o, ErrNilCriteria
	}
	if o.MinMisses < 1 {
		return o, fmt.Errorf("%w: got %d", ErrBadMinMisses, o.MinMisses)
	}
	if o.Granularity != Element && o.Granularity != Domain {
		return o, fmt.Errorf("%w: %d", ErrBadGranularity, int(o.Granularity))
	}
	for _, name := range o.Focus {
		if !cs.HasDomain(name) && !cs.HasElement(name) {
			return o, fmt.Errorf("%w: %q", ErrUnknownElement, name)
		}
	}

	return o, nil
}

// activeElements returns the elements under analysis in criteria order, or
// a non-empty reason when the graph must be empty.
func activeElements(table *dataset.ScoreTable, cs *rubric.CriteriaSet, o Options) ([]string, string) {
	switch {
	case math.IsNaN(o.MissThreshold) || o.MissThreshold < MinThreshold || o.MissThreshold > MaxThreshold:
		return nil, "threshold out of range"
	case table.Len() == 0:
		return nil, "empty table"
	case o.Focus != nil && len(o.Focus) == 0:
		return nil, "empty focus"
	}

	var focus map[string]bool
	if o.Focus != nil {
		focus = make(map[string]bool)
		for _, name := range o.Focus {
			if cs.HasDomain(name) {
				for _, el := range cs.ElementsOf(name) {
					focus[el] = true
				}
				continue
			}
			focus[name] = true
		}
	}

	var active []string
	for _, el := range cs.Elements() {
		if focus != nil && !focus[el] {
			continue
		}
		if _, ok := table.ElementIndex(el); ok {
			active = append(active, el)
		}
	}
	if len(active) == 0 {
		return nil, "no active elements"
	}

	return active, ""
}

// misses is the per-student collapsed miss matrix of the active elements.
type misses struct {
	students []string
	ever     [][]bool // [student][active element]
	rows     []int    // missed rows per active element
}

func collect(table *dataset.ScoreTable, active []string, threshold float64) misses {
	cols := make([]int, len(active))
	for i, el := range active {
		cols[i], _ = table.ElementIndex(el)
	}

	byStudent := make(map[string][]bool)
	rows := make([]int, len(active))
	for _, row := range table.Rows {
		ever, ok := byStudent[row.StudentID]
		if !ok {
			ever = make([]bool, len(active))
			byStudent[row.StudentID] = ever
		}
		for i, c := range cols {
			if row.Scores[c] < threshold {
				ever[i] = true
				rows[i]++
			}
		}
	}

	m := misses{rows: rows}
	for id := range byStudent {
		m.students = append(m.students, id)
	}
	sort.Strings(m.students)
	for _, id := range m.students {
		m.ever = append(m.ever, byStudent[id])
	}

	return m
}

// coMiss counts students who ever missed both active elements i and j.
func (m misses) coMiss(i, j int) int {
	n := 0
	for _, ever := range m.ever {
		if ever[i] && ever[j] {
			n++
		}
	}

	return n
}

func buildElements(mg *MissGraph, cs *rubric.CriteriaSet, active []string, m misses) {
	for i, el := range active {
		_ = mg.AddVertex(el)
		_ = mg.SetMetadata(el, MetaMissCount, m.rows[i])
		if d, ok := cs.DomainOf(el); ok {
			_ = mg.SetMetadata(el, MetaDomain, d)
		}
	}
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if w := m.coMiss(i, j); w >= mg.EffectiveMin {
				_, _ = mg.AddEdge(active[i], active[j], int64(w))
			}
		}
	}
}

func buildDomains(mg *MissGraph, cs *rubric.CriteriaSet, active []string, m misses) {
	pos := make(map[string]int, len(active))
	for i, el := range active {
		pos[el] = i
	}

	type group struct {
		name    string
		members []int
	}
	var groups []group
	for _, d := range cs.Domains() {
		g := group{name: d.Name}
		for _, el := range d.Elements {
			if i, ok := pos[el]; ok {
				g.members = append(g.members, i)
			}
		}
		if len(g.members) > 0 {
			groups = append(groups, g)
		}
	}

	for _, g := range groups {
		total := 0
		for _, i := range g.members {
			total += m.rows[i]
		}
		_ = mg.AddVertex(g.name)
		_ = mg.SetMetadata(g.name, MetaMissCount, total)
	}
	for a := 0; a < len(groups); a++ {
		for b := a + 1; b < len(groups); b++ {
			w := 0
			for _, i := range groups[a].members {
				for _, j := range groups[b].members {
					w += m.coMiss(i, j)
				}
			}
			need := float64(mg.EffectiveMin*len(groups[a].members)*len(groups[b].members)) / 4
			if w > 0 && float64(w) >= need {
				_, _ = mg.AddEdge(groups[a].name, groups[b].name, int64(w))
			}
		}
	}
}
