package missgraph

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/insights/core"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/rubric"
)

// Node kinds of a RiskMap.
const (
	KindStudent = "student"
	KindElement = "element"
)

// RiskMap is a bipartite student–element graph. An edge (student, element)
// carries the number of that student's rows missing the element and exists
// iff the count reaches the configured minimum.
type RiskMap struct {
	*core.Graph

	Students []string `json:"students"`
	Elements []string `json:"elements"`
}

// BuildRiskMap constructs the student–element risk map of table. It honours
// the miss threshold, min misses and focus options; granularity is ignored.
// The minimum is applied as configured, without the focused relaxation.
func BuildRiskMap(table *dataset.ScoreTable, cs *rubric.CriteriaSet, opts ...Option) (*RiskMap, error) {
	o, err := resolve(table, cs, opts)
	if err != nil {
		return nil, err
	}
	rm := &RiskMap{Graph: core.NewGraph(core.WithWeighted())}

	active, soft := activeElements(table, cs, o)
	if soft != "" {
		o.Logger.Debug("missgraph: empty risk map", zap.String("reason", soft))
		return rm, nil
	}

	cols := make([]int, len(active))
	isElement := make(map[string]bool, len(active))
	for i, el := range active {
		cols[i], _ = table.ElementIndex(el)
		isElement[el] = true
	}
	counts := make(map[string][]int)
	for _, row := range table.Rows {
		if isElement[row.StudentID] {
			return nil, fmt.Errorf("%w: %q", ErrIDCollision, row.StudentID)
		}
		c, ok := counts[row.StudentID]
		if !ok {
			c = make([]int, len(active))
			counts[row.StudentID] = c
		}
		for i, col := range cols {
			if row.Scores[col] < o.MissThreshold {
				c[i]++
			}
		}
	}

	for id := range counts {
		rm.Students = append(rm.Students, id)
	}
	sort.Strings(rm.Students)
	rm.Elements = active

	for _, id := range rm.Students {
		_ = rm.AddVertex(id)
		_ = rm.SetMetadata(id, MetaKind, KindStudent)
	}
	for i, el := range active {
		_ = rm.AddVertex(el)
		_ = rm.SetMetadata(el, MetaKind, KindElement)
		total := 0
		for _, id := range rm.Students {
			total += counts[id][i]
		}
		_ = rm.SetMetadata(el, MetaMissCount, total)
	}
	for _, id := range rm.Students {
		for i, el := range active {
			if n := counts[id][i]; n >= o.MinMisses {
				_, _ = rm.AddEdge(id, el, int64(n))
			}
		}
	}
	o.Logger.Debug("missgraph: risk map built",
		zap.Int("students", len(rm.Students)),
		zap.Int("elements", len(active)),
		zap.Int("edges", rm.EdgeCount()))

	return rm, nil
}

// AtRisk returns the elements linked to student, heaviest first, ties by name.
func (rm *RiskMap) AtRisk(student string) ([]*core.Edge, error) {
	edges, err := rm.Neighbors(student)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		return edges[i].Other(student) < edges[j].Other(student)
	})

	return edges, nil
}
