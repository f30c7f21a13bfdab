// Package dataset holds the tabular data passed between generators and
// analyzers: score tables, auxiliary metric tables and plain named columns.
//
// Every table exposes its numeric series through Column, so correlation and
// summary code can consume any of them through the Source interface.
package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrWidthMismatch is returned when a record's value count does not match
// the table schema.
var ErrWidthMismatch = errors.New("dataset: record width does not match schema")

// Source is anything that can hand out a numeric series by name.
// NaN entries mark missing observations.
type Source interface {
	Column(name string) ([]float64, bool)
}

// ScoreRecord is one (student, attempt, scenario, mode) row.
// Scores is aligned with ScoreTable.Elements.
type ScoreRecord struct {
	StudentID string    `json:"student_id"`
	Attempt   int       `json:"attempt"`
	Scenario  string    `json:"scenario"`
	Mode      string    `json:"mode"`
	Scores    []float64 `json:"scores"`
}

// ScoreTable is an ordered set of ScoreRecords sharing one element schema.
type ScoreTable struct {
	Elements []string      `json:"elements"`
	Rows     []ScoreRecord `json:"rows"`

	index map[string]int
}

// NewScoreTable returns an empty table for the given element columns.
func NewScoreTable(elements []string) *ScoreTable {
	t := &ScoreTable{Elements: append([]string(nil), elements...)}
	t.reindex()

	return t
}

func (t *ScoreTable) reindex() {
	t.index = make(map[string]int, len(t.Elements))
	for i, el := range t.Elements {
		t.index[el] = i
	}
}

// Append adds rec to the table. The Scores slice is copied.
func (t *ScoreTable) Append(rec ScoreRecord) error {
	if len(rec.Scores) != len(t.Elements) {
		return fmt.Errorf("%w: got %d scores, want %d", ErrWidthMismatch, len(rec.Scores), len(t.Elements))
	}
	rec.Scores = append([]float64(nil), rec.Scores...)
	t.Rows = append(t.Rows, rec)

	return nil
}

// Len returns the number of rows.
func (t *ScoreTable) Len() int { return len(t.Rows) }

// ElementIndex returns the column position of element.
func (t *ScoreTable) ElementIndex(element string) (int, bool) {
	if len(t.index) == len(t.Elements) {
		i, ok := t.index[element]
		return i, ok
	}
	// table built by literal or decoding: fall back to a scan
	for i, el := range t.Elements {
		if el == element {
			return i, true
		}
	}

	return 0, false
}

// Column returns the scores of element in row order.
func (t *ScoreTable) Column(name string) ([]float64, bool) {
	i, ok := t.ElementIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row.Scores[i]
	}

	return out, true
}

// Score returns the score of element in row r.
func (t *ScoreTable) Score(r int, element string) (float64, bool) {
	i, ok := t.ElementIndex(element)
	if !ok || r < 0 || r >= len(t.Rows) {
		return 0, false
	}

	return t.Rows[r].Scores[i], true
}

// Students returns the distinct student ids, sorted.
func (t *ScoreTable) Students() []string {
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		seen[row.StudentID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}

// Attempts returns the distinct attempt numbers, ascending.
func (t *ScoreTable) Attempts() []int {
	seen := make(map[int]struct{})
	for _, row := range t.Rows {
		seen[row.Attempt] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Ints(out)

	return out
}

// Filter returns a new table with the rows keep accepts, in order.
func (t *ScoreTable) Filter(keep func(ScoreRecord) bool) *ScoreTable {
	out := NewScoreTable(t.Elements)
	for _, row := range t.Rows {
		if keep(row) {
			row.Scores = append([]float64(nil), row.Scores...)
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

// StudentMeans returns, per student, the mean score of each element.
// The outer key is the student id, the inner slice follows Elements.
func (t *ScoreTable) StudentMeans() map[string][]float64 {
	sums := make(map[string][]float64)
	counts := make(map[string]int)
	for _, row := range t.Rows {
		acc, ok := sums[row.StudentID]
		if !ok {
			acc = make([]float64, len(t.Elements))
			sums[row.StudentID] = acc
		}
		for i, v := range row.Scores {
			acc[i] += v
		}
		counts[row.StudentID]++
	}
	for id, acc := range sums {
		n := float64(counts[id])
		for i := range acc {
			acc[i] /= n
		}
	}

	return sums
}
