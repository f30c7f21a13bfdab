package dataset

import (
	"fmt"
	"sort"
)

// DialogueMetric describes one secondary dialogue rubric column.
type DialogueMetric struct {
	Area        string `json:"competency_area"`
	Name        string `json:"metric"`
	Measurement string `json:"measurement"`
	Component   string `json:"socratic_component"`
}

// AuxSchema fixes the column layout of an AuxiliaryTable.
type AuxSchema struct {
	Checklist []string         `json:"checklist"`
	Speech    []string         `json:"speech"`
	Dialogue  []DialogueMetric `json:"dialogue"`
}

// AuxiliaryRecord is one (student, attempt) row of companion metrics.
// Each slice is aligned with the matching AuxSchema list.
type AuxiliaryRecord struct {
	StudentID string    `json:"student_id"`
	Attempt   int       `json:"attempt"`
	Checklist []bool    `json:"checklist"`
	Speech    []float64 `json:"speech"`
	Dialogue  []float64 `json:"dialogue"`
}

// DialogueRow is one long-form dialogue observation.
type DialogueRow struct {
	StudentID   string  `json:"student_id"`
	Attempt     int     `json:"attempt"`
	Area        string  `json:"competency_area"`
	Metric      string  `json:"metric"`
	Measurement string  `json:"measurement"`
	Component   string  `json:"socratic_component"`
	Score       float64 `json:"score"`
}

// AuxiliaryTable is a set of AuxiliaryRecords sharing one schema.
type AuxiliaryTable struct {
	Schema  AuxSchema         `json:"schema"`
	Records []AuxiliaryRecord `json:"records"`
}

// NewAuxiliaryTable returns an empty table for schema.
func NewAuxiliaryTable(schema AuxSchema) *AuxiliaryTable {
	return &AuxiliaryTable{Schema: schema}
}

// Append adds rec after checking its widths against the schema.
func (t *AuxiliaryTable) Append(rec AuxiliaryRecord) error {
	s := t.Schema
	if len(rec.Checklist) != len(s.Checklist) || len(rec.Speech) != len(s.Speech) || len(rec.Dialogue) != len(s.Dialogue) {
		return fmt.Errorf("%w: aux record %s/%d", ErrWidthMismatch, rec.StudentID, rec.Attempt)
	}
	t.Records = append(t.Records, rec)

	return nil
}

// Len returns the number of records.
func (t *AuxiliaryTable) Len() int { return len(t.Records) }

// Column returns a numeric series by name. Checklist items yield 0 or 1;
// speech metrics match by name; dialogue metrics match by metric name.
func (t *AuxiliaryTable) Column(name string) ([]float64, bool) {
	pick := t.picker(name)
	if pick == nil {
		return nil, false
	}
	out := make([]float64, len(t.Records))
	for i := range t.Records {
		out[i] = pick(&t.Records[i])
	}

	return out, true
}

func (t *AuxiliaryTable) picker(name string) func(*AuxiliaryRecord) float64 {
	for i, item := range t.Schema.Checklist {
		if item == name {
			return func(r *AuxiliaryRecord) float64 {
				if r.Checklist[i] {
					return 1
				}
				return 0
			}
		}
	}
	for i, m := range t.Schema.Speech {
		if m == name {
			return func(r *AuxiliaryRecord) float64 { return r.Speech[i] }
		}
	}
	for i, m := range t.Schema.Dialogue {
		if m.Name == name {
			return func(r *AuxiliaryRecord) float64 { return r.Dialogue[i] }
		}
	}

	return nil
}

// MetricNames returns every numeric column name: checklist, then speech,
// then dialogue.
func (t *AuxiliaryTable) MetricNames() []string {
	out := append([]string(nil), t.Schema.Checklist...)
	out = append(out, t.Schema.Speech...)
	for _, m := range t.Schema.Dialogue {
		out = append(out, m.Name)
	}

	return out
}

// Find returns the record for (student, attempt).
func (t *AuxiliaryTable) Find(student string, attempt int) (AuxiliaryRecord, bool) {
	for _, r := range t.Records {
		if r.StudentID == student && r.Attempt == attempt {
			return r, true
		}
	}

	return AuxiliaryRecord{}, false
}

// Long flattens the dialogue columns into one row per (record, metric).
func (t *AuxiliaryTable) Long() []DialogueRow {
	out := make([]DialogueRow, 0, len(t.Records)*len(t.Schema.Dialogue))
	for _, r := range t.Records {
		for i, m := range t.Schema.Dialogue {
			out = append(out, DialogueRow{
				StudentID:   r.StudentID,
				Attempt:     r.Attempt,
				Area:        m.Area,
				Metric:      m.Name,
				Measurement: m.Measurement,
				Component:   m.Component,
				Score:       r.Dialogue[i],
			})
		}
	}

	return out
}

// StudentMeans returns, per student, the mean of every MetricNames column.
func (t *AuxiliaryTable) StudentMeans() map[string][]float64 {
	names := t.MetricNames()
	cols := make([][]float64, len(names))
	for i, n := range names {
		cols[i], _ = t.Column(n)
	}
	sums := make(map[string][]float64)
	counts := make(map[string]int)
	for r, rec := range t.Records {
		acc, ok := sums[rec.StudentID]
		if !ok {
			acc = make([]float64, len(names))
			sums[rec.StudentID] = acc
		}
		for i := range names {
			acc[i] += cols[i][r]
		}
		counts[rec.StudentID]++
	}
	for id, acc := range sums {
		n := float64(counts[id])
		for i := range acc {
			acc[i] /= n
		}
	}

	return sums
}

// Students returns the distinct student ids, sorted.
func (t *AuxiliaryTable) Students() []string {
	seen := make(map[string]struct{})
	for _, r := range t.Records {
		seen[r.StudentID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
