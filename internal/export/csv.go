// Package export writes insights tables and results as CSV or JSON and
// reads generated score tables back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/katalvlaran/insights/correlation"
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/simu"
)

var (
	// ErrBadHeader is returned when a score CSV lacks the fixed leading columns.
	ErrBadHeader = errors.New("export: unexpected CSV header")

	// ErrBadScore is returned for a score that is not finite or lies
	// outside [simu.MinScore, simu.MaxScore].
	ErrBadScore = errors.New("export: score out of range")
)

var scoreLead = []string{"student_id", "attempt", "scenario", "mode"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScoresCSV writes table as one row per record: the fixed columns followed
// by one column per element.
func ScoresCSV(w io.Writer, table *dataset.ScoreTable) error {
	cw := csv.NewWriter(w)
	header := append(append([]string(nil), scoreLead...), table.Elements...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range table.Rows {
		row := make([]string, 0, len(header))
		row = append(row, r.StudentID, strconv.Itoa(r.Attempt), r.Scenario, r.Mode)
		for _, v := range r.Scores {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadScoresCSV parses the output of ScoresCSV.
func ReadScoresCSV(r io.Reader) (*dataset.ScoreTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("export: read header: %w", err)
	}
	if len(header) < len(scoreLead) {
		return nil, ErrBadHeader
	}
	for i, name := range scoreLead {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i, header[i], name)
		}
	}

	table := dataset.NewScoreTable(header[len(scoreLead):])
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: line %d: %w", line, err)
		}
		attempt, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("export: line %d: attempt: %w", line, err)
		}
		scores := make([]float64, len(rec)-len(scoreLead))
		for i, s := range rec[len(scoreLead):] {
			if scores[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("export: line %d: %s: %w", line, table.Elements[i], err)
			}
			if v := scores[i]; math.IsNaN(v) || v < simu.MinScore || v > simu.MaxScore {
				return nil, fmt.Errorf("export: line %d: %s: %w: %s", line, table.Elements[i], ErrBadScore, s)
			}
		}
		if err := table.Append(dataset.ScoreRecord{
			StudentID: rec[0],
			Attempt:   attempt,
			Scenario:  rec[2],
			Mode:      rec[3],
			Scores:    scores,
		}); err != nil {
			return nil, fmt.Errorf("export: line %d: %w", line, err)
		}
	}

	return table, nil
}

// AuxiliaryCSV writes one row per record: student, attempt, checklist flags
// as 1 or 0, speech metrics, then dialogue metrics.
func AuxiliaryCSV(w io.Writer, aux *dataset.AuxiliaryTable) error {
	cw := csv.NewWriter(w)
	header := []string{"student_id", "attempt"}
	header = append(header, aux.Schema.Checklist...)
	header = append(header, aux.Schema.Speech...)
	for _, m := range aux.Schema.Dialogue {
		header = append(header, m.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range aux.Records {
		row := make([]string, 0, len(header))
		row = append(row, r.StudentID, strconv.Itoa(r.Attempt))
		for _, done := range r.Checklist {
			flag := "0"
			if done {
				flag = "1"
			}
			row = append(row, flag)
		}
		for _, v := range r.Speech {
			row = append(row, formatFloat(v))
		}
		for _, v := range r.Dialogue {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// DialogueCSV writes the long form of the dialogue metrics.
func DialogueCSV(w io.Writer, rows []dataset.DialogueRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student_id", "attempt", "competency_area", "metric", "measurement", "socratic_component", "score"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.StudentID, strconv.Itoa(r.Attempt), r.Area, r.Metric, r.Measurement, r.Component, formatFloat(r.Score),
		}); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// PairsCSV writes correlation pairs in their given order.
func PairsCSV(w io.Writer, pairs []correlation.Pair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"a", "b", "r", "p_value", "ci_lower", "ci_upper", "n"}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := cw.Write([]string{
			p.A, p.B, formatFloat(p.R), formatFloat(p.P), formatFloat(p.Lower), formatFloat(p.Upper), strconv.Itoa(p.N),
		}); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// EdgesCSV writes edges as source, target, weight rows.
func EdgesCSV(w io.Writer, edges []Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target", "weight"}); err != nil {
		return err
	}
	for _, e := range edges {
		if err := cw.Write([]string{e.Source, e.Target, strconv.FormatInt(e.Weight, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// MatrixCSV writes m with a header of names and one row per name. Null
// cells are left empty.
func MatrixCSV(w io.Writer, m Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, m.Names...)); err != nil {
		return err
	}
	for i, row := range m.R {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, m.Names[i])
		for _, v := range row {
			cell := ""
			if v != nil {
				cell = formatFloat(*v)
			}
			rec = append(rec, cell)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
