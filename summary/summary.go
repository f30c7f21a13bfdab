// Package summary aggregates score and auxiliary tables into the cohort
// views a report shows: domain means, attempt trends, completion rates.
package summary

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/rubric"
)

// DomainMean is the average score of one domain.
type DomainMean struct {
	Domain string  `json:"domain"`
	Mean   float64 `json:"mean"`
}

// DomainMeans averages, per domain, the row-wise domain means of table.
// Returns nil for an empty table.
func DomainMeans(table *dataset.ScoreTable, cs *rubric.CriteriaSet) []DomainMean {
	if table == nil || cs == nil || table.Len() == 0 {
		return nil
	}
	out := make([]DomainMean, 0, len(cs.Domains()))
	for _, d := range cs.Domains() {
		idx := indices(table, d.Elements)
		if len(idx) == 0 {
			continue
		}
		rowMeans := make([]float64, table.Len())
		for r, row := range table.Rows {
			var sum float64
			for _, i := range idx {
				sum += row.Scores[i]
			}
			rowMeans[r] = sum / float64(len(idx))
		}
		out = append(out, DomainMean{Domain: d.Name, Mean: stat.Mean(rowMeans, nil)})
	}

	return out
}

// StudentDomainMeans is DomainMeans restricted to one student's rows.
func StudentDomainMeans(table *dataset.ScoreTable, cs *rubric.CriteriaSet, student string) []DomainMean {
	if table == nil {
		return nil
	}
	rows := table.Filter(func(r dataset.ScoreRecord) bool { return r.StudentID == student })

	return DomainMeans(rows, cs)
}

// AttemptMean is the mean overall score of one attempt.
type AttemptMean struct {
	Attempt int     `json:"attempt"`
	Mean    float64 `json:"mean"`
	Rows    int     `json:"rows"`
}

// AttemptTrend returns the mean overall score per attempt, ascending.
// A row's overall score is the mean of all its elements.
func AttemptTrend(table *dataset.ScoreTable) []AttemptMean {
	if table == nil {
		return nil
	}
	byAttempt := make(map[int][]float64)
	for _, row := range table.Rows {
		byAttempt[row.Attempt] = append(byAttempt[row.Attempt], overall(row))
	}
	out := make([]AttemptMean, 0, len(byAttempt))
	for a, xs := range byAttempt {
		out = append(out, AttemptMean{Attempt: a, Mean: stat.Mean(xs, nil), Rows: len(xs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Attempt < out[j].Attempt })

	return out
}

// Line is a least-squares fit overall = Intercept + Slope·attempt.
type Line struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
}

// TrendLine fits the overall score of every row against its attempt.
// ok is false with fewer than two distinct attempts.
func TrendLine(table *dataset.ScoreTable) (Line, bool) {
	if table == nil || len(table.Attempts()) < 2 {
		return Line{}, false
	}
	xs := make([]float64, table.Len())
	ys := make([]float64, table.Len())
	for i, row := range table.Rows {
		xs[i] = float64(row.Attempt)
		ys[i] = overall(row)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	return Line{Intercept: alpha, Slope: beta, RSquared: stat.RSquared(xs, ys, nil, alpha, beta)}, true
}

// Completion counts the rows meeting the threshold for one element.
type Completion struct {
	Element    string  `json:"element"`
	Domain     string  `json:"domain"`
	Completed  int     `json:"completed"`
	Incomplete int     `json:"incomplete"`
	Total      int     `json:"total"`
	Rate       float64 `json:"rate"`
}

// CompletionRates reports, per element, how many rows scored at or above
// threshold, sorted by rate ascending. Rate is a percentage.
func CompletionRates(table *dataset.ScoreTable, cs *rubric.CriteriaSet, threshold float64) []Completion {
	if table == nil || cs == nil || table.Len() == 0 {
		return nil
	}
	var out []Completion
	for _, el := range cs.Elements() {
		i, ok := table.ElementIndex(el)
		if !ok {
			continue
		}
		c := Completion{Element: el, Total: table.Len()}
		c.Domain, _ = cs.DomainOf(el)
		for _, row := range table.Rows {
			if row.Scores[i] >= threshold {
				c.Completed++
			}
		}
		c.Incomplete = c.Total - c.Completed
		c.Rate = 100 * float64(c.Completed) / float64(c.Total)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate < out[j].Rate })

	return out
}

// ChecklistRate is the share of records with a checklist item completed.
type ChecklistRate struct {
	Item    string  `json:"item"`
	Attempt int     `json:"attempt"`
	Rate    float64 `json:"rate"`
}

// ChecklistRates reports, per item and attempt, the completed fraction.
// Output is ordered by item (schema order) then attempt.
func ChecklistRates(aux *dataset.AuxiliaryTable) []ChecklistRate {
	if aux == nil {
		return nil
	}
	attempts := make(map[int]bool)
	for _, r := range aux.Records {
		attempts[r.Attempt] = true
	}
	ordered := make([]int, 0, len(attempts))
	for a := range attempts {
		ordered = append(ordered, a)
	}
	sort.Ints(ordered)

	var out []ChecklistRate
	for i, item := range aux.Schema.Checklist {
		for _, a := range ordered {
			var done, total float64
			for _, r := range aux.Records {
				if r.Attempt != a {
					continue
				}
				total++
				if r.Checklist[i] {
					done++
				}
			}
			out = append(out, ChecklistRate{Item: item, Attempt: a, Rate: done / total})
		}
	}

	return out
}

// AttemptRate is the checklist completion rate of one attempt, averaged
// over Items checklist items.
type AttemptRate struct {
	Attempt int     `json:"attempt"`
	Rate    float64 `json:"rate"`
	Items   int     `json:"items"`
}

// AttemptCompletion averages ChecklistRates over items, per attempt.
func AttemptCompletion(aux *dataset.AuxiliaryTable) []AttemptRate {
	byAttempt := make(map[int][]float64)
	for _, r := range ChecklistRates(aux) {
		byAttempt[r.Attempt] = append(byAttempt[r.Attempt], r.Rate)
	}
	out := make([]AttemptRate, 0, len(byAttempt))
	for a, xs := range byAttempt {
		out = append(out, AttemptRate{Attempt: a, Rate: stat.Mean(xs, nil), Items: len(xs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Attempt < out[j].Attempt })

	return out
}

func overall(row dataset.ScoreRecord) float64 {
	if len(row.Scores) == 0 {
		return 0
	}

	return stat.Mean(row.Scores, nil)
}

func indices(table *dataset.ScoreTable, elements []string) []int {
	var out []int
	for _, el := range elements {
		if i, ok := table.ElementIndex(el); ok {
			out = append(out, i)
		}
	}

	return out
}
