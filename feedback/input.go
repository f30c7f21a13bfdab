package feedback

import (
	"github.com/katalvlaran/insights/dataset"
	"github.com/katalvlaran/insights/rubric"
)

// InputFrom assembles the Input of (student, attempt) from generated tables.
// Domain scores average every element of the domain over all of the
// student's rows at that attempt. ok is false when neither table has data
// for the pair. aux may be nil.
func InputFrom(scores *dataset.ScoreTable, aux *dataset.AuxiliaryTable, cs *rubric.CriteriaSet, student string, attempt int) (in Input, ok bool) {
	in = Input{StudentID: student, Attempt: attempt}

	if scores != nil && cs != nil {
		rows := scores.Filter(func(r dataset.ScoreRecord) bool {
			return r.StudentID == student && r.Attempt == attempt
		})
		if rows.Len() > 0 {
			ok = true
			for _, d := range cs.Domains() {
				var sum float64
				var n int
				for _, el := range d.Elements {
					col, found := rows.Column(el)
					if !found {
						continue
					}
					for _, v := range col {
						sum += v
						n++
					}
				}
				if n > 0 {
					in.Domains = append(in.Domains, Score{Name: d.Name, Value: sum / float64(n)})
				}
			}
		}
	}

	if aux != nil {
		if rec, found := aux.Find(student, attempt); found {
			ok = true
			for i, item := range aux.Schema.Checklist {
				in.Checklist = append(in.Checklist, Flag{Name: item, Done: rec.Checklist[i]})
			}
			for i, m := range aux.Schema.Speech {
				in.Speech = append(in.Speech, Score{Name: m, Value: rec.Speech[i]})
			}
			for i, m := range aux.Schema.Dialogue {
				in.Socratic = append(in.Socratic, Score{Name: m.Name, Value: rec.Dialogue[i]})
			}
		}
		in.Components = ComponentsOf(aux.Schema)
	}

	return in, ok
}

// ComponentsOf groups the dialogue metrics of schema by Socratic component,
// in order of first appearance.
func ComponentsOf(schema dataset.AuxSchema) []Component {
	var out []Component
	pos := make(map[string]int)
	for _, m := range schema.Dialogue {
		if m.Component == "" {
			continue
		}
		i, seen := pos[m.Component]
		if !seen {
			i = len(out)
			pos[m.Component] = i
			out = append(out, Component{Name: m.Component})
		}
		out[i].Metrics = append(out[i].Metrics, m.Name)
	}

	return out
}
