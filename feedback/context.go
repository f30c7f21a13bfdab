// Package feedback turns one student's already generated scores for one
// attempt into an interpretable context: descriptive statistics,
// proficiency labels, strengths and growth areas, and narrative sections a
// report writer can render.
//
// BuildContext performs no random draws. Its only use of the base seed is
// the keyed derivation seed.Derive(base, student, attempt), which is stored
// in the context so downstream renderers can seed their own streams.
package feedback

import (
	"sort"
	"strings"
	"unicode"

	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/seed"
)

// Score is a named value. Input slices keep the caller's order.
type Score struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Flag is a named completion status.
type Flag struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Component groups dialogue metrics under one Socratic component.
type Component struct {
	Name    string   `json:"name"`
	Metrics []string `json:"metrics"`
}

// Input holds the scores of one (student, attempt).
type Input struct {
	StudentID string
	Attempt   int

	Domains    []Score // domain means, 0–4
	Socratic   []Score // dialogue metrics, 0–5
	Speech     []Score // speech metrics, 0–10
	Checklist  []Flag
	Components []Component
}

// Level thresholds on the 0–4 domain scale.
const (
	AdvancedMin   = 3.5
	ProficientMin = 2.5
	EmergingMin   = 1.5
	StrengthMin   = 3.0
	GrowthBelow   = 2.5
)

// DomainLevel is the interpretation of one domain score.
type DomainLevel struct {
	Domain     string  `json:"domain"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	Level      string  `json:"level"`
	Descriptor string  `json:"descriptor"`
}

// ComponentLevel is the interpretation of one Socratic component.
type ComponentLevel struct {
	Component      string  `json:"component"`
	Score          float64 `json:"score"`
	Interpretation string  `json:"interpretation"`
}

// SpeechLevel is the interpretation of one speech metric.
type SpeechLevel struct {
	Metric  string  `json:"metric"`
	Score   float64 `json:"score"`
	Quality string  `json:"quality"`
}

// Highlight is a strength or growth area entry.
type Highlight struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
	Note   string  `json:"note"`
}

// Pattern is a cross-family observation.
type Pattern struct {
	Type        string `json:"type"`
	Observation string `json:"observation"`
}

// Behavior is a mock observed behavior anchored to an encounter timestamp.
type Behavior struct {
	Category    string `json:"category"`
	Observation string `json:"observation"`
	Timestamp   string `json:"timestamp"`
}

// Section is one narrative feedback paragraph.
type Section struct {
	Category string `json:"category"`
	Details  string `json:"details"`
}

// Statistics groups Stats per score family; nil when the family is empty.
type Statistics struct {
	Domain   *Stats `json:"domain_scores,omitempty"`
	Socratic *Stats `json:"socratic_scores,omitempty"`
	Speech   *Stats `json:"speech_scores,omitempty"`
}

// Context is the full feedback context of one (student, attempt).
type Context struct {
	StudentID string `json:"student_id"`
	Attempt   int    `json:"attempt"`
	Seed      uint32 `json:"seed"`

	DomainScores   []Score `json:"domain_scores"`
	SocraticScores []Score `json:"socratic_scores"`
	SpeechScores   []Score `json:"speech_scores"`
	Checklist      []Flag  `json:"encounter_completeness"`

	Statistics Statistics       `json:"descriptive_statistics"`
	Domains    []DomainLevel    `json:"domain_performance"`
	Socratic   []ComponentLevel `json:"socratic_performance"`
	Speech     []SpeechLevel    `json:"speech_performance"`

	Strengths []Highlight `json:"top_strengths"`
	Growth    []Highlight `json:"growth_areas"`
	Patterns  []Pattern   `json:"patterns"`
	Behaviors []Behavior  `json:"observed_behaviors"`

	WentWell     []Section `json:"what_student_did_well"`
	Improvements []Section `json:"areas_for_improvement"`
}

// BuildContext derives the feedback context of in. The result is fully
// determined by in and baseSeed.
func BuildContext(in Input, baseSeed int64) *Context {
	ctx := &Context{
		StudentID:      in.StudentID,
		Attempt:        in.Attempt,
		Seed:           seed.Derive(baseSeed, in.StudentID, in.Attempt),
		DomainScores:   append([]Score(nil), in.Domains...),
		SocraticScores: append([]Score(nil), in.Socratic...),
		SpeechScores:   append([]Score(nil), in.Speech...),
		Checklist:      append([]Flag(nil), in.Checklist...),
	}
	ctx.Statistics = Statistics{
		Domain:   describe(in.Domains),
		Socratic: describe(in.Socratic),
		Speech:   describe(in.Speech),
	}

	for _, d := range in.Domains {
		level, descriptor := Level(d.Value)
		label := Label(d.Name)
		ctx.Domains = append(ctx.Domains, DomainLevel{
			Domain: d.Name, Label: label, Score: round1(d.Value), Level: level, Descriptor: descriptor,
		})
		switch {
		case d.Value >= StrengthMin:
			ctx.Strengths = append(ctx.Strengths, Highlight{
				Domain: label,
				Score:  round1(d.Value),
				Note:   "Strong " + strings.ToLower(level) + " performance in " + strings.ToLower(label),
			})
		case d.Value < GrowthBelow:
			ctx.Growth = append(ctx.Growth, Highlight{
				Domain: label,
				Score:  round1(d.Value),
				Note:   "Opportunity to develop " + strings.ToLower(label) + " skills",
			})
		}
	}
	sort.SliceStable(ctx.Strengths, func(i, j int) bool { return ctx.Strengths[i].Score > ctx.Strengths[j].Score })
	sort.SliceStable(ctx.Growth, func(i, j int) bool { return ctx.Growth[i].Score < ctx.Growth[j].Score })

	socratic := index(in.Socratic)
	for _, c := range in.Components {
		var sum float64
		var n int
		for _, m := range c.Metrics {
			if v, ok := socratic[m]; ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		avg := sum / float64(n)
		ctx.Socratic = append(ctx.Socratic, ComponentLevel{
			Component: c.Name, Score: round1(avg), Interpretation: Interpret(avg),
		})
	}

	for _, s := range in.Speech {
		ctx.Speech = append(ctx.Speech, SpeechLevel{Metric: s.Name, Score: round1(s.Value), Quality: SpeechQuality(s.Value)})
	}

	if p, ok := pattern(in.Domains, ctx.Socratic); ok {
		ctx.Patterns = append(ctx.Patterns, p)
	}
	ctx.Behaviors = behaviors(index(in.Domains), ctx)
	ctx.WentWell = wentWell(in, socratic)
	ctx.Improvements = improvements(in)

	return ctx
}

// Level maps a 0–4 domain score to its proficiency level and descriptor.
func Level(score float64) (level, descriptor string) {
	switch {
	case score >= AdvancedMin:
		return "Advanced", "consistently demonstrates sophisticated application"
	case score >= ProficientMin:
		return "Proficient", "shows solid competence with regular effective application"
	case score >= EmergingMin:
		return "Emerging", "demonstrates growing capability with some inconsistency"
	default:
		return "Developing", "beginning to incorporate skills, primarily foundational"
	}
}

// Interpret labels a 0–5 Socratic component score.
func Interpret(score float64) string {
	switch {
	case score >= 3.5:
		return "strong"
	case score < 2.5:
		return "developing"
	default:
		return "adequate"
	}
}

// SpeechQuality labels a 0–10 speech score.
func SpeechQuality(score float64) string {
	switch {
	case score >= 8.5:
		return "excellent"
	case score >= 7.0:
		return "good"
	case score >= 5.5:
		return "adequate"
	default:
		return "needs attention"
	}
}

// Label turns a domain key such as "PRO_01_Question_Formulation" into
// "Question Formulation". Leading upper-case or numeric tokens are dropped
// unless nothing would remain.
func Label(domain string) string {
	parts := strings.Split(domain, "_")
	i := 0
	for i < len(parts)-1 && isCode(parts[i]) {
		i++
	}

	return strings.Join(parts[i:], " ")
}

func isCode(tok string) bool {
	if tok == "" {
		return true
	}
	for _, r := range tok {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// pattern compares the average domain score with the averaged component
// scores scaled from 0–5 to 0–4.
func pattern(domains []Score, comps []ComponentLevel) (Pattern, bool) {
	if len(domains) == 0 || len(comps) == 0 {
		return Pattern{}, false
	}
	var dsum, csum float64
	for _, d := range domains {
		dsum += d.Value
	}
	for _, c := range comps {
		csum += c.Score
	}
	avgDomain := dsum / float64(len(domains))
	avgSocratic := csum / float64(len(comps))
	if avgDomain > avgSocratic*0.8 {
		return Pattern{Type: "alignment", Observation: "Domain performance aligns well with Socratic dialogue skills"}, true
	}

	return Pattern{Type: "gap", Observation: "Opportunity to better integrate Socratic techniques into clinical domains"}, true
}

func behaviors(domains map[string]float64, ctx *Context) []Behavior {
	var out []Behavior
	qf := Label(rubric.QuestionFormulation)
	switch {
	case hasHighlight(ctx.Strengths, qf):
		out = append(out, Behavior{"Question Formulation", "Asked open-ended questions that invited patient elaboration", "00:02:15"})
	case hasHighlight(ctx.Growth, qf):
		out = append(out, Behavior{"Question Formulation", "Relied on closed-ended questions that limited the patient narrative", "00:02:15"})
	}
	if v, ok := domains[rubric.ResponseQuality]; ok {
		if v >= StrengthMin {
			out = append(out, Behavior{"Response Quality", "Paused reflectively before responding to patient statements", "00:05:42"})
		} else {
			out = append(out, Behavior{"Response Quality", "Responses occasionally interrupted the patient's train of thought", "00:05:42"})
		}
	}
	if v, ok := domains[rubric.CriticalThinking]; ok && v >= StrengthMin {
		out = append(out, Behavior{"Critical Thinking", "Verbalized clinical reasoning in patient-friendly language", "00:08:20"})
	}
	if v, ok := domains[rubric.HumilityPartnership]; ok {
		switch {
		case v >= StrengthMin:
			out = append(out, Behavior{"Partnership", "Used partnership language when discussing care plan options", "00:11:05"})
		case v < GrowthBelow:
			out = append(out, Behavior{"Partnership", "Took a mostly directive approach with limited patient input on care decisions", "00:11:05"})
		}
	}

	return out
}

func hasHighlight(hs []Highlight, label string) bool {
	for _, h := range hs {
		if h.Domain == label {
			return true
		}
	}

	return false
}

func describe(scores []Score) *Stats {
	xs := make([]float64, len(scores))
	for i, s := range scores {
		xs[i] = s.Value
	}
	st, ok := Describe(xs)
	if !ok {
		return nil
	}

	return &st
}

func index(scores []Score) map[string]float64 {
	m := make(map[string]float64, len(scores))
	for _, s := range scores {
		m[s.Name] = s.Value
	}

	return m
}
