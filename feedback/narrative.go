package feedback

import (
	"strings"

	"github.com/katalvlaran/insights/rubric"
)

// Narrative thresholds.
const (
	speechGood      = 7.0
	speechExcellent = 8.5
	socraticStrong  = 3.0
)

func wentWell(in Input, socratic map[string]float64) []Section {
	var out []Section
	speech := index(in.Speech)
	domains := index(in.Domains)

	if len(in.Speech) > 0 && mean(in.Speech) >= speechGood {
		var details []string
		for _, d := range []struct{ metric, text string }{
			{"volume", "kept an appropriate volume throughout, ensuring clear audibility"},
			{"pace", "held a professional pace that gave the patient time to process information"},
			{"pitch", "varied pitch and intonation to convey empathy and engagement"},
			{"pauses", "used meaningful pauses that allowed patient reflection"},
		} {
			if speech[d.metric] >= speechGood {
				details = append(details, d.text)
			}
		}
		if len(details) > 0 {
			out = append(out, Section{
				Category: "Speech Quality and Delivery",
				Details:  "The student " + strings.Join(details, ", ") + ". This delivery supported patient comfort and comprehension.",
			})
		}
	}

	wonder, reflect, refine := socratic["Question Depth"], socratic["Response Completeness"], socratic["Assumption Recognition"]
	if wonder >= socraticStrong || reflect >= socraticStrong {
		var details []string
		if wonder >= socraticStrong {
			details = append(details, "showed curiosity by asking open-ended questions")
		}
		if reflect >= socraticStrong {
			details = append(details, "listened reflectively, acknowledging and summarizing patient statements")
		}
		if refine >= socraticStrong {
			details = append(details, "refined patient responses to clarify meaning")
		}
		out = append(out, Section{
			Category: "Socratic Dialogue",
			Details:  "The student " + strings.Join(details, ", ") + ". This deepened patient engagement.",
		})
	}

	critical, hasCritical := domains[rubric.CriticalThinking]
	partnership, hasPartnership := domains[rubric.HumilityPartnership]
	if (hasCritical && critical >= ProficientMin) || (hasPartnership && partnership >= ProficientMin) {
		var details []string
		if hasCritical && critical >= ProficientMin {
			details = append(details, "explained clinical reasoning and decision-making transparently")
		}
		if hasPartnership && partnership >= ProficientMin {
			details = append(details,
				"invited patient input on care decisions",
				"validated patient concerns and communicated uncertainty constructively")
		}
		out = append(out, Section{
			Category: "Clinical Reasoning and Shared Decision Making",
			Details:  "The student " + strings.Join(details, ", ") + ".",
		})
	}

	question, hasQuestion := domains[rubric.QuestionFormulation]
	response, hasResponse := domains[rubric.ResponseQuality]
	if (hasQuestion && question >= ProficientMin) || (hasResponse && response >= ProficientMin) {
		var details []string
		if hasQuestion && question >= ProficientMin {
			details = append(details, "avoided jargon and used accessible language")
		}
		if hasResponse && response >= ProficientMin {
			details = append(details, "offered empathic acknowledgment that built rapport")
		}
		details = append(details, "encouraged patient agency in decision-making")
		out = append(out, Section{
			Category: "Patient-Centered Communication",
			Details:  "The student " + strings.Join(details, ", ") + ".",
		})
	}

	return out
}

func improvements(in Input) []Section {
	var out []Section
	speech := index(in.Speech)
	domains := index(in.Domains)

	if len(in.Speech) > 0 && mean(in.Speech) < speechExcellent {
		var details []string
		if v, ok := speech["pace"]; ok && v < speechExcellent {
			details = append(details, "a slightly slower delivery with longer reflective pauses could give the patient more room to process")
		}
		if v, ok := speech["pitch"]; ok && v < speechExcellent {
			details = append(details, "more pitch variation on key points could increase engagement")
		}
		if len(details) > 0 {
			out = append(out, Section{
				Category: "Speech Quality and Delivery",
				Details:  "While overall delivery was appropriate, " + strings.Join(details, ". Additionally, ") + ".",
			})
		}
	}

	below := func(domain string, limit float64) bool {
		v, ok := domains[domain]
		return ok && v < limit
	}
	if below(rubric.ReflectivePractice, StrengthMin) {
		out = append(out, Section{
			Category: "Reflective Practice and Self-Awareness",
			Details:  "Recognizing and voicing personal biases or assumptions during the encounter, and adjusting visibly to patient cues, would strengthen responsiveness.",
		})
	}
	if below(rubric.CriticalThinking, AdvancedMin) {
		out = append(out, Section{
			Category: "Clinical Reasoning Transparency",
			Details:  "Explaining the rationale behind each suggested test or treatment, and why it is prioritized, would improve patient understanding.",
		})
	}
	if below(rubric.QuestionFormulation, StrengthMin) {
		out = append(out, Section{
			Category: "Question Formulation",
			Details:  "More open-ended 'why' and 'how' questions would surface patient reasoning and concerns.",
		})
	}
	if below(rubric.ResponseQuality, StrengthMin) {
		out = append(out, Section{
			Category: "Active Listening and Response Quality",
			Details:  "Pausing before responding and acknowledging every patient concern before moving on would improve completeness.",
		})
	}

	return out
}

func mean(scores []Score) float64 {
	var sum float64
	for _, s := range scores {
		sum += s.Value
	}

	return sum / float64(len(scores))
}
