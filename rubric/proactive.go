package rubric

// Domain names of the built-in PROaCTIVE Socratic dialogue criteria.
const (
	QuestionFormulation = "PRO_01_Question_Formulation"
	ResponseQuality     = "PRO_02_Response_Quality"
	CriticalThinking    = "PRO_03_Critical_Thinking"
	HumilityPartnership = "PRO_04_Humility_Partnership"
	ReflectivePractice  = "PRO_05_Reflective_Practice"
)

// Proactive returns a fresh copy of the PROaCTIVE criteria: five domains of
// four elements each (20 element columns).
func Proactive() *CriteriaSet {
	return MustNew("PROaCTIVE", []Domain{
		{Name: QuestionFormulation, Elements: []string{
			"question_depth", "question_types", "question_timing", "question_clarity",
		}},
		{Name: ResponseQuality, Elements: []string{
			"reflective_pausing", "response_completeness", "understanding_verification", "empathic_acknowledgment",
		}},
		{Name: CriticalThinking, Elements: []string{
			"assumption_recognition", "reasoning_transparency", "differential_thinking", "complexity_navigation",
		}},
		{Name: HumilityPartnership, Elements: []string{
			"plan_flexibility", "expertise_acknowledgment", "uncertainty_communication", "partnership_language",
		}},
		{Name: ReflectivePractice, Elements: []string{
			"in_encounter_adjustment", "bias_recognition", "style_awareness", "post_encounter_reflection",
		}},
	})
}
