package models

// Section identifies one of the four fixed question sections of a role
// assessment. The taking flow always presents sections in SectionOrder and
// skips empty ones.
type Section string

const (
	SectionMCQ       Section = "mcq"
	SectionSAQ       Section = "saq"
	SectionCaseStudy Section = "case_study"
	SectionAptitude  Section = "aptitude"
)

// SectionOrder is the fixed presentation order.
var SectionOrder = []Section{SectionMCQ, SectionSAQ, SectionCaseStudy, SectionAptitude}

// MCQuestion is a multiple-choice question with a single correct option
// index into Options.
type MCQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2"`
	CorrectAnswer int      `json:"correct_answer" validate:"min=0"`
	Skill         string   `json:"skill"`
	Difficulty    string   `json:"difficulty"`
	Explanation   string   `json:"explanation"`
}

// SAQuestion is a short-answer question. There is no deterministic answer
// key, only a sample answer for graders.
type SAQuestion struct {
	ID           int    `json:"id"`
	Question     string `json:"question" validate:"required"`
	SampleAnswer string `json:"sample_answer"`
	Skill        string `json:"skill"`
	Difficulty   string `json:"difficulty"`
}

// CaseStudy is a scenario with ordered sub-questions, graded as a unit.
type CaseStudy struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Scenario   string   `json:"scenario" validate:"required"`
	Questions  []string `json:"questions" validate:"required,min=1"`
	Skills     []string `json:"skills"`
	Difficulty string   `json:"difficulty"`
}

// AptitudeQuestion is a free-text question with a single expected answer,
// matched case-insensitively after trimming whitespace.
type AptitudeQuestion struct {
	ID            int    `json:"id"`
	Question      string `json:"question" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	Explanation   string `json:"explanation"`
}

// QuestionSet is the decoded form of a RoleAssessment's JSONB collections.
// Services decode into it once and pass it around instead of re-parsing.
type QuestionSet struct {
	MCQs              []MCQuestion       `json:"mcqs"`
	SAQs              []SAQuestion       `json:"saqs"`
	CaseStudy         *CaseStudy         `json:"case_study"`
	AptitudeQuestions []AptitudeQuestion `json:"aptitude_questions"`
}

// SectionSize returns the number of questions presented for a section.
// A case study counts as one question regardless of sub-question count.
func (qs *QuestionSet) SectionSize(section Section) int {
	switch section {
	case SectionMCQ:
		return len(qs.MCQs)
	case SectionSAQ:
		return len(qs.SAQs)
	case SectionCaseStudy:
		if qs.CaseStudy != nil {
			return 1
		}
		return 0
	case SectionAptitude:
		return len(qs.AptitudeQuestions)
	}
	return 0
}

// Total returns the total presented question count across all sections.
func (qs *QuestionSet) Total() int {
	total := 0
	for _, section := range SectionOrder {
		total += qs.SectionSize(section)
	}
	return total
}

// SubjectiveCount returns the number of questions that cannot be graded
// deterministically: every SAQ plus the case study if present.
func (qs *QuestionSet) SubjectiveCount() int {
	count := len(qs.SAQs)
	if qs.CaseStudy != nil {
		count++
	}
	return count
}
