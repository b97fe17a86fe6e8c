package session

import (
	"math"
	"strings"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// SubjectiveCreditRatio is the provisional credit granted to questions that
// have no deterministic key (SAQs and the case study). This is a stub for
// grader-assigned scores, not real grading; results computed with it are
// marked as pending manual grading.
const SubjectiveCreditRatio = 0.7

// Result is the locally computed outcome of a sectioned session.
type Result struct {
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"total_questions"`
	CorrectAnswers int                   `json:"correct_answers"`
	Percentage     int                   `json:"percentage"`
	PassThreshold  float64               `json:"pass_threshold"`
	Passed         bool                  `json:"passed"`
	TimeSpent      int                   `json:"time_spent"`
	SkillBreakdown map[string]SkillTally `json:"skill_breakdown"`
	PendingManual  int                   `json:"pending_manual_grading"`
}

// SkillTally counts correct objective answers per skill.
type SkillTally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Score grades a sectioned session locally. MCQs are correct iff the stored
// option index strictly equals the answer key; aptitude questions iff the
// trimmed, case-folded text matches the expected answer. Subjective
// questions receive floor(count * SubjectiveCreditRatio) collectively.
func Score(qs *models.QuestionSet, answers map[Key]Answer, timeSpent int) Result {
	result := Result{
		PassThreshold:  models.PassThreshold,
		TimeSpent:      timeSpent,
		SkillBreakdown: map[string]SkillTally{},
	}
	if qs == nil {
		return result
	}

	for i, q := range qs.MCQs {
		result.TotalQuestions++
		key := Key{Section: models.SectionMCQ, QuestionID: q.ID, Index: i}
		answer, ok := answers[key]
		correct := ok && answer.Kind == AnswerChoice && answer.Choice == q.CorrectAnswer
		if correct {
			result.CorrectAnswers++
		}
		tallySkill(result.SkillBreakdown, q.Skill, correct)
	}

	for i, q := range qs.AptitudeQuestions {
		result.TotalQuestions++
		key := Key{Section: models.SectionAptitude, QuestionID: q.ID, Index: i}
		answer, ok := answers[key]
		if ok && answer.Kind == AnswerText && AptitudeMatch(answer.Text, q.CorrectAnswer) {
			result.CorrectAnswers++
		}
	}

	subjective := qs.SubjectiveCount()
	result.TotalQuestions += subjective
	result.PendingManual = subjective
	result.CorrectAnswers += int(math.Floor(float64(subjective) * SubjectiveCreditRatio))

	result.Score = result.CorrectAnswers
	if result.TotalQuestions > 0 {
		percentage := float64(result.CorrectAnswers) / float64(result.TotalQuestions) * 100
		result.Percentage = int(math.Round(percentage))
		result.Passed = percentage >= result.PassThreshold
	}
	return result
}

// AptitudeMatch compares a free-text answer against the expected one,
// ignoring case and surrounding whitespace.
func AptitudeMatch(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}

func tallySkill(breakdown map[string]SkillTally, skill string, correct bool) {
	if skill == "" {
		return
	}
	tally := breakdown[skill]
	tally.Total++
	if correct {
		tally.Correct++
	}
	breakdown[skill] = tally
}
