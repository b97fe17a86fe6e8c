package session

import (
	"testing"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func scoringQuestionSet() *models.QuestionSet {
	qs := &models.QuestionSet{
		AptitudeQuestions: []models.AptitudeQuestion{
			{ID: 1, Question: "A1", CorrectAnswer: "42"},
			{ID: 2, Question: "A2", CorrectAnswer: "Paris"},
		},
	}
	for i := 1; i <= 4; i++ {
		qs.MCQs = append(qs.MCQs, models.MCQuestion{
			ID: i, Question: "Q", Options: []string{"a", "b", "c"}, CorrectAnswer: 1, Skill: "Go",
		})
	}
	for i := 1; i <= 4; i++ {
		qs.SAQs = append(qs.SAQs, models.SAQuestion{ID: i, Question: "S"})
	}
	qs.CaseStudy = &models.CaseStudy{ID: 1, Scenario: "scenario", Questions: []string{"p1"}}
	return qs
}

func TestScore(t *testing.T) {
	t.Run("GradesObjectiveSections", func(t *testing.T) {
		qs := scoringQuestionSet()
		answers := map[Key]Answer{
			{Section: models.SectionMCQ, QuestionID: 1, Index: 0}:      ChoiceAnswer(1),
			{Section: models.SectionMCQ, QuestionID: 2, Index: 1}:      ChoiceAnswer(1),
			{Section: models.SectionMCQ, QuestionID: 3, Index: 2}:      ChoiceAnswer(0),
			{Section: models.SectionAptitude, QuestionID: 1, Index: 0}: TextAnswer("  42 "),
			{Section: models.SectionAptitude, QuestionID: 2, Index: 1}: TextAnswer("paris"),
		}

		result := Score(qs, answers, 300)

		// 4 MCQs + 2 aptitude + 5 subjective
		assert.Equal(t, 11, result.TotalQuestions)
		// 2 correct MCQs + 2 aptitude + floor(5 * 0.7) subjective credit
		assert.Equal(t, 7, result.CorrectAnswers)
		assert.Equal(t, 5, result.PendingManual)
		assert.Equal(t, 64, result.Percentage)
		assert.False(t, result.Passed)
		assert.Equal(t, 300, result.TimeSpent)
	})

	t.Run("MCQRequiresExactIndexMatch", func(t *testing.T) {
		qs := &models.QuestionSet{MCQs: []models.MCQuestion{
			{ID: 1, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 0},
		}}
		key := Key{Section: models.SectionMCQ, QuestionID: 1, Index: 0}

		result := Score(qs, map[Key]Answer{key: ChoiceAnswer(0)}, 0)
		assert.Equal(t, 1, result.CorrectAnswers)

		result = Score(qs, map[Key]Answer{key: ChoiceAnswer(1)}, 0)
		assert.Equal(t, 0, result.CorrectAnswers)

		// a text answer never matches a choice key
		result = Score(qs, map[Key]Answer{key: TextAnswer("0")}, 0)
		assert.Equal(t, 0, result.CorrectAnswers)
	})

	t.Run("PassThresholdIsInclusive", func(t *testing.T) {
		qs := &models.QuestionSet{}
		for i := 1; i <= 10; i++ {
			qs.MCQs = append(qs.MCQs, models.MCQuestion{
				ID: i, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 0,
			})
		}
		answers := map[Key]Answer{}
		for i := 0; i < 7; i++ {
			answers[Key{Section: models.SectionMCQ, QuestionID: i + 1, Index: i}] = ChoiceAnswer(0)
		}

		result := Score(qs, answers, 0)
		assert.Equal(t, 70, result.Percentage)
		assert.True(t, result.Passed)

		delete(answers, Key{Section: models.SectionMCQ, QuestionID: 7, Index: 6})
		result = Score(qs, answers, 0)
		assert.Equal(t, 60, result.Percentage)
		assert.False(t, result.Passed)
	})

	t.Run("BuildsSkillBreakdown", func(t *testing.T) {
		qs := &models.QuestionSet{MCQs: []models.MCQuestion{
			{ID: 1, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "Go"},
			{ID: 2, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "Go"},
			{ID: 3, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "SQL"},
		}}
		answers := map[Key]Answer{
			{Section: models.SectionMCQ, QuestionID: 1, Index: 0}: ChoiceAnswer(0),
			{Section: models.SectionMCQ, QuestionID: 3, Index: 2}: ChoiceAnswer(0),
		}

		result := Score(qs, answers, 0)
		assert.Equal(t, SkillTally{Correct: 1, Total: 2}, result.SkillBreakdown["Go"])
		assert.Equal(t, SkillTally{Correct: 1, Total: 1}, result.SkillBreakdown["SQL"])
	})

	t.Run("EmptySetScoresZero", func(t *testing.T) {
		result := Score(&models.QuestionSet{}, nil, 0)
		assert.Equal(t, 0, result.TotalQuestions)
		assert.Equal(t, 0, result.Percentage)
		assert.False(t, result.Passed)

		result = Score(nil, nil, 0)
		assert.Equal(t, 0, result.TotalQuestions)
	})
}

func TestAptitudeMatch(t *testing.T) {
	assert.True(t, AptitudeMatch("42", "42"))
	assert.True(t, AptitudeMatch("  Paris  ", "paris"))
	assert.True(t, AptitudeMatch("PARIS", "Paris"))
	assert.False(t, AptitudeMatch("London", "Paris"))
	assert.False(t, AptitudeMatch("", "Paris"))
}
