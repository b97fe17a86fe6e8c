package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

func generatedQuestionSet() *models.QuestionSet {
	return &models.QuestionSet{
		MCQs: []models.MCQuestion{
			{ID: 1, Question: "Q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 0, Skill: "Go"},
			{ID: 2, Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: 1, Skill: "Go"},
			{ID: 3, Question: "Q3", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "SQL"},
		},
		SAQs: []models.SAQuestion{
			{ID: 1, Question: "S1", SampleAnswer: "sample", Skill: "Go"},
		},
		CaseStudy: &models.CaseStudy{
			ID: 1, Title: "Outage", Scenario: "The service is down.",
			Questions: []string{"What do you check first?", "How do you prevent it?"},
			Skills:    []string{"SQL"},
		},
		AptitudeQuestions: []models.AptitudeQuestion{
			{ID: 1, Question: "A1", CorrectAnswer: "42"},
		},
	}
}

func TestValidateGenerated(t *testing.T) {
	t.Run("AcceptsWellFormedSet", func(t *testing.T) {
		assert.NoError(t, validateGenerated(generatedQuestionSet()))
	})

	t.Run("RejectsEmptySet", func(t *testing.T) {
		err := validateGenerated(&models.QuestionSet{})
		assert.ErrorIs(t, err, ErrGenerationInvalid)
	})

	t.Run("RejectsAnswerIndexOutOfRange", func(t *testing.T) {
		qs := generatedQuestionSet()
		qs.MCQs[0].CorrectAnswer = 3
		assert.ErrorIs(t, validateGenerated(qs), ErrGenerationInvalid)

		qs.MCQs[0].CorrectAnswer = -1
		assert.ErrorIs(t, validateGenerated(qs), ErrGenerationInvalid)
	})

	t.Run("RejectsTooFewOptions", func(t *testing.T) {
		qs := generatedQuestionSet()
		qs.MCQs[1].Options = []string{"only"}
		qs.MCQs[1].CorrectAnswer = 0
		assert.ErrorIs(t, validateGenerated(qs), ErrGenerationInvalid)
	})

	t.Run("RejectsBlankQuestionText", func(t *testing.T) {
		qs := generatedQuestionSet()
		qs.SAQs[0].Question = "   "
		assert.ErrorIs(t, validateGenerated(qs), ErrGenerationInvalid)
	})

	t.Run("RejectsCaseStudyWithoutSubQuestions", func(t *testing.T) {
		qs := generatedQuestionSet()
		qs.CaseStudy.Questions = nil
		assert.ErrorIs(t, validateGenerated(qs), ErrGenerationInvalid)
	})

	t.Run("RejectsAptitudeWithoutAnswerKey", func(t *testing.T) {
		qs := generatedQuestionSet()
		qs.AptitudeQuestions[0].CorrectAnswer = ""
		assert.ErrorIs(t, validateGenerated(qs), ErrGenerationInvalid)
	})
}

func TestComputeSkillCoverage(t *testing.T) {
	qs := generatedQuestionSet()
	coverage := computeSkillCoverage(qs, []string{"Go", "SQL", "Kubernetes"})

	assert.Len(t, coverage, 3)

	goCov := coverage[0]
	assert.Equal(t, "Go", goCov.SkillName)
	assert.Equal(t, 3, goCov.QuestionCount)
	assert.Equal(t, models.CoverageGood, goCov.Quality)
	// 3 of 6 presented questions
	assert.InDelta(t, 50.0, goCov.CoveragePercentage, 0.001)

	sqlCov := coverage[1]
	assert.Equal(t, 2, sqlCov.QuestionCount)
	assert.Equal(t, models.CoverageAdequate, sqlCov.Quality)

	missing := coverage[2]
	assert.Equal(t, 0, missing.QuestionCount)
	assert.Equal(t, models.CoverageInsufficient, missing.Quality)
}

func TestCoverageQuality(t *testing.T) {
	assert.Equal(t, models.CoverageExcellent, coverageQuality(5))
	assert.Equal(t, models.CoverageGood, coverageQuality(3))
	assert.Equal(t, models.CoverageAdequate, coverageQuality(1))
	assert.Equal(t, models.CoverageInsufficient, coverageQuality(0))
}

func TestEstimateDurationMinutes(t *testing.T) {
	// 3 MCQs + 1 aptitude = 4, 1 SAQ = 4, case study 3 + 2*4 = 11
	assert.Equal(t, 19, estimateDurationMinutes(generatedQuestionSet()))
	assert.Equal(t, 0, estimateDurationMinutes(&models.QuestionSet{}))
}

func TestBuildTaskFromQuestionSet(t *testing.T) {
	assessment := &models.RoleAssessment{
		ID:                       "ra-1",
		RoleName:                 "Backend Engineer",
		EstimatedDurationMinutes: 19,
	}
	qs := generatedQuestionSet()

	task := buildTaskFromQuestionSet(assessment, qs)

	assert.Equal(t, "Backend Engineer Assessment", task.Title)
	assert.Equal(t, "role_assessment", task.Type)
	assert.Equal(t, "ra-1", *task.AssessmentID)
	assert.True(t, task.IsTimed)
	assert.Equal(t, 19, *task.TimeLimitMinutes)
	assert.Equal(t, 3, task.MaxAttempts)

	// 3 MCQs + 1 SAQ + 2 case study sub-questions + 1 aptitude
	assert.Len(t, task.Questions, 7)
	for i, q := range task.Questions {
		assert.Equal(t, i+1, q.Position)
		assert.Equal(t, 10.0, q.MaxScore)
	}

	mcq := task.Questions[0]
	assert.Equal(t, models.QuestionObjective, mcq.Kind)
	assert.Equal(t, "choice", mcq.InputType)
	assert.Equal(t, "0", *mcq.AnswerKey)
	assert.Equal(t, "a\nb\nc", mcq.Body)
	assert.Equal(t, "Go", mcq.Skill)

	saq := task.Questions[3]
	assert.Equal(t, models.QuestionSubjective, saq.Kind)
	assert.Nil(t, saq.AnswerKey)
	assert.Equal(t, "sample", *saq.SampleAnswer)
	assert.Equal(t, "Go", saq.Skill)

	caseSub := task.Questions[4]
	assert.Equal(t, models.QuestionSubjective, caseSub.Kind)
	assert.Equal(t, "What do you check first?", caseSub.Title)
	assert.Equal(t, "The service is down.", caseSub.Body)
	assert.Equal(t, "SQL", caseSub.Skill)

	aptitude := task.Questions[6]
	assert.Equal(t, models.QuestionObjective, aptitude.Kind)
	assert.Equal(t, "text", aptitude.InputType)
	assert.Equal(t, "42", *aptitude.AnswerKey)
}

func TestBuildTaskFromQuestionSetUntimed(t *testing.T) {
	assessment := &models.RoleAssessment{ID: "ra-2", RoleName: "Analyst"}
	task := buildTaskFromQuestionSet(assessment, &models.QuestionSet{})

	assert.False(t, task.IsTimed)
	assert.Nil(t, task.TimeLimitMinutes)
	assert.Empty(t, task.Questions)
}
