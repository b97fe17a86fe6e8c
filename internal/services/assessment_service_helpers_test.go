package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

func storedAssessment(t *testing.T) *models.RoleAssessment {
	t.Helper()

	assessment := &models.RoleAssessment{
		ID:              "ra-1",
		RoleName:        "Backend Engineer",
		DifficultyLevel: models.DifficultyMedium,
		Status:          models.GenerationCompleted,
		CreatedBy:       "mentor-1",
	}

	var goMCQs []models.MCQuestion
	for i := 1; i <= 5; i++ {
		goMCQs = append(goMCQs, models.MCQuestion{
			ID: i, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "Go",
		})
	}

	var err error
	assessment.TargetSkills, err = encodeJSON([]string{"Go"})
	require.NoError(t, err)
	assessment.MCQs, err = encodeJSON(goMCQs)
	require.NoError(t, err)
	assessment.SkillCoverage, err = encodeJSON([]models.SkillCoverage{
		{SkillName: "Go", QuestionCount: 5, CoveragePercentage: 100, Quality: models.CoverageExcellent},
	})
	require.NoError(t, err)
	assessment.TotalQuestions = 5
	assessment.EstimatedDurationMinutes = 30

	return assessment
}

func TestApplyUpdate(t *testing.T) {
	t.Run("RecomputesDerivedFieldsOnBankReplace", func(t *testing.T) {
		assessment := storedAssessment(t)

		qs, err := applyUpdate(assessment, &UpdateAssessmentRequest{
			AssessmentID: assessment.ID,
			TargetSkills: []string{"Go", "Rust"},
			MCQs: []models.MCQuestion{
				{ID: 1, Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 1, Skill: "Rust"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, qs.Total())
		assert.Equal(t, 1, assessment.TotalQuestions)
		assert.Equal(t, 1, assessment.EstimatedDurationMinutes)

		var coverage []models.SkillCoverage
		require.NoError(t, decodeJSON(assessment.SkillCoverage, &coverage))
		assert.Equal(t, []models.SkillCoverage{
			{SkillName: "Go", QuestionCount: 0, CoveragePercentage: 0, Quality: models.CoverageInsufficient},
			{SkillName: "Rust", QuestionCount: 1, CoveragePercentage: 100, Quality: models.CoverageAdequate},
		}, coverage)
	})

	t.Run("MetadataOnlyUpdateKeepsBank", func(t *testing.T) {
		assessment := storedAssessment(t)
		name := "Platform Engineer"

		qs, err := applyUpdate(assessment, &UpdateAssessmentRequest{
			AssessmentID: assessment.ID,
			RoleName:     &name,
		})
		require.NoError(t, err)

		assert.Equal(t, "Platform Engineer", assessment.RoleName)
		assert.Len(t, qs.MCQs, 5)
		assert.Equal(t, 5, assessment.TotalQuestions)

		var coverage []models.SkillCoverage
		require.NoError(t, decodeJSON(assessment.SkillCoverage, &coverage))
		assert.Equal(t, []models.SkillCoverage{
			{SkillName: "Go", QuestionCount: 5, CoveragePercentage: 100, Quality: models.CoverageExcellent},
		}, coverage)
	})

	t.Run("EmptyCollectionsClearTheBank", func(t *testing.T) {
		assessment := storedAssessment(t)

		qs, err := applyUpdate(assessment, &UpdateAssessmentRequest{
			AssessmentID: assessment.ID,
			MCQs:         []models.MCQuestion{},
		})
		require.NoError(t, err)

		assert.Equal(t, 0, qs.Total())
		assert.Equal(t, 0, assessment.TotalQuestions)
		assert.Equal(t, 0, assessment.EstimatedDurationMinutes)
	})
}
