package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

func strPtr(s string) *string { return &s }

func gradingTask() *models.AssessmentTask {
	return &models.AssessmentTask{
		ID:    1,
		Title: "Backend Engineer Assessment",
		Questions: []models.TaskQuestion{
			{ID: 1, Title: "MCQ", Kind: models.QuestionObjective, InputType: "choice", Position: 1, MaxScore: 10, Skill: "Go", AnswerKey: strPtr("2")},
			{ID: 2, Title: "Aptitude", Kind: models.QuestionObjective, InputType: "text", Position: 2, MaxScore: 10, Skill: "SQL", AnswerKey: strPtr("42")},
			{ID: 3, Title: "SAQ", Kind: models.QuestionSubjective, InputType: "text", Position: 3, MaxScore: 10, Skill: "Go"},
		},
	}
}

func TestGradeSubmission(t *testing.T) {
	t.Run("GradesMixedResponses", func(t *testing.T) {
		task := gradingTask()
		responses := []*models.QuestionResponse{
			{SubmissionID: 7, QuestionID: 1, UserResponse: "2"},
			{SubmissionID: 7, QuestionID: 2, UserResponse: " 42 "},
			{SubmissionID: 7, QuestionID: 3, UserResponse: "essay text"},
		}

		outcome := gradeSubmission(task, responses)

		assert.Equal(t, 30.0, outcome.maxScore)
		assert.Equal(t, 27.0, outcome.totalScore) // 10 + 10 + 10*0.7
		assert.Equal(t, 2, outcome.correctCount)
		assert.Equal(t, 1, outcome.pendingCount)
		assert.Len(t, outcome.questions, 3)
		assert.Len(t, outcome.graded, 3)

		mcq := outcome.questions[0]
		assert.NotNil(t, mcq.IsCorrect)
		assert.True(t, *mcq.IsCorrect)
		assert.Equal(t, 10.0, mcq.Score)
		assert.Equal(t, 100.0, mcq.Percentage)

		subjective := outcome.questions[2]
		assert.True(t, subjective.PendingManualGrading)
		assert.Equal(t, 7.0, subjective.Score)
		assert.Nil(t, subjective.IsCorrect)
	})

	t.Run("UnansweredQuestionsScoreZero", func(t *testing.T) {
		task := gradingTask()

		outcome := gradeSubmission(task, nil)

		assert.Equal(t, 30.0, outcome.maxScore)
		assert.Equal(t, 7.0, outcome.totalScore) // subjective placeholder only
		assert.Equal(t, 0, outcome.correctCount)
		assert.Empty(t, outcome.graded)
		assert.Len(t, outcome.questions, 3)
		assert.Equal(t, "Incorrect.", outcome.questions[0].Feedback)
	})

	t.Run("TalliesObjectiveQuestionsPerSkill", func(t *testing.T) {
		task := gradingTask()
		responses := []*models.QuestionResponse{
			{SubmissionID: 7, QuestionID: 1, UserResponse: "0"},  // Go, wrong
			{SubmissionID: 7, QuestionID: 2, UserResponse: "42"}, // SQL, correct
		}

		outcome := gradeSubmission(task, responses)

		// subjective questions carry a skill tag but their provisional
		// score never feeds the tallies
		assert.Equal(t, models.SkillResult{Skill: "Go", Correct: 0, Total: 1}, outcome.skills["Go"])
		assert.Equal(t, models.SkillResult{Skill: "SQL", Correct: 1, Total: 1}, outcome.skills["SQL"])
		assert.Len(t, outcome.skills, 2)
	})

	t.Run("WritesScoresBackToResponses", func(t *testing.T) {
		task := gradingTask()
		wrong := &models.QuestionResponse{SubmissionID: 7, QuestionID: 1, UserResponse: "0"}

		outcome := gradeSubmission(task, []*models.QuestionResponse{wrong})

		assert.Len(t, outcome.graded, 1)
		assert.NotNil(t, wrong.Score)
		assert.Equal(t, 0.0, *wrong.Score)
		assert.NotNil(t, wrong.IsCorrect)
		assert.False(t, *wrong.IsCorrect)
		assert.NotNil(t, wrong.Feedback)
	})
}

func TestMatchesAnswerKey(t *testing.T) {
	choice := &models.TaskQuestion{Kind: models.QuestionObjective, InputType: "choice", AnswerKey: strPtr("1")}
	assert.True(t, matchesAnswerKey(choice, "1"))
	assert.True(t, matchesAnswerKey(choice, " 1 "))
	assert.False(t, matchesAnswerKey(choice, "01"))
	assert.False(t, matchesAnswerKey(choice, "2"))

	text := &models.TaskQuestion{Kind: models.QuestionObjective, InputType: "text", AnswerKey: strPtr("Paris")}
	assert.True(t, matchesAnswerKey(text, "paris"))
	assert.True(t, matchesAnswerKey(text, "  PARIS "))
	assert.False(t, matchesAnswerKey(text, "London"))

	keyless := &models.TaskQuestion{Kind: models.QuestionObjective, InputType: "text"}
	assert.False(t, matchesAnswerKey(keyless, "anything"))
}

func TestBuildSubmissionResult(t *testing.T) {
	submission := &models.Submission{ID: 7}
	task := gradingTask()
	submittedAt := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("ComputesRoundedFields", func(t *testing.T) {
		grading := gradingOutcome{
			totalScore: 27,
			maxScore:   30,
			questions: []models.QuestionResult{
				{QuestionID: 1, Score: 10, MaxScore: 10},
			},
			pendingCount: 1,
		}

		result := buildSubmissionResult(submission, task, grading, 754, submittedAt)

		assert.Equal(t, uint(7), result.SubmissionID)
		assert.Equal(t, "Backend Engineer Assessment", result.TaskTitle)
		assert.Equal(t, 90.0, result.PercentageScore)
		assert.Equal(t, "A", result.GradeLetter)
		assert.True(t, result.Passed)
		assert.Equal(t, models.PassThreshold, result.PassThreshold)
		assert.Equal(t, 12.6, result.TimeSpentMinutes)
		assert.Equal(t, submittedAt, result.SubmittedAt)
		assert.Len(t, result.QuestionResults.Data(), 1)
		assert.Contains(t, result.OverallFeedback, "pending manual review")
	})

	t.Run("CarriesSkillBreakdown", func(t *testing.T) {
		generated := buildTaskFromQuestionSet(&models.RoleAssessment{ID: "ra-1", RoleName: "Backend Engineer"}, &models.QuestionSet{
			MCQs: []models.MCQuestion{
				{ID: 1, Question: "Q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "Go"},
				{ID: 2, Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: 1, Skill: "SQL"},
			},
		})
		for i := range generated.Questions {
			generated.Questions[i].ID = uint(i + 1)
		}
		responses := []*models.QuestionResponse{
			{SubmissionID: 7, QuestionID: 1, UserResponse: "0"},
			{SubmissionID: 7, QuestionID: 2, UserResponse: "1"},
		}

		result := buildSubmissionResult(submission, generated, gradeSubmission(generated, responses), 60, submittedAt)

		assert.Equal(t, []models.SkillResult{
			{Skill: "Go", Correct: 1, Total: 1},
			{Skill: "SQL", Correct: 1, Total: 1},
		}, result.SkillBreakdown.Data())
	})

	t.Run("PassComparesUnroundedRatio", func(t *testing.T) {
		// 20.999/30 is 69.9967%: displays as 70 but must not pass
		result := buildSubmissionResult(submission, task, gradingOutcome{totalScore: 20.999, maxScore: 30}, 60, submittedAt)
		assert.Equal(t, 70.0, result.PercentageScore)
		assert.False(t, result.Passed)
	})

	t.Run("PassBoundaryIsInclusive", func(t *testing.T) {
		result := buildSubmissionResult(submission, task, gradingOutcome{totalScore: 21, maxScore: 30}, 60, submittedAt)
		assert.Equal(t, 70.0, result.PercentageScore)
		assert.True(t, result.Passed)
		assert.Equal(t, "C", result.GradeLetter)

		result = buildSubmissionResult(submission, task, gradingOutcome{totalScore: 20.9, maxScore: 30}, 60, submittedAt)
		assert.Equal(t, 69.67, result.PercentageScore)
		assert.False(t, result.Passed)
		assert.Contains(t, result.OverallFeedback, "below the 70% pass mark")
	})

	t.Run("EmptyTaskScoresZero", func(t *testing.T) {
		result := buildSubmissionResult(submission, task, gradingOutcome{}, 0, submittedAt)
		assert.Equal(t, 0.0, result.PercentageScore)
		assert.False(t, result.Passed)
		assert.Equal(t, "F", result.GradeLetter)
	})
}
