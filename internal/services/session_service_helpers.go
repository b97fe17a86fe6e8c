package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/session"
)

const pendingGradingFeedback = "Provisional credit applied; awaiting manual review."

// gradingOutcome aggregates the per-question grading pass.
type gradingOutcome struct {
	totalScore   float64
	maxScore     float64
	questions    []models.QuestionResult
	graded       []*models.QuestionResponse
	skills       map[string]models.SkillResult
	pendingCount int
	correctCount int
}

// skillResults flattens the per-skill tallies into a stable, name-ordered
// slice for the result payload.
func (g gradingOutcome) skillResults() []models.SkillResult {
	results := make([]models.SkillResult, 0, len(g.skills))
	for _, tally := range g.skills {
		results = append(results, tally)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Skill < results[j].Skill
	})
	return results
}

// gradeSubmission scores every task question against the saved responses.
// Objective questions grade deterministically; subjective ones receive
// provisional credit and are flagged for manual review. Unanswered
// questions score zero.
func gradeSubmission(task *models.AssessmentTask, responses []*models.QuestionResponse) gradingOutcome {
	byQuestion := make(map[uint]*models.QuestionResponse, len(responses))
	for _, response := range responses {
		byQuestion[response.QuestionID] = response
	}

	outcome := gradingOutcome{
		questions: make([]models.QuestionResult, 0, len(task.Questions)),
		skills:    map[string]models.SkillResult{},
	}

	for _, question := range task.Questions {
		outcome.maxScore += question.MaxScore
		response := byQuestion[question.ID]

		result := models.QuestionResult{
			QuestionID:    question.ID,
			QuestionTitle: question.Title,
			MaxScore:      question.MaxScore,
		}
		if response != nil {
			result.UserResponse = response.UserResponse
			result.TimeSpentSeconds = response.TimeSpentSeconds
		}

		switch question.Kind {
		case models.QuestionObjective:
			correct := response != nil && matchesAnswerKey(&question, response.UserResponse)
			result.IsCorrect = &correct
			result.CorrectAnswer = question.AnswerKey
			if correct {
				result.Score = question.MaxScore
				result.Feedback = "Correct."
				outcome.correctCount++
			} else {
				result.Feedback = "Incorrect."
			}
			// Only deterministically graded questions feed the skill
			// tallies; subjective scores are provisional.
			if question.Skill != "" {
				tally := outcome.skills[question.Skill]
				tally.Skill = question.Skill
				tally.Total++
				if correct {
					tally.Correct++
				}
				outcome.skills[question.Skill] = tally
			}

		case models.QuestionSubjective:
			result.Score = question.MaxScore * session.SubjectiveCreditRatio
			result.Feedback = pendingGradingFeedback
			result.PendingManualGrading = true
			outcome.pendingCount++
		}

		if question.MaxScore > 0 {
			result.Percentage = result.Score / question.MaxScore * 100
		}
		outcome.totalScore += result.Score
		outcome.questions = append(outcome.questions, result)

		if response != nil {
			score := result.Score
			feedback := result.Feedback
			response.Score = &score
			response.IsCorrect = result.IsCorrect
			response.Feedback = &feedback
			outcome.graded = append(outcome.graded, response)
		}
	}

	return outcome
}

// matchesAnswerKey compares a saved response to an objective question's key.
// Choice questions compare the selected option index verbatim; free-text
// ones ignore case and surrounding whitespace.
func matchesAnswerKey(question *models.TaskQuestion, userResponse string) bool {
	if question.AnswerKey == nil {
		return false
	}
	if question.InputType == "choice" {
		return strings.TrimSpace(userResponse) == strings.TrimSpace(*question.AnswerKey)
	}
	return session.AptitudeMatch(userResponse, *question.AnswerKey)
}

func buildSubmissionResult(
	submission *models.Submission,
	task *models.AssessmentTask,
	grading gradingOutcome,
	timeSpentSeconds int,
	submittedAt time.Time,
) *models.SubmissionResult {
	// Pass/fail compares the exact ratio; only the stored percentage is
	// rounded for display.
	exact := 0.0
	if grading.maxScore > 0 {
		exact = grading.totalScore / grading.maxScore * 100
	}
	percentage := math.Round(exact*100) / 100
	passed := exact >= models.PassThreshold

	return &models.SubmissionResult{
		SubmissionID:     submission.ID,
		TaskTitle:        task.Title,
		TotalScore:       grading.totalScore,
		MaxPossibleScore: grading.maxScore,
		PercentageScore:  percentage,
		GradeLetter:      models.GradeLetter(percentage),
		Passed:           passed,
		PassThreshold:    models.PassThreshold,
		TimeSpentMinutes: math.Round(float64(timeSpentSeconds)/60*10) / 10,
		SubmittedAt:      submittedAt,
		QuestionResults:  datatypes.NewJSONType(grading.questions),
		SkillBreakdown:   datatypes.NewJSONType(grading.skillResults()),
		OverallFeedback:  overallFeedback(percentage, passed, grading.pendingCount),
	}
}

func overallFeedback(percentage float64, passed bool, pendingCount int) string {
	var b strings.Builder
	if passed {
		fmt.Fprintf(&b, "Passed with %.1f%%.", percentage)
	} else {
		fmt.Fprintf(&b, "Scored %.1f%%, below the %.0f%% pass mark.", percentage, models.PassThreshold)
	}
	if pendingCount > 0 {
		fmt.Fprintf(&b, " %d answer(s) pending manual review; the final score may change.", pendingCount)
	}
	return b.String()
}
