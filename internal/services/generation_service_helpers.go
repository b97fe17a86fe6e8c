package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// validateGenerated rejects model output that would break the taking flow:
// missing sections, out-of-range answer keys, empty option lists.
func validateGenerated(qs *models.QuestionSet) error {
	if qs.Total() == 0 {
		return ErrGenerationInvalid
	}

	for i, q := range qs.MCQs {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: mcq %d has no question text", ErrGenerationInvalid, i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: mcq %d has %d options", ErrGenerationInvalid, i, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: mcq %d answer index %d out of range", ErrGenerationInvalid, i, q.CorrectAnswer)
		}
	}

	for i, q := range qs.SAQs {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: saq %d has no question text", ErrGenerationInvalid, i)
		}
	}

	if qs.CaseStudy != nil {
		if strings.TrimSpace(qs.CaseStudy.Scenario) == "" {
			return fmt.Errorf("%w: case study has no scenario", ErrGenerationInvalid)
		}
		if len(qs.CaseStudy.Questions) == 0 {
			return fmt.Errorf("%w: case study has no sub-questions", ErrGenerationInvalid)
		}
	}

	for i, q := range qs.AptitudeQuestions {
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return fmt.Errorf("%w: aptitude question %d has no answer key", ErrGenerationInvalid, i)
		}
	}

	return nil
}

// computeSkillCoverage tallies how many questions exercise each target
// skill and grades the distribution.
func computeSkillCoverage(qs *models.QuestionSet, targetSkills []string) []models.SkillCoverage {
	counts := make(map[string]int, len(targetSkills))
	for _, skill := range targetSkills {
		counts[skill] = 0
	}

	tally := func(skill string) {
		if _, tracked := counts[skill]; tracked {
			counts[skill]++
		}
	}

	for _, q := range qs.MCQs {
		tally(q.Skill)
	}
	for _, q := range qs.SAQs {
		tally(q.Skill)
	}
	if qs.CaseStudy != nil {
		for _, skill := range qs.CaseStudy.Skills {
			tally(skill)
		}
	}

	total := qs.Total()
	coverage := make([]models.SkillCoverage, 0, len(targetSkills))
	for _, skill := range targetSkills {
		count := counts[skill]
		entry := models.SkillCoverage{
			SkillName:     skill,
			QuestionCount: count,
		}
		if total > 0 {
			entry.CoveragePercentage = float64(count) / float64(total) * 100
		}
		entry.Quality = coverageQuality(count)
		coverage = append(coverage, entry)
	}
	return coverage
}

func coverageQuality(questionCount int) string {
	switch {
	case questionCount >= 5:
		return models.CoverageExcellent
	case questionCount >= 3:
		return models.CoverageGood
	case questionCount >= 1:
		return models.CoverageAdequate
	default:
		return models.CoverageInsufficient
	}
}

// estimateDurationMinutes budgets time per question shape.
func estimateDurationMinutes(qs *models.QuestionSet) int {
	minutes := len(qs.MCQs) + len(qs.AptitudeQuestions)
	minutes += len(qs.SAQs) * 4
	if qs.CaseStudy != nil {
		minutes += 3 + len(qs.CaseStudy.Questions)*4
	}
	return minutes
}

// buildTaskFromQuestionSet flattens the sectioned question set into the
// position-ordered task the paginated taking flow runs against. Objective
// questions carry their answer key; subjective ones a sample answer.
func buildTaskFromQuestionSet(assessment *models.RoleAssessment, qs *models.QuestionSet) *models.AssessmentTask {
	timeLimit := assessment.EstimatedDurationMinutes
	task := &models.AssessmentTask{
		Title:            assessment.RoleName + " Assessment",
		Type:             "role_assessment",
		AssessmentID:     &assessment.ID,
		IsTimed:          timeLimit > 0,
		MaxAttempts:      3,
		TimeLimitMinutes: &timeLimit,
	}
	if timeLimit <= 0 {
		task.TimeLimitMinutes = nil
	}

	position := 0
	next := func() int { position++; return position }

	for _, q := range qs.MCQs {
		key := strconv.Itoa(q.CorrectAnswer)
		task.Questions = append(task.Questions, models.TaskQuestion{
			Title:     q.Question,
			Body:      strings.Join(q.Options, "\n"),
			Kind:      models.QuestionObjective,
			InputType: "choice",
			Position:  next(),
			MaxScore:  10,
			Skill:     q.Skill,
			AnswerKey: &key,
		})
	}

	for _, q := range qs.SAQs {
		sample := q.SampleAnswer
		task.Questions = append(task.Questions, models.TaskQuestion{
			Title:        q.Question,
			Kind:         models.QuestionSubjective,
			InputType:    "text",
			Position:     next(),
			MaxScore:     10,
			Skill:        q.Skill,
			SampleAnswer: &sample,
		})
	}

	if qs.CaseStudy != nil {
		skill := strings.Join(qs.CaseStudy.Skills, ", ")
		for _, sub := range qs.CaseStudy.Questions {
			task.Questions = append(task.Questions, models.TaskQuestion{
				Title:     sub,
				Body:      qs.CaseStudy.Scenario,
				Kind:      models.QuestionSubjective,
				InputType: "text",
				Position:  next(),
				MaxScore:  10,
				Skill:     skill,
			})
		}
	}

	for _, q := range qs.AptitudeQuestions {
		key := q.CorrectAnswer
		task.Questions = append(task.Questions, models.TaskQuestion{
			Title:     q.Question,
			Kind:      models.QuestionObjective,
			InputType: "text",
			Position:  next(),
			MaxScore:  10,
			AnswerKey: &key,
		})
	}

	return task
}
