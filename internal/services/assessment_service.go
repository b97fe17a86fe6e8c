package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/cache"
	"github.com/SAP-F-2025/role-assessment-service/internal/events"
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/role-assessment-service/internal/session"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

const assessmentCacheTTL = 10 * time.Minute

type assessmentService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewAssessmentService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) AssessmentService {
	return &assessmentService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// GetByID loads an assessment, cache-aside. Assessments still generating are
// returned as-is so the client can keep polling status.
func (s *assessmentService) GetByID(ctx context.Context, id string) (*AssessmentResponse, error) {
	cacheKey := assessmentCacheKey(id)

	var cached AssessmentResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("assessment cache read failed", "assessment_id", id, "error", err)
	}

	assessment, err := s.repo.Assessments().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	response, err := toAssessmentResponse(assessment)
	if err != nil {
		return nil, err
	}

	// Only settled assessments are worth caching; generating ones change
	// shape as soon as the worker finishes.
	if assessment.Status != models.GenerationRunning {
		if err := s.cache.Set(ctx, cacheKey, response, assessmentCacheTTL); err != nil {
			s.logger.Warn("assessment cache write failed", "assessment_id", id, "error", err)
		}
	}

	return response, nil
}

// Update replaces the editable fields. Only the creator may edit, and never
// while a generation is still running.
func (s *assessmentService) Update(ctx context.Context, req *UpdateAssessmentRequest, userID string) (*AssessmentResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assessment, err := s.repo.Assessments().GetByID(ctx, req.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	if assessment.CreatedBy != userID {
		return nil, NewPermissionError(userID, req.AssessmentID, "assessment", "update", "not the creator")
	}
	if assessment.Status == models.GenerationRunning {
		return nil, ErrAssessmentNotEditable
	}

	qs, err := applyUpdate(assessment, req)
	if err != nil {
		return nil, err
	}

	// The flat taking task is derived from the question bank, so answer-key
	// edits must land there too or takers keep being graded against the old
	// keys. Rebuilt in the same transaction as the assessment write.
	var taskID *uint
	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Assessments().Update(ctx, assessment); err != nil {
			return err
		}
		if !bankProvided(req) {
			return nil
		}

		task, err := tx.Submissions().GetTaskByAssessmentID(ctx, assessment.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No task exists until a generation completes.
				return nil
			}
			return err
		}

		rebuilt := buildTaskFromQuestionSet(assessment, qs)
		task.Title = rebuilt.Title
		task.IsTimed = rebuilt.IsTimed
		task.TimeLimitMinutes = rebuilt.TimeLimitMinutes
		if err := tx.Submissions().UpdateTask(ctx, task); err != nil {
			return err
		}
		if err := tx.Submissions().ReplaceTaskQuestions(ctx, task.ID, rebuilt.Questions); err != nil {
			return err
		}
		taskID = &task.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update assessment: %w", err)
	}

	if err := s.cache.Delete(ctx, assessmentCacheKey(assessment.ID)); err != nil {
		s.logger.Warn("assessment cache invalidation failed", "assessment_id", assessment.ID, "error", err)
	}
	if taskID != nil {
		if err := s.cache.Delete(ctx, taskCacheKey(*taskID)); err != nil {
			s.logger.Warn("task cache invalidation failed", "task_id", *taskID, "error", err)
		}
	}

	s.publishEvent(ctx, events.EventAssessmentUpdated, events.AssessmentUpdatedEvent{
		AssessmentID: assessment.ID,
		UpdatedBy:    userID,
	})

	s.logger.Info("assessment updated", "assessment_id", assessment.ID, "user_id", userID)
	return toAssessmentResponse(assessment)
}

// ListByUser returns summaries of the user's assessments, newest first.
func (s *assessmentService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*AssessmentSummary, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	assessments, total, err := s.repo.Assessments().GetByCreator(ctx, userID, repositories.AssessmentFilters{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}

	summaries := make([]*AssessmentSummary, 0, len(assessments))
	for _, assessment := range assessments {
		summary, err := toAssessmentSummary(assessment)
		if err != nil {
			s.logger.Warn("skipping undecodable assessment", "assessment_id", assessment.ID, "error", err)
			continue
		}

		count, err := s.repo.Deployments().CountByAssessment(ctx, assessment.ID)
		if err == nil {
			summary.DeployedCoursesCount = int(count)
		}
		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

// Delete soft-deletes the caller's assessment and removes its deployments.
func (s *assessmentService) Delete(ctx context.Context, id string, userID string) error {
	isOwner, err := s.repo.Assessments().IsOwner(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to check ownership: %w", err)
	}
	if !isOwner {
		return NewPermissionError(userID, id, "assessment", "delete", "not the creator")
	}

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		courseIDs, err := tx.Deployments().GetDeployedCourseIDs(ctx, id)
		if err != nil {
			return err
		}
		if len(courseIDs) > 0 {
			if err := tx.Deployments().Undeploy(ctx, id, courseIDs); err != nil {
				return err
			}
		}
		return tx.Assessments().Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	if err := s.cache.Delete(ctx, assessmentCacheKey(id)); err != nil {
		s.logger.Warn("assessment cache invalidation failed", "assessment_id", id, "error", err)
	}

	s.logger.Info("assessment deleted", "assessment_id", id, "user_id", userID)
	return nil
}

// ScoreLocally grades a full answer map against the stored question set.
// Nothing is persisted; this backs the self-contained preview flow.
func (s *assessmentService) ScoreLocally(ctx context.Context, id string, req *LocalScoreRequest) (*session.Result, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assessment, err := s.repo.Assessments().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	if assessment.Status == models.GenerationRunning {
		return nil, ErrAssessmentGenerating
	}

	questions, err := decodeQuestionSet(assessment)
	if err != nil {
		return nil, err
	}

	answers, err := parseAnswerMap(req.Answers)
	if err != nil {
		return nil, NewBusinessRuleError("answer_key_format", err.Error(), nil)
	}

	result := session.Score(questions, answers, req.TimeSpentSeconds)
	return &result, nil
}

func (s *assessmentService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewAssessmentEvent(eventType, payload)
	if err := s.publisher.PublishAssessmentEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

// parseAnswerMap converts wire-form answers into typed session answers.
// MCQ values hold the selected option index, everything else free text.
func parseAnswerMap(raw map[string]string) (map[session.Key]session.Answer, error) {
	answers := make(map[session.Key]session.Answer, len(raw))
	for keyStr, value := range raw {
		key, err := session.ParseKey(keyStr)
		if err != nil {
			return nil, err
		}

		switch key.Section {
		case models.SectionMCQ:
			choice, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("answer for %q is not an option index: %w", keyStr, err)
			}
			answers[key] = session.ChoiceAnswer(choice)
		default:
			answers[key] = session.TextAnswer(value)
		}
	}
	return answers, nil
}

func assessmentCacheKey(id string) string {
	return "role_assessment:" + id
}
