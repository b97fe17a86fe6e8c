package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/cache"
	"github.com/SAP-F-2025/role-assessment-service/internal/events"
	"github.com/SAP-F-2025/role-assessment-service/internal/llm"
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

const (
	generationProgressTTL = time.Hour
	generationTimeout     = 5 * time.Minute
)

// GenerationProgress is the fast-moving generation state kept in the cache
// while a worker runs. Only the terminal status lands in the database.
type GenerationProgress struct {
	Status                     models.GenerationStatus `json:"status"`
	ProgressPercentage         int                     `json:"progress_percentage"`
	CurrentStep                string                  `json:"current_step"`
	EstimatedCompletionSeconds int                     `json:"estimated_completion_seconds"`
	ErrorMessage               *string                 `json:"error_message,omitempty"`
	UpdatedAt                  time.Time               `json:"updated_at"`
}

type generationService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	provider  llm.Provider
	logger    *slog.Logger
	validator *utils.Validator
}

func NewGenerationService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	provider llm.Provider,
	logger *slog.Logger,
	validator *utils.Validator,
) GenerationService {
	return &generationService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		provider:  llm.WithRetry(provider, llm.DefaultRetryConfig),
		logger:    logger,
		validator: validator,
	}
}

// Generate creates the assessment record and hands the heavy work to a
// background worker. The returned id is immediately pollable via GetStatus.
func (s *generationService) Generate(ctx context.Context, req *GenerateAssessmentRequest, userID string) (*GenerateAssessmentResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	skills, err := encodeJSON(req.Skills)
	if err != nil {
		return nil, err
	}

	assessment := &models.RoleAssessment{
		ID:              uuid.NewString(),
		RoleName:        req.Role,
		TargetSkills:    skills,
		DifficultyLevel: req.Difficulty,
		Status:          models.GenerationRunning,
		CreatedBy:       userID,
	}

	if err := s.repo.Assessments().Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment record: %w", err)
	}

	s.setProgress(ctx, assessment.ID, GenerationProgress{
		Status:                     models.GenerationRunning,
		ProgressPercentage:         5,
		CurrentStep:                "Analyzing role requirements",
		EstimatedCompletionSeconds: 60,
	})

	s.publishEvent(ctx, events.EventGenerationStarted, events.GenerationStartedEvent{
		AssessmentID: assessment.ID,
		RoleName:     req.Role,
		TargetSkills: req.Skills,
		Difficulty:   string(req.Difficulty),
		CreatedBy:    userID,
	})

	s.logger.Info("assessment generation started",
		"assessment_id", assessment.ID, "role", req.Role, "difficulty", req.Difficulty, "model", s.provider.ModelID())

	go s.runGeneration(assessment.ID, req)

	return &GenerateAssessmentResponse{
		AssessmentID: assessment.ID,
		Status:       models.GenerationRunning,
		Message:      "Assessment generation started",
	}, nil
}

// GetStatus reads the live cache entry while a worker runs and falls back to
// the persisted terminal status afterwards.
func (s *generationService) GetStatus(ctx context.Context, id string) (*GenerationStatusResponse, error) {
	var progress GenerationProgress
	err := s.cache.Get(ctx, generationProgressKey(id), &progress)
	if err == nil {
		return &GenerationStatusResponse{
			AssessmentID:               id,
			Status:                     progress.Status,
			ProgressPercentage:         progress.ProgressPercentage,
			CurrentStep:                progress.CurrentStep,
			EstimatedCompletionSeconds: progress.EstimatedCompletionSeconds,
			ErrorMessage:               progress.ErrorMessage,
		}, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("generation progress read failed", "assessment_id", id, "error", err)
	}

	assessment, err := s.repo.Assessments().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	response := &GenerationStatusResponse{
		AssessmentID: id,
		Status:       assessment.Status,
		ErrorMessage: assessment.ErrorMessage,
	}
	switch assessment.Status {
	case models.GenerationCompleted:
		response.ProgressPercentage = 100
		response.CurrentStep = "Completed"
	case models.GenerationFailed:
		response.CurrentStep = "Failed"
	default:
		// Cache entry expired mid-generation; report a conservative midpoint.
		response.ProgressPercentage = 50
		response.CurrentStep = "Generating questions"
		response.EstimatedCompletionSeconds = 30
	}
	return response, nil
}

// runGeneration is the background worker for one assessment. It owns its
// own context since the originating request has already returned.
func (s *generationService) runGeneration(assessmentID string, req *GenerateAssessmentRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	started := time.Now()

	s.setProgress(ctx, assessmentID, GenerationProgress{
		Status:                     models.GenerationRunning,
		ProgressPercentage:         20,
		CurrentStep:                "Generating questions",
		EstimatedCompletionSeconds: 45,
	})

	raw, err := s.provider.Generate(ctx, llm.Request{
		System:      generationSystemPrompt,
		Prompt:      buildGenerationPrompt(req),
		MaxTokens:   8192,
		Temperature: 0.7,
		SchemaName:  "role_assessment",
		Schema:      generationSchema(),
	})
	if err != nil {
		s.failGeneration(ctx, assessmentID, req.Role, fmt.Errorf("model generation failed: %w", err))
		return
	}

	s.setProgress(ctx, assessmentID, GenerationProgress{
		Status:                     models.GenerationRunning,
		ProgressPercentage:         70,
		CurrentStep:                "Validating generated questions",
		EstimatedCompletionSeconds: 15,
	})

	var qs models.QuestionSet
	if err := json.Unmarshal(raw, &qs); err != nil {
		s.failGeneration(ctx, assessmentID, req.Role, fmt.Errorf("model returned malformed payload: %w", err))
		return
	}
	if err := validateGenerated(&qs); err != nil {
		s.failGeneration(ctx, assessmentID, req.Role, err)
		return
	}

	s.setProgress(ctx, assessmentID, GenerationProgress{
		Status:                     models.GenerationRunning,
		ProgressPercentage:         85,
		CurrentStep:                "Computing skill coverage",
		EstimatedCompletionSeconds: 5,
	})

	coverage := computeSkillCoverage(&qs, req.Skills)
	duration := estimateDurationMinutes(&qs)

	if err := s.persistGenerated(ctx, assessmentID, &qs, coverage, duration); err != nil {
		s.failGeneration(ctx, assessmentID, req.Role, err)
		return
	}

	s.setProgress(ctx, assessmentID, GenerationProgress{
		Status:             models.GenerationCompleted,
		ProgressPercentage: 100,
		CurrentStep:        "Completed",
	})

	s.publishEvent(ctx, events.EventGenerationCompleted, events.GenerationCompletedEvent{
		AssessmentID:   assessmentID,
		RoleName:       req.Role,
		TotalQuestions: qs.Total(),
		DurationMs:     time.Since(started).Milliseconds(),
	})

	s.logger.Info("assessment generation completed",
		"assessment_id", assessmentID, "total_questions", qs.Total(), "duration_ms", time.Since(started).Milliseconds())
}

// persistGenerated writes the question set, the derived fields and the flat
// taking task in one transaction.
func (s *generationService) persistGenerated(
	ctx context.Context,
	assessmentID string,
	qs *models.QuestionSet,
	coverage []models.SkillCoverage,
	durationMinutes int,
) error {
	return s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		assessment, err := tx.Assessments().GetByID(ctx, assessmentID)
		if err != nil {
			return fmt.Errorf("failed to reload assessment: %w", err)
		}

		if assessment.MCQs, err = encodeJSON(qs.MCQs); err != nil {
			return err
		}
		if assessment.SAQs, err = encodeJSON(qs.SAQs); err != nil {
			return err
		}
		if assessment.CaseStudy, err = encodeJSON(qs.CaseStudy); err != nil {
			return err
		}
		if assessment.AptitudeQuestions, err = encodeJSON(qs.AptitudeQuestions); err != nil {
			return err
		}
		if assessment.SkillCoverage, err = encodeJSON(coverage); err != nil {
			return err
		}
		assessment.TotalQuestions = qs.Total()
		assessment.EstimatedDurationMinutes = durationMinutes

		if err := tx.Assessments().Update(ctx, assessment); err != nil {
			return fmt.Errorf("failed to persist generated questions: %w", err)
		}
		if err := tx.Assessments().UpdateStatus(ctx, assessmentID, models.GenerationCompleted, nil); err != nil {
			return fmt.Errorf("failed to mark generation completed: %w", err)
		}

		task := buildTaskFromQuestionSet(assessment, qs)
		if err := tx.Submissions().CreateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to create assessment task: %w", err)
		}
		return nil
	})
}

func (s *generationService) failGeneration(ctx context.Context, assessmentID, roleName string, cause error) {
	s.logger.Error("assessment generation failed", "assessment_id", assessmentID, "error", cause)

	message := cause.Error()
	if err := s.repo.Assessments().UpdateStatus(ctx, assessmentID, models.GenerationFailed, &message); err != nil {
		s.logger.Error("failed to persist generation failure", "assessment_id", assessmentID, "error", err)
	}

	s.setProgress(ctx, assessmentID, GenerationProgress{
		Status:       models.GenerationFailed,
		CurrentStep:  "Failed",
		ErrorMessage: &message,
	})

	s.publishEvent(ctx, events.EventGenerationFailed, events.GenerationFailedEvent{
		AssessmentID: assessmentID,
		RoleName:     roleName,
		Error:        message,
	})
}

func (s *generationService) setProgress(ctx context.Context, assessmentID string, progress GenerationProgress) {
	progress.UpdatedAt = time.Now()
	if err := s.cache.Set(ctx, generationProgressKey(assessmentID), progress, generationProgressTTL); err != nil {
		s.logger.Warn("generation progress write failed", "assessment_id", assessmentID, "error", err)
	}
}

func (s *generationService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewAssessmentEvent(eventType, payload)
	if err := s.publisher.PublishAssessmentEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

func generationProgressKey(id string) string {
	return "generation_progress:" + id
}
