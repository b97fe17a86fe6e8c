package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/cache"
	"github.com/SAP-F-2025/role-assessment-service/internal/events"
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

const (
	taskCacheTTL     = 10 * time.Minute
	expiredSweepSize = 100
)

type sessionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewSessionService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) SessionService {
	return &sessionService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Start opens a submission for the task, or resumes the user's in-progress
// one. Resuming replays every saved answer so the client can rebuild its
// local state; the countdown continues from the original start time.
func (s *sessionService) Start(ctx context.Context, req *StartAssessmentRequest, userID string) (*StartAssessmentResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	task, err := s.loadTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.Submissions().GetActiveSubmission(ctx, userID, req.TaskID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up active submission: %w", err)
	}

	if active != nil {
		if s.isExpired(active, task) {
			// The deadline passed while the user was away. Close it out and
			// fall through to attempt accounting for a fresh start.
			if _, err := s.finalizeSubmission(ctx, active, task, models.EndReasonTimeout); err != nil {
				s.logger.Error("failed to finalize expired submission",
					"submission_id", active.ID, "error", err)
			}
		} else {
			return s.resumeResponse(ctx, active, task)
		}
	}

	attempts, err := s.repo.Submissions().CountAttempts(ctx, userID, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if attempts >= task.MaxAttempts {
		return nil, ErrAttemptLimitExceeded
	}

	submission := &models.Submission{
		UserID:        userID,
		TaskID:        req.TaskID,
		CohortID:      req.CohortID,
		CourseID:      req.CourseID,
		StartedAt:     time.Now(),
		Status:        models.SubmissionInProgress,
		AttemptNumber: attempts + 1,
	}
	if err := s.repo.Submissions().CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.publishEvent(ctx, events.EventSubmissionStarted, events.SubmissionStartedEvent{
		SubmissionID:  submission.ID,
		TaskID:        task.ID,
		UserID:        userID,
		AttemptNumber: submission.AttemptNumber,
		StartedAt:     submission.StartedAt,
	})

	s.logger.Info("submission started",
		"submission_id", submission.ID, "task_id", task.ID, "user_id", userID, "attempt", submission.AttemptNumber)

	return &StartAssessmentResponse{
		SubmissionID:     submission.ID,
		AttemptNumber:    submission.AttemptNumber,
		StartedAt:        submission.StartedAt,
		Task:             task,
		SavedAnswers:     []SavedAnswer{},
		RemainingSeconds: s.remainingSeconds(submission, task),
	}, nil
}

// SubmitAnswer saves the latest answer for one question. Saves are
// idempotent per (submission, question); a stale duplicate simply rewrites
// the same row.
func (s *sessionService) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest, userID string) (*SubmitAnswerResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.loadSubmission(ctx, req.SubmissionID, userID)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionInProgress {
		return nil, ErrSubmissionNotActive
	}

	task, err := s.loadTask(ctx, submission.TaskID)
	if err != nil {
		return nil, err
	}

	if s.isExpired(submission, task) {
		if _, err := s.finalizeSubmission(ctx, submission, task, models.EndReasonTimeout); err != nil {
			s.logger.Error("failed to finalize expired submission",
				"submission_id", submission.ID, "error", err)
		}
		return nil, ErrSubmissionTimeExpired
	}

	if !taskHasQuestion(task, req.QuestionID) {
		return nil, ErrQuestionNotInTask
	}

	response := &models.QuestionResponse{
		SubmissionID:     req.SubmissionID,
		QuestionID:       req.QuestionID,
		UserResponse:     req.Answer,
		ResponseType:     req.ResponseType,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if err := s.repo.Submissions().UpsertResponse(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	return &SubmitAnswerResponse{
		SubmissionID:     req.SubmissionID,
		QuestionID:       req.QuestionID,
		SavedAt:          time.Now(),
		RemainingSeconds: s.remainingSeconds(submission, task),
	}, nil
}

// Finalize grades and closes a submission. It runs exactly once per
// submission; repeated calls surface the conflict instead of regrading.
func (s *sessionService) Finalize(ctx context.Context, submissionID uint, userID string, reason models.EndReason) (*models.SubmissionResult, error) {
	submission, err := s.loadSubmission(ctx, submissionID, userID)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.SubmissionInProgress {
		return nil, ErrSubmissionAlreadyFinal
	}

	task, err := s.loadTask(ctx, submission.TaskID)
	if err != nil {
		return nil, err
	}

	// A finalize that arrives after the deadline still closes the
	// submission, but is recorded as a timeout.
	if reason == models.EndReasonUser && s.isExpired(submission, task) {
		reason = models.EndReasonTimeout
	}

	return s.finalizeSubmission(ctx, submission, task, reason)
}

// GetResults returns the write-once grading outcome.
func (s *sessionService) GetResults(ctx context.Context, submissionID uint, userID string) (*models.SubmissionResult, error) {
	submission, err := s.loadSubmission(ctx, submissionID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.Submissions().GetResult(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if submission.Status == models.SubmissionInProgress {
				return nil, ErrResultNotReady
			}
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return result, nil
}

// SweepExpired closes every in-progress submission whose deadline has
// passed. Failures are logged and retried on the next sweep.
func (s *sessionService) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.Submissions().GetExpiredSubmissions(ctx, time.Now(), expiredSweepSize)
	if err != nil {
		return 0, fmt.Errorf("failed to query expired submissions: %w", err)
	}

	closed := 0
	for _, submission := range expired {
		task, err := s.loadTask(ctx, submission.TaskID)
		if err != nil {
			s.logger.Error("sweep: failed to load task",
				"submission_id", submission.ID, "task_id", submission.TaskID, "error", err)
			continue
		}
		if _, err := s.finalizeSubmission(ctx, submission, task, models.EndReasonTimeout); err != nil {
			s.logger.Error("sweep: failed to finalize submission",
				"submission_id", submission.ID, "error", err)
			continue
		}
		closed++
	}

	if closed > 0 {
		s.logger.Info("expired submissions closed", "count", closed)
	}
	return closed, nil
}

// ===== INTERNALS =====

// finalizeSubmission grades the responses, persists the outcome and flips
// the submission to graded inside one transaction.
func (s *sessionService) finalizeSubmission(
	ctx context.Context,
	submission *models.Submission,
	task *models.AssessmentTask,
	reason models.EndReason,
) (*models.SubmissionResult, error) {
	responses, err := s.repo.Submissions().GetResponses(ctx, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	now := time.Now()
	grading := gradeSubmission(task, responses)

	timeSpent := int(now.Sub(submission.StartedAt).Seconds())
	if task.IsTimed && task.TimeLimitMinutes != nil {
		limit := *task.TimeLimitMinutes * 60
		if reason == models.EndReasonTimeout || timeSpent > limit {
			timeSpent = limit
		}
	}

	result := buildSubmissionResult(submission, task, grading, timeSpent, now)

	endReason := reason
	submission.SubmittedAt = &now
	submission.TimeSpentSeconds = timeSpent
	submission.TotalScore = grading.totalScore
	submission.MaxPossibleScore = grading.maxScore
	submission.PercentageScore = result.PercentageScore
	submission.Status = models.SubmissionGraded
	submission.EndReason = &endReason
	submission.IsFinalSubmission = submission.AttemptNumber >= task.MaxAttempts

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Submissions().UpdateSubmission(ctx, submission); err != nil {
			return err
		}
		if len(grading.graded) > 0 {
			if err := tx.Submissions().GradeResponses(ctx, grading.graded); err != nil {
				return err
			}
		}
		return tx.Submissions().CreateResult(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize submission: %w", err)
	}

	eventType := events.EventSubmissionFinalized
	if reason == models.EndReasonTimeout {
		eventType = events.EventSubmissionTimedOut
	}
	s.publishEvent(ctx, eventType, events.SubmissionFinalizedEvent{
		SubmissionID:    submission.ID,
		TaskID:          task.ID,
		UserID:          submission.UserID,
		SubmittedAt:     now,
		TotalScore:      grading.totalScore,
		PercentageScore: result.PercentageScore,
		Passed:          result.Passed,
		TimedOut:        reason == models.EndReasonTimeout,
	})

	s.logger.Info("submission finalized",
		"submission_id", submission.ID, "user_id", submission.UserID,
		"percentage", result.PercentageScore, "passed", result.Passed, "end_reason", reason)

	return result, nil
}

func (s *sessionService) resumeResponse(ctx context.Context, submission *models.Submission, task *models.AssessmentTask) (*StartAssessmentResponse, error) {
	responses, err := s.repo.Submissions().GetResponses(ctx, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved answers: %w", err)
	}

	saved := make([]SavedAnswer, 0, len(responses))
	for _, response := range responses {
		saved = append(saved, SavedAnswer{
			QuestionID:   response.QuestionID,
			UserResponse: response.UserResponse,
			ResponseType: response.ResponseType,
		})
	}

	s.logger.Info("submission resumed",
		"submission_id", submission.ID, "user_id", submission.UserID, "saved_answers", len(saved))

	return &StartAssessmentResponse{
		SubmissionID:     submission.ID,
		AttemptNumber:    submission.AttemptNumber,
		StartedAt:        submission.StartedAt,
		Task:             task,
		SavedAnswers:     saved,
		RemainingSeconds: s.remainingSeconds(submission, task),
		Resumed:          true,
	}, nil
}

// loadTask is cache-aside: answer saving hits it on every request and the
// question list is immutable once generated.
func (s *sessionService) loadTask(ctx context.Context, taskID uint) (*models.AssessmentTask, error) {
	cacheKey := taskCacheKey(taskID)

	var cached models.AssessmentTask
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("task cache read failed", "task_id", taskID, "error", err)
	}

	task, err := s.repo.Submissions().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, task, taskCacheTTL); err != nil {
		s.logger.Warn("task cache write failed", "task_id", taskID, "error", err)
	}
	return task, nil
}

func (s *sessionService) loadSubmission(ctx context.Context, submissionID uint, userID string) (*models.Submission, error) {
	submission, err := s.repo.Submissions().GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission.UserID != userID {
		return nil, ErrSubmissionAccessDenied
	}
	return submission, nil
}

func (s *sessionService) isExpired(submission *models.Submission, task *models.AssessmentTask) bool {
	deadline := submission.Deadline(task)
	return deadline != nil && time.Now().After(*deadline)
}

// remainingSeconds returns the countdown value, or nil for untimed tasks.
// Never negative; an expired submission reports zero.
func (s *sessionService) remainingSeconds(submission *models.Submission, task *models.AssessmentTask) *int {
	deadline := submission.Deadline(task)
	if deadline == nil {
		return nil
	}
	remaining := int(time.Until(*deadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

func (s *sessionService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewAssessmentEvent(eventType, payload)
	if err := s.publisher.PublishAssessmentEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

func taskHasQuestion(task *models.AssessmentTask, questionID uint) bool {
	for _, question := range task.Questions {
		if question.ID == questionID {
			return true
		}
	}
	return false
}

func taskCacheKey(taskID uint) string {
	return fmt.Sprintf("assessment_task:%d", taskID)
}
