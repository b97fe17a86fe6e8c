package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// ===== TASK OPERATIONS =====

func (s *SubmissionPostgreSQL) CreateTask(ctx context.Context, task *models.AssessmentTask) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create assessment task: %w", err)
	}
	return nil
}

// GetTaskByID retrieves a task with its questions in presentation order.
func (s *SubmissionPostgreSQL) GetTaskByID(ctx context.Context, id uint) (*models.AssessmentTask, error) {
	var task models.AssessmentTask
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&task, id).Error
	if err != nil {
		return nil, err
	}

	task.TotalQuestions = len(task.Questions)
	return &task, nil
}

func (s *SubmissionPostgreSQL) GetTaskByAssessmentID(ctx context.Context, assessmentID string) (*models.AssessmentTask, error) {
	var task models.AssessmentTask
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("assessment_id = ?", assessmentID).
		First(&task).Error
	if err != nil {
		return nil, err
	}

	task.TotalQuestions = len(task.Questions)
	return &task, nil
}

func (s *SubmissionPostgreSQL) UpdateTask(ctx context.Context, task *models.AssessmentTask) error {
	result := s.db.WithContext(ctx).
		Model(&models.AssessmentTask{}).
		Where("id = ?", task.ID).
		Select("title", "is_timed", "time_limit_minutes").
		Updates(task)
	if result.Error != nil {
		return fmt.Errorf("failed to update assessment task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceTaskQuestions deletes the task's questions and inserts the new
// list. Response rows referencing the old question ids stay behind for
// already-finalized submissions.
func (s *SubmissionPostgreSQL) ReplaceTaskQuestions(ctx context.Context, taskID uint, questions []models.TaskQuestion) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to clear task questions: %w", err)
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].TaskID = taskID
		}
		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("failed to insert task questions: %w", err)
		}
		return nil
	})
}

// ===== SUBMISSION OPERATIONS =====

func (s *SubmissionPostgreSQL) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetSubmissionByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.WithContext(ctx).
		Preload("Responses").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) UpdateSubmission(ctx context.Context, submission *models.Submission) error {
	result := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", submission.ID).
		Select("submitted_at", "time_spent_seconds", "total_score",
			"max_possible_score", "percentage_score", "status",
			"is_final_submission", "end_reason").
		Updates(submission)
	if result.Error != nil {
		return fmt.Errorf("failed to update submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetActiveSubmission returns the user's in-progress submission for a task,
// or gorm.ErrRecordNotFound when none exists.
func (s *SubmissionPostgreSQL) GetActiveSubmission(ctx context.Context, userID string, taskID uint) (*models.Submission, error) {
	var submission models.Submission
	err := s.db.WithContext(ctx).
		Preload("Responses").
		Where("user_id = ? AND task_id = ? AND status = ?", userID, taskID, models.SubmissionInProgress).
		Order("started_at DESC").
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) CountAttempts(ctx context.Context, userID string, taskID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return int(count), nil
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	countQuery := s.db.WithContext(ctx).Model(&models.Submission{})
	countQuery = s.applyCountFilters(countQuery, filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := s.db.WithContext(ctx).Model(&models.Submission{}).Order("created_at DESC")
	query = s.helpers.ApplySubmissionFilters(query, filters)
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

// ===== RESPONSE OPERATIONS =====

// UpsertResponse writes the latest answer for one question. Conflicts on
// (submission_id, question_id) update in place, so repeated autosaves of the
// same question collapse to a single row.
func (s *SubmissionPostgreSQL) UpsertResponse(ctx context.Context, response *models.QuestionResponse) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "submission_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_response", "response_type", "time_spent_seconds", "updated_at",
			}),
		}).
		Create(response).Error
	if err != nil {
		return fmt.Errorf("failed to upsert question response: %w", err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetResponses(ctx context.Context, submissionID uint) ([]*models.QuestionResponse, error) {
	var responses []*models.QuestionResponse
	err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("question_id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get question responses: %w", err)
	}
	return responses, nil
}

// GradeResponses persists the grading fields set at finalize.
func (s *SubmissionPostgreSQL) GradeResponses(ctx context.Context, responses []*models.QuestionResponse) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, response := range responses {
			err := tx.Model(&models.QuestionResponse{}).
				Where("id = ?", response.ID).
				Updates(map[string]interface{}{
					"score":      response.Score,
					"is_correct": response.IsCorrect,
					"feedback":   response.Feedback,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to grade response %d: %w", response.ID, err)
			}
		}
		return nil
	})
}

// ===== RESULT OPERATIONS =====

func (s *SubmissionPostgreSQL) CreateResult(ctx context.Context, result *models.SubmissionResult) error {
	if err := s.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create submission result: %w", err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetResult(ctx context.Context, submissionID uint) (*models.SubmissionResult, error) {
	var result models.SubmissionResult
	err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ===== SWEEPER SUPPORT =====

// GetExpiredSubmissions finds in-progress submissions on timed tasks whose
// deadline has passed. The deadline is computed in SQL from the task's time
// limit so the sweep stays a single query.
func (s *SubmissionPostgreSQL) GetExpiredSubmissions(ctx context.Context, now time.Time, limit int) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := s.db.WithContext(ctx).
		Joins("JOIN assessment_tasks ON assessment_tasks.id = assessment_submissions.task_id").
		Where("assessment_submissions.status = ?", models.SubmissionInProgress).
		Where("assessment_tasks.is_timed = ?", true).
		Where("assessment_tasks.time_limit_minutes IS NOT NULL").
		Where("assessment_submissions.started_at + (assessment_tasks.time_limit_minutes * interval '1 minute') < ?", now).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expired submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) applyCountFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.TaskID != nil {
		query = query.Where("task_id = ?", *filters.TaskID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
