package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// SubmissionRepository interface for taking-flow persistence: tasks,
// submissions, per-question responses and final results.
type SubmissionRepository interface {
	// Task operations
	CreateTask(ctx context.Context, task *models.AssessmentTask) error
	GetTaskByID(ctx context.Context, id uint) (*models.AssessmentTask, error) // Includes ordered questions
	GetTaskByAssessmentID(ctx context.Context, assessmentID string) (*models.AssessmentTask, error)
	UpdateTask(ctx context.Context, task *models.AssessmentTask) error
	// ReplaceTaskQuestions swaps a task's question list wholesale, used when
	// the backing assessment is edited.
	ReplaceTaskQuestions(ctx context.Context, taskID uint, questions []models.TaskQuestion) error

	// Submission operations
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	GetSubmissionByID(ctx context.Context, id uint) (*models.Submission, error)
	UpdateSubmission(ctx context.Context, submission *models.Submission) error
	GetActiveSubmission(ctx context.Context, userID string, taskID uint) (*models.Submission, error)
	CountAttempts(ctx context.Context, userID string, taskID uint) (int, error)
	List(ctx context.Context, filters SubmissionFilters) ([]*models.Submission, int64, error)

	// Response operations
	UpsertResponse(ctx context.Context, response *models.QuestionResponse) error
	GetResponses(ctx context.Context, submissionID uint) ([]*models.QuestionResponse, error)
	GradeResponses(ctx context.Context, responses []*models.QuestionResponse) error

	// Result operations
	CreateResult(ctx context.Context, result *models.SubmissionResult) error
	GetResult(ctx context.Context, submissionID uint) (*models.SubmissionResult, error)

	// Sweeper support: in-progress submissions on timed tasks whose
	// deadline passed before now.
	GetExpiredSubmissions(ctx context.Context, now time.Time, limit int) ([]*models.Submission, error)
}
