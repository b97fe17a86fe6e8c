package models

import (
	"time"

	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
)

type EndReason string

const (
	EndReasonUser    EndReason = "user_submit"
	EndReasonTimeout EndReason = "timeout"
)

// Submission is one user's server-tracked attempt at an assessment task.
// The server is authoritative for timing and status; clients hold a
// read/write cache of this record.
type Submission struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;size:255;index" validate:"required"`
	TaskID   uint   `json:"task_id" gorm:"not null;index" validate:"required"`
	CohortID *uint  `json:"cohort_id,omitempty"`
	CourseID *uint  `json:"course_id,omitempty"`

	StartedAt        time.Time  `json:"started_at"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`

	TotalScore       float64 `json:"total_score"`
	MaxPossibleScore float64 `json:"max_possible_score"`
	PercentageScore  float64 `json:"percentage_score"`

	Status            SubmissionStatus `json:"status" gorm:"default:in_progress;index"`
	AttemptNumber     int              `json:"attempt_number" gorm:"default:1"`
	IsFinalSubmission bool             `json:"is_final_submission" gorm:"default:false"`
	EndReason         *EndReason       `json:"end_reason,omitempty" gorm:"size:20"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Task      AssessmentTask     `json:"-" gorm:"foreignKey:TaskID"`
	Responses []QuestionResponse `json:"-" gorm:"foreignKey:SubmissionID"`
}

func (Submission) TableName() string {
	return "assessment_submissions"
}

// Deadline returns the wall-clock time at which a timed submission expires,
// or nil for untimed tasks.
func (s *Submission) Deadline(task *AssessmentTask) *time.Time {
	if task == nil || !task.IsTimed || task.TimeLimitMinutes == nil {
		return nil
	}
	deadline := s.StartedAt.Add(time.Duration(*task.TimeLimitMinutes) * time.Minute)
	return &deadline
}

type QuestionKind string

const (
	QuestionObjective  QuestionKind = "objective"
	QuestionSubjective QuestionKind = "subjective"
)

// AssessmentTask is the flat, position-ordered question list the paginated
// taking flow runs against.
type AssessmentTask struct {
	ID                   uint    `json:"id" gorm:"primaryKey"`
	Title                string  `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Type                 string  `json:"type" gorm:"size:50"`
	AssessmentID         *string `json:"assessment_id,omitempty" gorm:"size:64;index"`
	Instructions         *string `json:"instructions,omitempty" gorm:"type:text"`
	IsTimed              bool    `json:"is_timed" gorm:"default:false"`
	TimeLimitMinutes     *int    `json:"time_limit_minutes,omitempty" validate:"omitempty,min=1"`
	EstimatedTimeMinutes *int    `json:"estimated_time_minutes,omitempty"`
	MaxAttempts          int     `json:"max_attempts" gorm:"default:1" validate:"min=1,max=10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []TaskQuestion `json:"questions" gorm:"foreignKey:TaskID"`

	// Computed fields (not stored)
	TotalQuestions int `json:"total_questions" gorm:"-"`
}

func (AssessmentTask) TableName() string {
	return "assessment_tasks"
}

// TaskQuestion is one question within an AssessmentTask.
type TaskQuestion struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	TaskID       uint         `json:"task_id" gorm:"not null;index"`
	Title        string       `json:"title" gorm:"not null;size:500"`
	Body         string       `json:"body" gorm:"type:text"`
	Kind         QuestionKind `json:"type" gorm:"not null;size:20"`
	InputType    string       `json:"input_type" gorm:"default:text;size:20"` // text or code
	Position     int          `json:"position" gorm:"not null;index"`
	MaxScore     float64      `json:"max_score" gorm:"default:10"`
	Skill        string       `json:"skill,omitempty" gorm:"size:100"`
	AnswerKey    *string      `json:"-" gorm:"type:text"` // objective questions only
	SampleAnswer *string      `json:"-" gorm:"type:text"`
}

func (TaskQuestion) TableName() string {
	return "assessment_task_questions"
}

// QuestionResponse holds the latest saved answer for one question of one
// submission. Saves upsert on (submission_id, question_id) so a duplicate
// autosave and an explicit save of the same answer collapse to one row.
type QuestionResponse struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SubmissionID uint   `json:"submission_id" gorm:"not null;uniqueIndex:idx_submission_question" validate:"required"`
	QuestionID   uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_submission_question" validate:"required"`
	UserResponse string `json:"user_response" gorm:"type:text"`
	ResponseType string `json:"response_type" gorm:"size:20"`

	TimeSpentSeconds int `json:"time_spent_seconds"`

	// Grading outcome, populated at finalize.
	Score     *float64 `json:"score,omitempty"`
	IsCorrect *bool    `json:"is_correct,omitempty"`
	Feedback  *string  `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuestionResponse) TableName() string {
	return "assessment_question_responses"
}
