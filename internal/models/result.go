package models

import (
	"time"

	"gorm.io/datatypes"
)

// PassThreshold is the inclusive percentage a submission needs to pass.
const PassThreshold = 70.0

// QuestionResult is the graded outcome for one question of a submission.
type QuestionResult struct {
	QuestionID       uint    `json:"question_id"`
	QuestionTitle    string  `json:"question_title"`
	UserResponse     string  `json:"user_response"`
	CorrectAnswer    *string `json:"correct_answer,omitempty"`
	Feedback         string  `json:"ai_feedback"`
	Score            float64 `json:"score"`
	MaxScore         float64 `json:"max_score"`
	Percentage       float64 `json:"percentage"`
	IsCorrect        *bool   `json:"is_correct,omitempty"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`

	// Subjective questions carry their placeholder credit until a grader
	// (human or AI) replaces it.
	PendingManualGrading bool `json:"pending_manual_grading,omitempty"`
}

// SkillResult aggregates correctness per named skill.
type SkillResult struct {
	Skill   string `json:"skill"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// SubmissionResult is the terminal, write-once grading outcome of a
// submission. A fresh attempt produces a fresh result row; existing rows are
// never rewritten.
type SubmissionResult struct {
	ID               uint                                 `json:"-" gorm:"primaryKey"`
	SubmissionID     uint                                 `json:"submission_id" gorm:"not null;uniqueIndex"`
	TaskTitle        string                               `json:"task_title" gorm:"size:200"`
	TotalScore       float64                              `json:"total_score"`
	MaxPossibleScore float64                              `json:"max_possible_score"`
	PercentageScore  float64                              `json:"percentage_score"`
	GradeLetter      string                               `json:"grade_letter" gorm:"size:2"`
	Passed           bool                                 `json:"passed"`
	PassThreshold    float64                              `json:"pass_threshold"`
	TimeSpentMinutes float64                              `json:"time_spent_minutes"`
	SubmittedAt      time.Time                            `json:"submitted_at"`
	QuestionResults  datatypes.JSONType[[]QuestionResult] `json:"question_results" gorm:"type:jsonb"`
	SkillBreakdown   datatypes.JSONType[[]SkillResult]    `json:"skill_breakdown" gorm:"type:jsonb"`
	OverallFeedback  string                               `json:"overall_feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"-"`
}

func (SubmissionResult) TableName() string {
	return "submission_results"
}

// GradeLetter maps a percentage to the platform's letter scale.
func GradeLetter(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
