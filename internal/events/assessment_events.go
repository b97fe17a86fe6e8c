package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the domain events this service emits.
type EventType string

const (
	// Generation events
	EventGenerationStarted   EventType = "role_assessment.generation_started"
	EventGenerationCompleted EventType = "role_assessment.generation_completed"
	EventGenerationFailed    EventType = "role_assessment.generation_failed"

	// Lifecycle events
	EventAssessmentUpdated    EventType = "role_assessment.updated"
	EventAssessmentDeployed   EventType = "role_assessment.deployed"
	EventAssessmentUndeployed EventType = "role_assessment.undeployed"

	// Submission events
	EventSubmissionStarted   EventType = "submission.started"
	EventSubmissionFinalized EventType = "submission.finalized"
	EventSubmissionTimedOut  EventType = "submission.timed_out"
)

// AssessmentEvent is the envelope for all events published to the
// assessment-events topic.
type AssessmentEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewAssessmentEvent builds an envelope with the service's standard
// source and version.
func NewAssessmentEvent(eventType EventType, data interface{}) *AssessmentEvent {
	return &AssessmentEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "role-assessment-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Generation event payloads

type GenerationStartedEvent struct {
	AssessmentID string   `json:"assessment_id"`
	RoleName     string   `json:"role_name"`
	TargetSkills []string `json:"target_skills"`
	Difficulty   string   `json:"difficulty"`
	CreatedBy    string   `json:"created_by"`
}

type GenerationCompletedEvent struct {
	AssessmentID   string `json:"assessment_id"`
	RoleName       string `json:"role_name"`
	TotalQuestions int    `json:"total_questions"`
	DurationMs     int64  `json:"duration_ms"`
}

type GenerationFailedEvent struct {
	AssessmentID string `json:"assessment_id"`
	RoleName     string `json:"role_name"`
	Error        string `json:"error"`
}

// Lifecycle event payloads

type AssessmentUpdatedEvent struct {
	AssessmentID string `json:"assessment_id"`
	UpdatedBy    string `json:"updated_by"`
}

type AssessmentDeployedEvent struct {
	AssessmentID string    `json:"assessment_id"`
	CourseID     uint      `json:"course_id"`
	DeployedBy   string    `json:"deployed_by"`
	DeployedAt   time.Time `json:"deployed_at"`
}

// Submission event payloads

type SubmissionStartedEvent struct {
	SubmissionID  uint      `json:"submission_id"`
	TaskID        uint      `json:"task_id"`
	UserID        string    `json:"user_id"`
	AttemptNumber int       `json:"attempt_number"`
	StartedAt     time.Time `json:"started_at"`
}

type SubmissionFinalizedEvent struct {
	SubmissionID    uint      `json:"submission_id"`
	TaskID          uint      `json:"task_id"`
	UserID          string    `json:"user_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	TotalScore      float64   `json:"total_score"`
	PercentageScore float64   `json:"percentage_score"`
	Passed          bool      `json:"passed"`
	TimedOut        bool      `json:"timed_out"`
}
