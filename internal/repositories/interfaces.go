package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Status      *models.GenerationStatus `json:"status"`
	CreatedBy   *string                  `json:"created_by"`
	IsPublished *bool                    `json:"is_published"`
	DateFrom    *time.Time               `json:"date_from"`
	DateTo      *time.Time               `json:"date_to"`
	Limit       int                      `json:"limit"`
	Offset      int                      `json:"offset"`
	SortBy      string                   `json:"sort_by"`    // "created_at", "role_name"
	SortOrder   string                   `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	Status   *models.SubmissionStatus `json:"status"`
	UserID   *string                  `json:"user_id"`
	TaskID   *uint                    `json:"task_id"`
	DateFrom *time.Time               `json:"date_from"`
	DateTo   *time.Time               `json:"date_to"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

// ===== AGGREGATE =====

// Repository groups the per-entity repositories behind one dependency so
// services can take a single constructor argument.
type Repository interface {
	Assessments() AssessmentRepository
	Submissions() SubmissionRepository
	Deployments() DeploymentRepository

	// Transaction runs fn against a repository bound to a single database
	// transaction, committing when fn returns nil.
	Transaction(ctx context.Context, fn func(Repository) error) error
}
