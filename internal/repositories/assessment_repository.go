package repositories

import (
	"context"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// AssessmentRepository interface for role assessment persistence
type AssessmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, assessment *models.RoleAssessment) error
	GetByID(ctx context.Context, id string) (*models.RoleAssessment, error)
	Update(ctx context.Context, assessment *models.RoleAssessment) error
	Delete(ctx context.Context, id string) error // Soft delete

	// Query operations
	List(ctx context.Context, filters AssessmentFilters) ([]*models.RoleAssessment, int64, error)
	GetByCreator(ctx context.Context, creatorID string, filters AssessmentFilters) ([]*models.RoleAssessment, int64, error)

	// Generation lifecycle
	UpdateStatus(ctx context.Context, id string, status models.GenerationStatus, errorMessage *string) error
	SetPublished(ctx context.Context, id string, published bool) error

	// Permission checks
	IsOwner(ctx context.Context, id string, userID string) (bool, error)
}
