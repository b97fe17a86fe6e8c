package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
)

type AssessmentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create persists a new role assessment record.
func (a *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.RoleAssessment) error {
	if err := a.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create role assessment: %w", err)
	}
	return nil
}

// GetByID retrieves a role assessment, with its deployment count populated.
func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, id string) (*models.RoleAssessment, error) {
	var assessment models.RoleAssessment
	err := a.db.WithContext(ctx).
		Where("id = ?", id).
		First(&assessment).Error
	if err != nil {
		return nil, err
	}

	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.CourseDeployment{}).
		Where("assessment_id = ?", id).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count deployments: %w", err)
	}
	assessment.DeployedCoursesCount = int(count)

	return &assessment, nil
}

// Update saves the full assessment record. JSONB question collections are
// replaced wholesale, matching how the editor submits them.
func (a *AssessmentPostgreSQL) Update(ctx context.Context, assessment *models.RoleAssessment) error {
	result := a.db.WithContext(ctx).
		Model(&models.RoleAssessment{}).
		Where("id = ?", assessment.ID).
		Select("role_name", "target_skills", "difficulty_level", "mcqs", "saqs",
			"case_study", "aptitude_questions", "skill_coverage",
			"total_questions", "estimated_duration_minutes").
		Updates(assessment)
	if result.Error != nil {
		return fmt.Errorf("failed to update role assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes an assessment.
func (a *AssessmentPostgreSQL) Delete(ctx context.Context, id string) error {
	result := a.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RoleAssessment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete role assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves assessments matching the filters plus the unpaginated total.
func (a *AssessmentPostgreSQL) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.RoleAssessment, int64, error) {
	var assessments []*models.RoleAssessment
	var total int64

	countQuery := a.db.WithContext(ctx).Model(&models.RoleAssessment{})
	countQuery = a.applyCountFilters(countQuery, filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count role assessments: %w", err)
	}

	query := a.db.WithContext(ctx).Model(&models.RoleAssessment{})
	query = a.helpers.ApplyAssessmentFilters(query, filters)
	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list role assessments: %w", err)
	}

	return assessments, total, nil
}

// GetByCreator retrieves assessments created by one user.
func (a *AssessmentPostgreSQL) GetByCreator(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) ([]*models.RoleAssessment, int64, error) {
	filters.CreatedBy = &creatorID
	return a.List(ctx, filters)
}

// UpdateStatus records a generation lifecycle transition.
func (a *AssessmentPostgreSQL) UpdateStatus(ctx context.Context, id string, status models.GenerationStatus, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
	}

	result := a.db.WithContext(ctx).
		Model(&models.RoleAssessment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update assessment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPublished flips the publish flag.
func (a *AssessmentPostgreSQL) SetPublished(ctx context.Context, id string, published bool) error {
	result := a.db.WithContext(ctx).
		Model(&models.RoleAssessment{}).
		Where("id = ?", id).
		Update("is_published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to update publish flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsOwner reports whether userID created the assessment.
func (a *AssessmentPostgreSQL) IsOwner(ctx context.Context, id string, userID string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.RoleAssessment{}).
		Where("id = ? AND created_by = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check assessment ownership: %w", err)
	}
	return count > 0, nil
}

// applyCountFilters mirrors ApplyAssessmentFilters without sorting or
// pagination, for total counts.
func (a *AssessmentPostgreSQL) applyCountFilters(query *gorm.DB, filters repositories.AssessmentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
