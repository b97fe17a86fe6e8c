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

type DeploymentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewDeploymentPostgreSQL(db *gorm.DB) repositories.DeploymentRepository {
	return &DeploymentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Deploy links an assessment to each course. Re-deploying to an already
// linked course is a no-op, so the operation is safe to retry.
func (d *DeploymentPostgreSQL) Deploy(ctx context.Context, assessmentID string, courseIDs []uint) error {
	if len(courseIDs) == 0 {
		return nil
	}

	deployments := make([]models.CourseDeployment, 0, len(courseIDs))
	now := time.Now()
	for _, courseID := range courseIDs {
		deployments = append(deployments, models.CourseDeployment{
			AssessmentID: assessmentID,
			CourseID:     courseID,
			DeployedAt:   now,
		})
	}

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assessment_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(&deployments).Error
	if err != nil {
		return fmt.Errorf("failed to deploy assessment: %w", err)
	}
	return nil
}

// Undeploy removes the link rows for the given courses.
func (d *DeploymentPostgreSQL) Undeploy(ctx context.Context, assessmentID string, courseIDs []uint) error {
	if len(courseIDs) == 0 {
		return nil
	}

	err := d.db.WithContext(ctx).
		Where("assessment_id = ? AND course_id IN ?", assessmentID, courseIDs).
		Delete(&models.CourseDeployment{}).Error
	if err != nil {
		return fmt.Errorf("failed to undeploy assessment: %w", err)
	}
	return nil
}

func (d *DeploymentPostgreSQL) GetDeployedCourseIDs(ctx context.Context, assessmentID string) ([]uint, error) {
	var courseIDs []uint
	err := d.db.WithContext(ctx).
		Model(&models.CourseDeployment{}).
		Where("assessment_id = ?", assessmentID).
		Pluck("course_id", &courseIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get deployed course ids: %w", err)
	}
	return courseIDs, nil
}

// GetCoursesByAssessment returns the courses an assessment is deployed to.
func (d *DeploymentPostgreSQL) GetCoursesByAssessment(ctx context.Context, assessmentID string) ([]*models.Course, error) {
	var courses []*models.Course
	err := d.db.WithContext(ctx).
		Model(&models.Course{}).
		Joins("JOIN role_assessment_deployments ON role_assessment_deployments.course_id = courses.id").
		Where("role_assessment_deployments.assessment_id = ?", assessmentID).
		Order("courses.name ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get courses for assessment: %w", err)
	}
	return courses, nil
}

func (d *DeploymentPostgreSQL) CountByAssessment(ctx context.Context, assessmentID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.CourseDeployment{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count deployments: %w", err)
	}
	return count, nil
}

// GetAssessmentIDsByCourse returns the assessments deployed into a course.
func (d *DeploymentPostgreSQL) GetAssessmentIDsByCourse(ctx context.Context, courseID uint) ([]string, error) {
	var assessmentIDs []string
	err := d.db.WithContext(ctx).
		Model(&models.CourseDeployment{}).
		Where("course_id = ?", courseID).
		Pluck("assessment_id", &assessmentIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get course assessments: %w", err)
	}
	return assessmentIDs, nil
}

// GetCoursesByMentor returns the courses a mentor owns, for the deployment
// target picker.
func (d *DeploymentPostgreSQL) GetCoursesByMentor(ctx context.Context, mentorID string) ([]*models.Course, error) {
	var courses []*models.Course
	err := d.db.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("name ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get mentor courses: %w", err)
	}
	return courses, nil
}
