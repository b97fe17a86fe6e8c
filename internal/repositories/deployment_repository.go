package repositories

import (
	"context"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// DeploymentRepository interface for assessment-to-course deployment links
type DeploymentRepository interface {
	Deploy(ctx context.Context, assessmentID string, courseIDs []uint) error
	Undeploy(ctx context.Context, assessmentID string, courseIDs []uint) error

	GetDeployedCourseIDs(ctx context.Context, assessmentID string) ([]uint, error)
	GetCoursesByAssessment(ctx context.Context, assessmentID string) ([]*models.Course, error)
	CountByAssessment(ctx context.Context, assessmentID string) (int64, error)

	// Mentor views
	GetCoursesByMentor(ctx context.Context, mentorID string) ([]*models.Course, error)
	GetAssessmentIDsByCourse(ctx context.Context, courseID uint) ([]string, error)
}
