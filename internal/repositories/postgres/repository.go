package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
)

type Repository struct {
	db          *gorm.DB
	assessments repositories.AssessmentRepository
	submissions repositories.SubmissionRepository
	deployments repositories.DeploymentRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:          db,
		assessments: NewAssessmentPostgreSQL(db),
		submissions: NewSubmissionPostgreSQL(db),
		deployments: NewDeploymentPostgreSQL(db),
	}
}

func (r *Repository) Assessments() repositories.AssessmentRepository {
	return r.assessments
}

func (r *Repository) Submissions() repositories.SubmissionRepository {
	return r.submissions
}

func (r *Repository) Deployments() repositories.DeploymentRepository {
	return r.deployments
}

func (r *Repository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// IsNotFoundError reports whether err is the database's missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
