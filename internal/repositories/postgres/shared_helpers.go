package postgres

import (
	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
)

// SharedHelpers holds query-building helpers common to the postgres
// repositories.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyAssessmentFilters narrows a role assessment query by the optional
// filter fields and applies sorting plus pagination.
func (h *SharedHelpers) ApplyAssessmentFilters(query *gorm.DB, filters repositories.AssessmentFilters) *gorm.DB {
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

	query = h.applySorting(query, filters.SortBy, filters.SortOrder)
	return h.ApplyPagination(query, filters.Limit, filters.Offset)
}

// ApplySubmissionFilters narrows a submission query by the optional filter
// fields and applies pagination.
func (h *SharedHelpers) ApplySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.TaskID != nil {
		query = query.Where("task_id = ?", *filters.TaskID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	return h.ApplyPagination(query, filters.Limit, filters.Offset)
}

// ApplyPagination applies limit/offset, leaving the query unbounded only
// when no limit was requested.
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

func (h *SharedHelpers) applySorting(query *gorm.DB, sortBy, sortOrder string) *gorm.DB {
	column := "created_at"
	switch sortBy {
	case "role_name", "updated_at":
		column = sortBy
	}

	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	return query.Order(column + " " + direction)
}
