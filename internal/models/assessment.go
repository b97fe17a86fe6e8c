package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type GenerationStatus string

const (
	GenerationRunning   GenerationStatus = "generating"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// RoleAssessment is the static question bank for one role: four question
// collections plus the skill coverage summary computed at generation time.
// The question collections are stored as JSONB because the editor and the
// taking flow always read and write them as a unit.
type RoleAssessment struct {
	ID              string          `json:"assessment_id" gorm:"primaryKey;size:64"`
	RoleName        string          `json:"role_name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	TargetSkills    datatypes.JSON  `json:"target_skills" gorm:"type:jsonb"` // []string
	DifficultyLevel DifficultyLevel `json:"difficulty_level" gorm:"not null;size:10;index" validate:"required,oneof=easy medium hard"`

	MCQs              datatypes.JSON `json:"mcqs" gorm:"column:mcqs;type:jsonb"`   // []MCQuestion
	SAQs              datatypes.JSON `json:"saqs" gorm:"column:saqs;type:jsonb"`   // []SAQuestion
	CaseStudy         datatypes.JSON `json:"case_study" gorm:"type:jsonb"`         // *CaseStudy
	AptitudeQuestions datatypes.JSON `json:"aptitude_questions" gorm:"type:jsonb"` // []AptitudeQuestion
	SkillCoverage     datatypes.JSON `json:"skill_coverage" gorm:"type:jsonb"`     // []SkillCoverage

	TotalQuestions           int  `json:"total_questions"`
	EstimatedDurationMinutes int  `json:"estimated_duration_minutes"`
	IsPublished              bool `json:"is_published" gorm:"default:false"`

	// Generation bookkeeping. Progress and the current step move fast and
	// live in the cache while a generation is running; only the terminal
	// status is persisted here.
	Status       GenerationStatus `json:"status" gorm:"default:generating;index"`
	ErrorMessage *string          `json:"error_message,omitempty" gorm:"type:text"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Deployments []CourseDeployment `json:"-" gorm:"foreignKey:AssessmentID"`

	// Computed fields (not stored)
	DeployedCoursesCount int `json:"deployed_courses_count" gorm:"-"`
}

func (RoleAssessment) TableName() string {
	return "role_assessments"
}

// SkillCoverage describes how many questions target one named skill and the
// resulting quality tier.
type SkillCoverage struct {
	SkillName          string  `json:"skill_name"`
	QuestionCount      int     `json:"question_count"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	Quality            string  `json:"quality"`
}

const (
	CoverageExcellent    = "excellent"
	CoverageGood         = "good"
	CoverageAdequate     = "adequate"
	CoverageInsufficient = "insufficient"
)
