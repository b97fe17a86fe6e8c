package models

import "time"

// Course is the minimal course projection this service needs for
// deployment management. Course ownership lives in the platform's course
// service; only the linkage is stored here.
type Course struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:200"`
	MentorID string `json:"-" gorm:"size:255;index"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseDeployment links a role assessment to a course it has been
// deployed into. Undeploy removes the row; history is not kept.
type CourseDeployment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AssessmentID string    `json:"assessment_id" gorm:"not null;size:64;uniqueIndex:idx_assessment_course" validate:"required"`
	CourseID     uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_assessment_course" validate:"required"`
	DeployedBy   string    `json:"deployed_by" gorm:"size:255"`
	DeployedAt   time.Time `json:"deployed_at"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

func (CourseDeployment) TableName() string {
	return "role_assessment_deployments"
}
