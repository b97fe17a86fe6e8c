package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/role-assessment-service/internal/cache"
	"github.com/SAP-F-2025/role-assessment-service/internal/events"
	"github.com/SAP-F-2025/role-assessment-service/internal/llm"
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/role-assessment-service/internal/session"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

// ===== SERVICE INTERFACES =====

// AssessmentService covers reading, editing and locally scoring generated
// role assessments.
type AssessmentService interface {
	GetByID(ctx context.Context, id string) (*AssessmentResponse, error)
	Update(ctx context.Context, req *UpdateAssessmentRequest, userID string) (*AssessmentResponse, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*AssessmentSummary, int64, error)
	Delete(ctx context.Context, id string, userID string) error

	// ScoreLocally grades a sectioned answer set against the assessment's
	// stored keys without touching submission state.
	ScoreLocally(ctx context.Context, id string, req *LocalScoreRequest) (*session.Result, error)
}

// GenerationService owns the asynchronous AI generation pipeline.
type GenerationService interface {
	Generate(ctx context.Context, req *GenerateAssessmentRequest, userID string) (*GenerateAssessmentResponse, error)
	GetStatus(ctx context.Context, id string) (*GenerationStatusResponse, error)
}

// DeploymentService manages assessment-to-course links.
type DeploymentService interface {
	Deploy(ctx context.Context, req *DeployRequest, userID string) (*DeployResponse, error)
	Undeploy(ctx context.Context, req *UndeployRequest, userID string) (*DeployResponse, error)
	GetDeployedCourses(ctx context.Context, assessmentID string) ([]*models.Course, error)
	GetMentorCourses(ctx context.Context, mentorID string) ([]*MentorCourse, error)
}

// SessionService owns the server side of the taking flow: starting or
// resuming a submission, saving answers, finalizing and reading results.
type SessionService interface {
	Start(ctx context.Context, req *StartAssessmentRequest, userID string) (*StartAssessmentResponse, error)
	SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest, userID string) (*SubmitAnswerResponse, error)
	Finalize(ctx context.Context, submissionID uint, userID string, reason models.EndReason) (*models.SubmissionResult, error)
	GetResults(ctx context.Context, submissionID uint, userID string) (*models.SubmissionResult, error)

	// SweepExpired finalizes in-progress submissions whose time limit has
	// passed, returning how many were closed.
	SweepExpired(ctx context.Context) (int, error)
}

// ExportService renders finalized results as downloadable files.
type ExportService interface {
	ExportResultsXLSX(ctx context.Context, submissionID uint, userID string) ([]byte, string, error)
	ExportResultsCSV(ctx context.Context, submissionID uint, userID string) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Assessment() AssessmentService
	Generation() GenerationService
	Deployment() DeploymentService
	Session() SessionService
	Export() ExportService
}

type serviceManager struct {
	assessment AssessmentService
	generation GenerationService
	deployment DeploymentService
	session    SessionService
	export     ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	provider llm.Provider,
	logger *slog.Logger,
	validator *utils.Validator,
) ServiceManager {
	assessment := NewAssessmentService(repo, cacheService, publisher, logger, validator)
	return &serviceManager{
		assessment: assessment,
		generation: NewGenerationService(repo, cacheService, publisher, provider, logger, validator),
		deployment: NewDeploymentService(repo, cacheService, publisher, logger, validator),
		session:    NewSessionService(repo, cacheService, publisher, logger, validator),
		export:     NewExportService(repo, logger),
	}
}

func (sm *serviceManager) Assessment() AssessmentService { return sm.assessment }
func (sm *serviceManager) Generation() GenerationService { return sm.generation }
func (sm *serviceManager) Deployment() DeploymentService { return sm.deployment }
func (sm *serviceManager) Session() SessionService       { return sm.session }
func (sm *serviceManager) Export() ExportService         { return sm.export }

// ===== REQUEST/RESPONSE DTOS =====

type GenerateAssessmentRequest struct {
	Role       string                 `json:"role" validate:"required,min=2,max=200"`
	Skills     []string               `json:"skills" validate:"required,min=1,max=20,dive,required"`
	Difficulty models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
}

type GenerateAssessmentResponse struct {
	AssessmentID string                  `json:"assessment_id"`
	Status       models.GenerationStatus `json:"status"`
	Message      string                  `json:"message"`
}

type GenerationStatusResponse struct {
	AssessmentID               string                  `json:"assessment_id"`
	Status                     models.GenerationStatus `json:"status"`
	ProgressPercentage         int                     `json:"progress_percentage"`
	CurrentStep                string                  `json:"current_step"`
	EstimatedCompletionSeconds int                     `json:"estimated_completion_seconds"`
	ErrorMessage               *string                 `json:"error_message,omitempty"`
}

// AssessmentResponse is a RoleAssessment with its JSONB collections decoded.
type AssessmentResponse struct {
	AssessmentID             string                    `json:"assessment_id"`
	RoleName                 string                    `json:"role_name"`
	TargetSkills             []string                  `json:"target_skills"`
	DifficultyLevel          models.DifficultyLevel    `json:"difficulty_level"`
	MCQs                     []models.MCQuestion       `json:"mcqs"`
	SAQs                     []models.SAQuestion       `json:"saqs"`
	CaseStudy                *models.CaseStudy         `json:"case_study"`
	AptitudeQuestions        []models.AptitudeQuestion `json:"aptitude_questions"`
	SkillCoverage            []models.SkillCoverage    `json:"skill_coverage"`
	TotalQuestions           int                       `json:"total_questions"`
	EstimatedDurationMinutes int                       `json:"estimated_duration_minutes"`
	IsPublished              bool                      `json:"is_published"`
	Status                   models.GenerationStatus   `json:"status"`
	DeployedCoursesCount     int                       `json:"deployed_courses_count"`
	CreatedBy                string                    `json:"created_by"`
	CreatedAt                time.Time                 `json:"created_at"`
	UpdatedAt                time.Time                 `json:"updated_at"`
}

// AssessmentSummary is the list-view projection without question bodies.
type AssessmentSummary struct {
	AssessmentID         string                  `json:"assessment_id"`
	RoleName             string                  `json:"role_name"`
	TargetSkills         []string                `json:"target_skills"`
	DifficultyLevel      models.DifficultyLevel  `json:"difficulty_level"`
	TotalQuestions       int                     `json:"total_questions"`
	IsPublished          bool                    `json:"is_published"`
	Status               models.GenerationStatus `json:"status"`
	DeployedCoursesCount int                     `json:"deployed_courses_count"`
	CreatedAt            time.Time               `json:"created_at"`
}

// UpdateAssessmentRequest replaces the editable parts of an assessment as a
// unit, matching how the editor submits them.
type UpdateAssessmentRequest struct {
	AssessmentID      string                    `json:"assessment_id" validate:"required"`
	RoleName          *string                   `json:"role_name,omitempty" validate:"omitempty,min=1,max=200"`
	TargetSkills      []string                  `json:"target_skills,omitempty"`
	DifficultyLevel   *models.DifficultyLevel   `json:"difficulty_level,omitempty" validate:"omitempty,difficulty_level"`
	MCQs              []models.MCQuestion       `json:"mcqs"`
	SAQs              []models.SAQuestion       `json:"saqs"`
	CaseStudy         *models.CaseStudy         `json:"case_study"`
	AptitudeQuestions []models.AptitudeQuestion `json:"aptitude_questions"`
}

// LocalScoreRequest carries a full answer map for stateless scoring. Keys
// use the "<section>_<question_id>_<index>" form the clients build.
type LocalScoreRequest struct {
	Answers          map[string]string `json:"answers" validate:"required"`
	TimeSpentSeconds int               `json:"time_spent_seconds" validate:"min=0"`
}

type DeployRequest struct {
	AssessmentID string `json:"assessment_id" validate:"required"`
	CourseIDs    []uint `json:"course_ids" validate:"required,min=1"`
}

type UndeployRequest struct {
	AssessmentID string `json:"assessment_id" validate:"required"`
	CourseIDs    []uint `json:"course_ids" validate:"required,min=1"`
}

type DeployResponse struct {
	AssessmentID      string `json:"assessment_id"`
	DeployedCourseIDs []uint `json:"deployed_course_ids"`
}

// MentorCourse is a course with its current deployment links, for the
// mentor's deployment picker.
type MentorCourse struct {
	ID                    uint     `json:"id"`
	Name                  string   `json:"name"`
	DeployedAssessmentIDs []string `json:"deployed_assessment_ids"`
}

type StartAssessmentRequest struct {
	TaskID   uint  `json:"task_id" validate:"required"`
	CohortID *uint `json:"cohort_id,omitempty"`
	CourseID *uint `json:"course_id,omitempty"`
}

// SavedAnswer is a previously stored response replayed to a resuming client.
type SavedAnswer struct {
	QuestionID   uint   `json:"question_id"`
	UserResponse string `json:"user_response"`
	ResponseType string `json:"response_type"`
}

type StartAssessmentResponse struct {
	SubmissionID     uint                   `json:"submission_id"`
	AttemptNumber    int                    `json:"attempt_number"`
	StartedAt        time.Time              `json:"started_at"`
	Task             *models.AssessmentTask `json:"task"`
	SavedAnswers     []SavedAnswer          `json:"saved_answers"`
	RemainingSeconds *int                   `json:"remaining_seconds,omitempty"`
	Resumed          bool                   `json:"resumed"`
}

type SubmitAnswerRequest struct {
	SubmissionID     uint   `json:"submission_id" validate:"required"`
	QuestionID       uint   `json:"question_id" validate:"required"`
	Answer           string `json:"answer"`
	ResponseType     string `json:"response_type" validate:"omitempty,oneof=text code choice"`
	TimeSpentSeconds int    `json:"time_spent_seconds" validate:"min=0"`
}

type SubmitAnswerResponse struct {
	SubmissionID     uint      `json:"submission_id"`
	QuestionID       uint      `json:"question_id"`
	SavedAt          time.Time `json:"saved_at"`
	RemainingSeconds *int      `json:"remaining_seconds,omitempty"`
}

type FinalizeRequest struct {
	EndReason models.EndReason `json:"end_reason" validate:"omitempty,oneof=user_submit timeout"`
}
