package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/cache"
	"github.com/SAP-F-2025/role-assessment-service/internal/events"
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

type deploymentService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewDeploymentService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) DeploymentService {
	return &deploymentService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Deploy publishes an assessment into courses. A completed assessment is
// required; deploying also flips the publish flag on first deployment.
func (s *deploymentService) Deploy(ctx context.Context, req *DeployRequest, userID string) (*DeployResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assessment, err := s.loadAssessment(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.CreatedBy != userID {
		return nil, NewPermissionError(userID, req.AssessmentID, "assessment", "deploy", "not the creator")
	}
	if assessment.Status != models.GenerationCompleted {
		return nil, ErrAssessmentGenerating
	}

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Deployments().Deploy(ctx, req.AssessmentID, req.CourseIDs); err != nil {
			return err
		}
		if !assessment.IsPublished {
			return tx.Assessments().SetPublished(ctx, req.AssessmentID, true)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy assessment: %w", err)
	}

	s.invalidateAssessment(ctx, req.AssessmentID)

	now := time.Now()
	for _, courseID := range req.CourseIDs {
		s.publishEvent(ctx, events.EventAssessmentDeployed, events.AssessmentDeployedEvent{
			AssessmentID: req.AssessmentID,
			CourseID:     courseID,
			DeployedBy:   userID,
			DeployedAt:   now,
		})
	}

	s.logger.Info("assessment deployed",
		"assessment_id", req.AssessmentID, "course_count", len(req.CourseIDs), "user_id", userID)

	return s.deployResponse(ctx, req.AssessmentID)
}

// Undeploy removes the assessment from courses. Removing the last course
// clears the publish flag so the assessment returns to draft visibility.
func (s *deploymentService) Undeploy(ctx context.Context, req *UndeployRequest, userID string) (*DeployResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assessment, err := s.loadAssessment(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.CreatedBy != userID {
		return nil, NewPermissionError(userID, req.AssessmentID, "assessment", "undeploy", "not the creator")
	}

	deployed, err := s.repo.Deployments().GetDeployedCourseIDs(ctx, req.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployments: %w", err)
	}
	deployedSet := make(map[uint]bool, len(deployed))
	for _, id := range deployed {
		deployedSet[id] = true
	}
	for _, id := range req.CourseIDs {
		if !deployedSet[id] {
			return nil, ErrDeploymentNotFound
		}
	}

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Deployments().Undeploy(ctx, req.AssessmentID, req.CourseIDs); err != nil {
			return err
		}
		remaining, err := tx.Deployments().CountByAssessment(ctx, req.AssessmentID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Assessments().SetPublished(ctx, req.AssessmentID, false)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to undeploy assessment: %w", err)
	}

	s.invalidateAssessment(ctx, req.AssessmentID)

	for _, courseID := range req.CourseIDs {
		s.publishEvent(ctx, events.EventAssessmentUndeployed, events.AssessmentDeployedEvent{
			AssessmentID: req.AssessmentID,
			CourseID:     courseID,
			DeployedBy:   userID,
			DeployedAt:   time.Now(),
		})
	}

	s.logger.Info("assessment undeployed",
		"assessment_id", req.AssessmentID, "course_count", len(req.CourseIDs), "user_id", userID)

	return s.deployResponse(ctx, req.AssessmentID)
}

// GetDeployedCourses lists the courses an assessment currently targets.
func (s *deploymentService) GetDeployedCourses(ctx context.Context, assessmentID string) ([]*models.Course, error) {
	if _, err := s.loadAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}

	courses, err := s.repo.Deployments().GetCoursesByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployed courses: %w", err)
	}
	return courses, nil
}

// GetMentorCourses lists a mentor's courses with the assessments deployed
// into each, for the deployment picker.
func (s *deploymentService) GetMentorCourses(ctx context.Context, mentorID string) ([]*MentorCourse, error) {
	courses, err := s.repo.Deployments().GetCoursesByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor courses: %w", err)
	}

	result := make([]*MentorCourse, 0, len(courses))
	for _, course := range courses {
		entry := &MentorCourse{
			ID:                    course.ID,
			Name:                  course.Name,
			DeployedAssessmentIDs: []string{},
		}

		assessmentIDs, err := s.repo.Deployments().GetAssessmentIDsByCourse(ctx, course.ID)
		if err != nil {
			s.logger.Warn("failed to load course deployments", "course_id", course.ID, "error", err)
		} else {
			entry.DeployedAssessmentIDs = assessmentIDs
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *deploymentService) loadAssessment(ctx context.Context, id string) (*models.RoleAssessment, error) {
	assessment, err := s.repo.Assessments().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	return assessment, nil
}

func (s *deploymentService) deployResponse(ctx context.Context, assessmentID string) (*DeployResponse, error) {
	courseIDs, err := s.repo.Deployments().GetDeployedCourseIDs(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployments: %w", err)
	}
	return &DeployResponse{
		AssessmentID:      assessmentID,
		DeployedCourseIDs: courseIDs,
	}, nil
}

func (s *deploymentService) invalidateAssessment(ctx context.Context, assessmentID string) {
	if err := s.cache.Delete(ctx, assessmentCacheKey(assessmentID)); err != nil {
		s.logger.Warn("assessment cache invalidation failed", "assessment_id", assessmentID, "error", err)
	}
}

func (s *deploymentService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewAssessmentEvent(eventType, payload)
	if err := s.publisher.PublishAssessmentEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}
