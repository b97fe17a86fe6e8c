package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/role-assessment-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Assessment specific errors
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentAccessDenied = errors.New("access denied to assessment")
	ErrAssessmentGenerating   = errors.New("assessment generation still in progress")
	ErrAssessmentFailed       = errors.New("assessment generation failed")
	ErrAssessmentNotEditable  = errors.New("assessment cannot be edited while generating")

	// Generation specific errors
	ErrGenerationUnavailable = errors.New("question generation temporarily unavailable")
	ErrGenerationInvalid     = errors.New("generated assessment failed validation")

	// Deployment specific errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrNoCoursesSelected  = errors.New("no courses selected for deployment")
	ErrDeploymentNotFound = errors.New("assessment is not deployed to this course")

	// Submission specific errors
	ErrTaskNotFound           = errors.New("assessment task not found")
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSubmissionAccessDenied = errors.New("access denied to submission")
	ErrSubmissionNotActive    = errors.New("submission is not active")
	ErrSubmissionAlreadyFinal = errors.New("submission already finalized")
	ErrSubmissionTimeExpired  = errors.New("submission time has expired")
	ErrAttemptLimitExceeded   = errors.New("maximum attempts exceeded")
	ErrQuestionNotInTask      = errors.New("question does not belong to this task")
	ErrResultNotFound         = errors.New("results not available for this submission")
	ErrResultNotReady         = errors.New("submission has not been finalized yet")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrDeploymentNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAssessmentAccessDenied) ||
		errors.Is(err, ErrSubmissionAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSubmissionAlreadyFinal) ||
		errors.Is(err, ErrAttemptLimitExceeded) ||
		errors.Is(err, ErrAssessmentNotEditable) ||
		errors.Is(err, ErrAssessmentGenerating)
}
