package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/SAP-F-2025/role-assessment-service/internal/errors"
)

func TestErrorClassifiers(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrAssessmentNotFound))
		assert.True(t, IsNotFound(ErrSubmissionNotFound))
		assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrTaskNotFound)))
		assert.False(t, IsNotFound(ErrSubmissionNotActive))
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		assert.True(t, IsUnauthorized(ErrAssessmentAccessDenied))
		assert.True(t, IsUnauthorized(NewPermissionError("u1", "a1", "assessment", "update", "not the owner")))
		assert.False(t, IsUnauthorized(ErrAssessmentNotFound))
	})

	t.Run("IsValidation", func(t *testing.T) {
		assert.True(t, IsValidation(ErrValidationFailed))
		assert.True(t, IsValidation(apperrors.ValidationErrors{{Field: "role_name", Message: "required"}}))
		assert.False(t, IsValidation(ErrConflict))
	})

	t.Run("IsBusinessRule", func(t *testing.T) {
		err := NewBusinessRuleError("attempt_limit", "maximum attempts reached", nil)
		assert.True(t, IsBusinessRule(err))
		assert.True(t, IsBusinessRule(fmt.Errorf("start: %w", err)))
		assert.False(t, IsBusinessRule(ErrAttemptLimitExceeded))
	})

	t.Run("IsConflict", func(t *testing.T) {
		assert.True(t, IsConflict(ErrSubmissionAlreadyFinal))
		assert.True(t, IsConflict(ErrAttemptLimitExceeded))
		assert.True(t, IsConflict(ErrAssessmentGenerating))
		assert.False(t, IsConflict(ErrSubmissionTimeExpired))
	})
}
