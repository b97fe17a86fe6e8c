package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("role_name", "is required", "")

	if err.Field != "role_name" {
		t.Errorf("Expected field to be 'role_name', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	expected := "validation error on field 'role_name': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("difficulty_level", "must be easy, medium, or hard", "extreme"))
	expected := "validation failed: difficulty_level must be easy, medium, or hard"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("skills", "is required", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("time_limit", "must be between 1 and 300 minutes", "time_limit", 0)

	if err.Rule != "time_limit" {
		t.Errorf("Expected rule to be 'time_limit', got '%s'", err.Rule)
	}
}
