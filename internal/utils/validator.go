package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/SAP-F-2025/role-assessment-service/internal/errors"
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// Validator wraps the struct validator with the service's custom rules.
type Validator struct {
	structValidator *validator.Validate
}

// NewValidator creates the central validator instance.
func NewValidator() *Validator {
	v := validator.New()

	// Report json tag names instead of Go field names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidators(v)

	return &Validator{structValidator: v}
}

// Validate validates struct tags and returns the shared error type so
// handlers can render field-level details.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Var validates a single value against a rule expression.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("assessment_section", validateSection)
	validate.RegisterValidation("submission_status", validateSubmissionStatus)
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	switch models.DifficultyLevel(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

func validateSection(fl validator.FieldLevel) bool {
	value := models.Section(fl.Field().String())
	for _, section := range models.SectionOrder {
		if section == value {
			return true
		}
	}
	return false
}

func validateSubmissionStatus(fl validator.FieldLevel) bool {
	switch models.SubmissionStatus(fl.Field().String()) {
	case models.SubmissionInProgress, models.SubmissionSubmitted, models.SubmissionGraded:
		return true
	}
	return false
}
