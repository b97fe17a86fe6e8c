package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// decodeQuestionSet unpacks the JSONB question collections once.
func decodeQuestionSet(assessment *models.RoleAssessment) (*models.QuestionSet, error) {
	var qs models.QuestionSet

	if err := decodeJSON(assessment.MCQs, &qs.MCQs); err != nil {
		return nil, fmt.Errorf("failed to decode mcqs: %w", err)
	}
	if err := decodeJSON(assessment.SAQs, &qs.SAQs); err != nil {
		return nil, fmt.Errorf("failed to decode saqs: %w", err)
	}
	if err := decodeJSON(assessment.CaseStudy, &qs.CaseStudy); err != nil {
		return nil, fmt.Errorf("failed to decode case study: %w", err)
	}
	if err := decodeJSON(assessment.AptitudeQuestions, &qs.AptitudeQuestions); err != nil {
		return nil, fmt.Errorf("failed to decode aptitude questions: %w", err)
	}

	return &qs, nil
}

func toAssessmentResponse(assessment *models.RoleAssessment) (*AssessmentResponse, error) {
	qs, err := decodeQuestionSet(assessment)
	if err != nil {
		return nil, err
	}

	var targetSkills []string
	if err := decodeJSON(assessment.TargetSkills, &targetSkills); err != nil {
		return nil, fmt.Errorf("failed to decode target skills: %w", err)
	}
	var coverage []models.SkillCoverage
	if err := decodeJSON(assessment.SkillCoverage, &coverage); err != nil {
		return nil, fmt.Errorf("failed to decode skill coverage: %w", err)
	}

	return &AssessmentResponse{
		AssessmentID:             assessment.ID,
		RoleName:                 assessment.RoleName,
		TargetSkills:             targetSkills,
		DifficultyLevel:          assessment.DifficultyLevel,
		MCQs:                     qs.MCQs,
		SAQs:                     qs.SAQs,
		CaseStudy:                qs.CaseStudy,
		AptitudeQuestions:        qs.AptitudeQuestions,
		SkillCoverage:            coverage,
		TotalQuestions:           assessment.TotalQuestions,
		EstimatedDurationMinutes: assessment.EstimatedDurationMinutes,
		IsPublished:              assessment.IsPublished,
		Status:                   assessment.Status,
		DeployedCoursesCount:     assessment.DeployedCoursesCount,
		CreatedBy:                assessment.CreatedBy,
		CreatedAt:                assessment.CreatedAt,
		UpdatedAt:                assessment.UpdatedAt,
	}, nil
}

func toAssessmentSummary(assessment *models.RoleAssessment) (*AssessmentSummary, error) {
	var targetSkills []string
	if err := decodeJSON(assessment.TargetSkills, &targetSkills); err != nil {
		return nil, fmt.Errorf("failed to decode target skills: %w", err)
	}

	return &AssessmentSummary{
		AssessmentID:         assessment.ID,
		RoleName:             assessment.RoleName,
		TargetSkills:         targetSkills,
		DifficultyLevel:      assessment.DifficultyLevel,
		TotalQuestions:       assessment.TotalQuestions,
		IsPublished:          assessment.IsPublished,
		Status:               assessment.Status,
		DeployedCoursesCount: assessment.DeployedCoursesCount,
		CreatedAt:            assessment.CreatedAt,
	}, nil
}

// bankProvided reports whether the request carries a question bank. The
// editor always submits the four collections together, so any one present
// means the bank is being replaced as a unit.
func bankProvided(req *UpdateAssessmentRequest) bool {
	return req.MCQs != nil || req.SAQs != nil || req.CaseStudy != nil || req.AptitudeQuestions != nil
}

// applyUpdate writes the request's fields onto the model and recomputes every
// derived field: total questions, skill coverage and estimated duration. A
// request without a question bank edits metadata only and leaves the stored
// collections alone. Returns the question set the assessment now holds.
func applyUpdate(assessment *models.RoleAssessment, req *UpdateAssessmentRequest) (*models.QuestionSet, error) {
	if req.RoleName != nil {
		assessment.RoleName = *req.RoleName
	}
	if req.DifficultyLevel != nil {
		assessment.DifficultyLevel = *req.DifficultyLevel
	}
	if req.TargetSkills != nil {
		encoded, err := encodeJSON(req.TargetSkills)
		if err != nil {
			return nil, err
		}
		assessment.TargetSkills = encoded
	}

	var qs *models.QuestionSet
	if bankProvided(req) {
		qs = &models.QuestionSet{
			MCQs:              req.MCQs,
			SAQs:              req.SAQs,
			CaseStudy:         req.CaseStudy,
			AptitudeQuestions: req.AptitudeQuestions,
		}

		var err error
		if assessment.MCQs, err = encodeJSON(qs.MCQs); err != nil {
			return nil, err
		}
		if assessment.SAQs, err = encodeJSON(qs.SAQs); err != nil {
			return nil, err
		}
		if assessment.CaseStudy, err = encodeJSON(qs.CaseStudy); err != nil {
			return nil, err
		}
		if assessment.AptitudeQuestions, err = encodeJSON(qs.AptitudeQuestions); err != nil {
			return nil, err
		}
	} else {
		var err error
		if qs, err = decodeQuestionSet(assessment); err != nil {
			return nil, err
		}
	}

	var targetSkills []string
	if err := decodeJSON(assessment.TargetSkills, &targetSkills); err != nil {
		return nil, fmt.Errorf("failed to decode target skills: %w", err)
	}
	coverage, err := encodeJSON(computeSkillCoverage(qs, targetSkills))
	if err != nil {
		return nil, err
	}

	assessment.SkillCoverage = coverage
	assessment.TotalQuestions = qs.Total()
	assessment.EstimatedDurationMinutes = estimateDurationMinutes(qs)
	return qs, nil
}

func decodeJSON(raw datatypes.JSON, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func encodeJSON(value interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json field: %w", err)
	}
	return datatypes.JSON(data), nil
}
