package services

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

const generationSystemPrompt = `You are an expert technical interviewer and instructional designer.
You create role-specific skill assessments for an e-learning platform.
Questions must be practical, unambiguous and answerable without external resources.
Always return JSON matching the requested schema exactly.`

// generationCounts fixes how many questions each section receives per
// difficulty level.
var generationCounts = map[models.DifficultyLevel]struct {
	MCQ, SAQ, CaseSubQuestions, Aptitude int
}{
	models.DifficultyEasy:   {MCQ: 8, SAQ: 3, CaseSubQuestions: 2, Aptitude: 4},
	models.DifficultyMedium: {MCQ: 10, SAQ: 4, CaseSubQuestions: 3, Aptitude: 5},
	models.DifficultyHard:   {MCQ: 12, SAQ: 5, CaseSubQuestions: 4, Aptitude: 6},
}

func buildGenerationPrompt(req *GenerateAssessmentRequest) string {
	counts := generationCounts[req.Difficulty]

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s-difficulty assessment for the role %q.\n", req.Difficulty, req.Role)
	fmt.Fprintf(&b, "Target skills: %s.\n\n", strings.Join(req.Skills, ", "))
	fmt.Fprintf(&b, "Produce exactly:\n")
	fmt.Fprintf(&b, "- %d multiple-choice questions (4 options each, one correct)\n", counts.MCQ)
	fmt.Fprintf(&b, "- %d short-answer questions with sample answers\n", counts.SAQ)
	fmt.Fprintf(&b, "- 1 case study with a realistic scenario and %d sub-questions\n", counts.CaseSubQuestions)
	fmt.Fprintf(&b, "- %d aptitude questions with short deterministic answers\n\n", counts.Aptitude)
	b.WriteString("Tag every question with the single target skill it exercises. ")
	b.WriteString("Spread questions evenly across the target skills. ")
	b.WriteString("Number question ids from 1 within each section.")
	return b.String()
}

// generationSchema is the structured-output schema sent with every
// generation request. Field names mirror the stored question models.
func generationSchema() map[string]interface{} {
	stringType := map[string]interface{}{"type": "string"}
	intType := map[string]interface{}{"type": "integer"}

	mcq := objectSchema(map[string]interface{}{
		"id":       intType,
		"question": stringType,
		"options": map[string]interface{}{
			"type":  "array",
			"items": stringType,
		},
		"correct_answer": intType,
		"skill":          stringType,
		"difficulty":     stringType,
		"explanation":    stringType,
	})

	saq := objectSchema(map[string]interface{}{
		"id":            intType,
		"question":      stringType,
		"sample_answer": stringType,
		"skill":         stringType,
		"difficulty":    stringType,
	})

	caseStudy := objectSchema(map[string]interface{}{
		"id":       intType,
		"title":    stringType,
		"scenario": stringType,
		"questions": map[string]interface{}{
			"type":  "array",
			"items": stringType,
		},
		"skills": map[string]interface{}{
			"type":  "array",
			"items": stringType,
		},
		"difficulty": stringType,
	})

	aptitude := objectSchema(map[string]interface{}{
		"id":             intType,
		"question":       stringType,
		"correct_answer": stringType,
		"explanation":    stringType,
	})

	return objectSchema(map[string]interface{}{
		"mcqs":               map[string]interface{}{"type": "array", "items": mcq},
		"saqs":               map[string]interface{}{"type": "array", "items": saq},
		"case_study":         caseStudy,
		"aptitude_questions": map[string]interface{}{"type": "array", "items": aptitude},
	})
}

func objectSchema(properties map[string]interface{}) map[string]interface{} {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
