package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportResultsXLSX renders a finalized submission's results as a workbook
// with a summary sheet and a per-question sheet.
func (s *exportService) ExportResultsXLSX(ctx context.Context, submissionID uint, userID string) ([]byte, string, error) {
	result, err := s.loadResult(ctx, submissionID, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	summarySheet := "Summary"
	questionSheet := "Questions"

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(questionSheet); err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Assessment", result.TaskTitle},
		{"Submitted At", result.SubmittedAt.Format("2006-01-02 15:04:05")},
		{"Total Score", result.TotalScore},
		{"Max Possible Score", result.MaxPossibleScore},
		{"Percentage", result.PercentageScore},
		{"Grade", result.GradeLetter},
		{"Passed", result.Passed},
		{"Time Spent (minutes)", result.TimeSpentMinutes},
		{"Overall Feedback", result.OverallFeedback},
	}
	for rowIndex, row := range summaryRows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			f.SetCellValue(summarySheet, cell, value)
		}
	}

	headers := []string{
		"Question", "Your Answer", "Correct Answer", "Score", "Max Score",
		"Correct", "Pending Review", "Feedback",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(questionSheet, cell, header)
	}
	for rowIndex, question := range result.QuestionResults.Data() {
		row := questionResultRow(question)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(questionSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("assessment_results_%d.xlsx", submissionID)
	return buf.Bytes(), filename, nil
}

// ExportResultsCSV renders the per-question results as CSV.
func (s *exportService) ExportResultsCSV(ctx context.Context, submissionID uint, userID string) ([]byte, string, error) {
	result, err := s.loadResult(ctx, submissionID, userID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{
		"question", "your_answer", "correct_answer", "score", "max_score",
		"correct", "pending_review", "feedback",
	}); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, question := range result.QuestionResults.Data() {
		row := questionResultRow(question)
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = fmt.Sprint(value)
		}
		if err := writer.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("assessment_results_%d.csv", submissionID)
	return buf.Bytes(), filename, nil
}

func (s *exportService) loadResult(ctx context.Context, submissionID uint, userID string) (*models.SubmissionResult, error) {
	submission, err := s.repo.Submissions().GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission.UserID != userID {
		return nil, ErrSubmissionAccessDenied
	}

	result, err := s.repo.Submissions().GetResult(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if submission.Status == models.SubmissionInProgress {
				return nil, ErrResultNotReady
			}
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return result, nil
}

func questionResultRow(question models.QuestionResult) []interface{} {
	correctAnswer := ""
	if question.CorrectAnswer != nil {
		correctAnswer = *question.CorrectAnswer
	}
	correct := ""
	if question.IsCorrect != nil {
		correct = strconv.FormatBool(*question.IsCorrect)
	}
	return []interface{}{
		question.QuestionTitle,
		question.UserResponse,
		correctAnswer,
		question.Score,
		question.MaxScore,
		correct,
		question.PendingManualGrading,
		question.Feedback,
	}
}
