package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/SAP-F-2025/role-assessment-service/internal/services"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

// SessionHandler serves the taking flow: start/resume, answer saving,
// finalization, results and exports.
type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	exportService  services.ExportService
	validator      *utils.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		exportService:  exportService,
		validator:      validator,
	}
}

// StartAssessment opens a new submission or resumes the active one. The
// response replays saved answers and the remaining countdown.
func (h *SessionHandler) StartAssessment(c *gin.Context) {
	var req services.StartAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Starting assessment session", "task_id", req.TaskID)

	response, err := h.sessionService.Start(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if response.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, response)
}

// SubmitAnswer saves the latest answer for one question.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	response, err := h.sessionService.SubmitAnswer(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// FinalizeSubmission grades and closes a submission.
func (h *SessionHandler) FinalizeSubmission(c *gin.Context) {
	submissionID := ParseUintIDParam(c, "submissionId")
	if submissionID == 0 {
		return
	}

	// An empty body finalizes as a normal user submit.
	var req services.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	reason := req.EndReason
	if reason == "" {
		reason = models.EndReasonUser
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Finalizing submission", "submission_id", submissionID, "end_reason", reason)

	result, err := h.sessionService.Finalize(c.Request.Context(), submissionID, userID, reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResults returns the graded outcome of a finalized submission.
func (h *SessionHandler) GetResults(c *gin.Context) {
	submissionID := ParseUintIDParam(c, "submissionId")
	if submissionID == 0 {
		return
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.GetResults(c.Request.Context(), submissionID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResults downloads results as a spreadsheet. Format is chosen with
// the "format" query parameter, xlsx by default.
func (h *SessionHandler) ExportResults(c *gin.Context) {
	submissionID := ParseUintIDParam(c, "submissionId")
	if submissionID == 0 {
		return
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	var (
		data     []byte
		filename string
		err      error
		mimeType string
	)

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, filename, err = h.exportService.ExportResultsCSV(c.Request.Context(), submissionID, userID)
		mimeType = "text/csv"
	case "xlsx":
		data, filename, err = h.exportService.ExportResultsXLSX(c.Request.Context(), submissionID, userID)
		mimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: "supported formats: xlsx, csv",
		})
		return
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, mimeType, data)
}
