package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/role-assessment-service/internal/services"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

// AssessmentHandler serves the role assessment lifecycle: generation,
// preview/edit, deployment and listing.
type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	generationService services.GenerationService
	deploymentService services.DeploymentService
	validator         *utils.Validator
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	generationService services.GenerationService,
	deploymentService services.DeploymentService,
	validator *utils.Validator,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		generationService: generationService,
		deploymentService: deploymentService,
		validator:         validator,
	}
}

// GenerateAssessment kicks off async generation and returns the pollable id.
func (h *AssessmentHandler) GenerateAssessment(c *gin.Context) {
	var req services.GenerateAssessmentRequest
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

	h.LogRequest(c, "Generating assessment", "role", req.Role, "difficulty", req.Difficulty)

	response, err := h.generationService.Generate(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response)
}

// GetGenerationStatus reports progress for a running generation.
func (h *AssessmentHandler) GetGenerationStatus(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	status, err := h.generationService.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetAssessment returns the full assessment with decoded question sections.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	assessment, err := h.assessmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// UpdateAssessment replaces the editable fields of an assessment.
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	var req services.UpdateAssessmentRequest
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

	h.LogRequest(c, "Updating assessment", "assessment_id", req.AssessmentID)

	assessment, err := h.assessmentService.Update(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// DeleteAssessment soft-deletes an assessment and its deployments.
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assessment deleted", nil)
}

// ListAssessmentsByUser lists a creator's assessments, newest first.
func (h *AssessmentHandler) ListAssessmentsByUser(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}

	limit, offset := ParsePagination(c)
	summaries, total, err := h.assessmentService.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessments": summaries,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

// ScoreAssessment grades a complete answer map without creating a
// submission, for the self-contained preview flow.
func (h *AssessmentHandler) ScoreAssessment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.LocalScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.assessmentService.ScoreLocally(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeployAssessment publishes an assessment into the selected courses.
func (h *AssessmentHandler) DeployAssessment(c *gin.Context) {
	var req services.DeployRequest
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

	h.LogRequest(c, "Deploying assessment", "assessment_id", req.AssessmentID, "course_count", len(req.CourseIDs))

	response, err := h.deploymentService.Deploy(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UndeployAssessment removes an assessment from the selected courses.
func (h *AssessmentHandler) UndeployAssessment(c *gin.Context) {
	var req services.UndeployRequest
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

	h.LogRequest(c, "Undeploying assessment", "assessment_id", req.AssessmentID, "course_count", len(req.CourseIDs))

	response, err := h.deploymentService.Undeploy(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAssessmentCourses lists the courses an assessment is deployed to.
func (h *AssessmentHandler) GetAssessmentCourses(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	courses, err := h.deploymentService.GetDeployedCourses(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GetMentorCourses lists a mentor's courses with their deployments.
func (h *AssessmentHandler) GetMentorCourses(c *gin.Context) {
	mentorID := ParseStringIDParam(c, "userId")
	if mentorID == "" {
		return
	}

	courses, err := h.deploymentService.GetMentorCourses(c.Request.Context(), mentorID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
