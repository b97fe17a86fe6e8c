package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/role-assessment-service/internal/config"
	"github.com/SAP-F-2025/role-assessment-service/internal/services"
	"github.com/SAP-F-2025/role-assessment-service/internal/utils"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	sessionHandler    *SessionHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(
			serviceManager.Assessment(),
			serviceManager.Generation(),
			serviceManager.Deployment(),
			validator,
			logger,
		),
		sessionHandler: NewSessionHandler(
			serviceManager.Session(),
			serviceManager.Export(),
			validator,
			logger,
		),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, cfg *config.Config, logger utils.Logger) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(cfg, logger))
	{
		// Role assessment lifecycle
		assessments := v1.Group("/role_assessment")
		{
			assessments.POST("/generate", hm.assessmentHandler.GenerateAssessment)
			assessments.GET("/status/:id", hm.assessmentHandler.GetGenerationStatus)
			assessments.PUT("/update", hm.assessmentHandler.UpdateAssessment)
			assessments.POST("/deploy", hm.assessmentHandler.DeployAssessment)
			assessments.POST("/undeploy", hm.assessmentHandler.UndeployAssessment)
			assessments.GET("/list/:userId", hm.assessmentHandler.ListAssessmentsByUser)
			assessments.GET("/mentor/:userId/courses", hm.assessmentHandler.GetMentorCourses)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.DELETE("/:id", hm.assessmentHandler.DeleteAssessment)
			assessments.GET("/:id/courses", hm.assessmentHandler.GetAssessmentCourses)
			assessments.POST("/:id/score", hm.assessmentHandler.ScoreAssessment)
		}

		// Taking flow
		sessions := v1.Group("/assessment")
		{
			sessions.POST("/start", hm.sessionHandler.StartAssessment)
			sessions.POST("/question/submit", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:submissionId/finalize", hm.sessionHandler.FinalizeSubmission)
			sessions.GET("/:submissionId/results", hm.sessionHandler.GetResults)
			sessions.GET("/:submissionId/results/export", hm.sessionHandler.ExportResults)
		}
	}
}
