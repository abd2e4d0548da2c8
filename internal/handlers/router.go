package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/edusphere/exam-service/internal/services"
	"github.com/edusphere/exam-service/internal/utils"
	"github.com/edusphere/exam-service/internal/validator"
)

type HandlerManager struct {
	examHandler   *ExamHandler
	resultHandler *ResultHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler: NewExamHandler(serviceManager.Exam(), validator, logger),
		resultHandler: NewResultHandler(
			serviceManager.Submission(),
			serviceManager.Result(),
			serviceManager.Export(),
			validator,
			logger,
		),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Exam routes
		exams := v1.Group("/exams")
		{
			exams.POST("", hm.examHandler.CreateExam)
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.PUT("/:id", hm.examHandler.UpdateExam)
			exams.DELETE("/:id", hm.examHandler.DeleteExam)
			exams.PATCH("/:id/active", hm.examHandler.SetExamActive)

			// Submission and result routes
			exams.POST("/:id/submissions", hm.resultHandler.SubmitExam)
			exams.GET("/:id/results", hm.resultHandler.ListResultsByExam)
			exams.GET("/:id/results/students/:studentId", hm.resultHandler.GetStudentResult)
			exams.GET("/:id/results/export", hm.resultHandler.ExportResults)
			exams.GET("/:id/stats", hm.resultHandler.GetExamStats)
		}

		// Result routes
		results := v1.Group("/results")
		{
			results.GET("/:id", hm.resultHandler.GetResult)
		}

		// Subject-scoped routes
		subjects := v1.Group("/subjects")
		{
			subjects.GET("/:subjectId/exams", hm.examHandler.ListExamsBySubject)
			subjects.GET("/:subjectId/results", hm.resultHandler.ListResultsBySubject)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exam-service",
		})
	})
}
