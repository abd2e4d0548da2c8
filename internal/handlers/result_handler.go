package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusphere/exam-service/internal/repositories"
	"github.com/edusphere/exam-service/internal/services"
	"github.com/edusphere/exam-service/internal/utils"
	"github.com/edusphere/exam-service/internal/validator"
)

type ResultHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	resultService     services.ResultService
	exportService     services.ExportService
	validator         *validator.Validator
}

func NewResultHandler(
	submissionService services.SubmissionService,
	resultService services.ResultService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *ResultHandler {
	return &ResultHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		resultService:     resultService,
		exportService:     exportService,
		validator:         validator,
	}
}

// SubmitExam grades and records a student's answer set
// @Summary Submit exam
// @Description Grades the answers, enforces the single-attempt rule and records the result
// @Tags results
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param submission body services.SubmitExamRequest true "Submission data"
// @Success 201 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/submissions [post]
func (h *ResultHandler) SubmitExam(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	var req services.SubmitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting exam", "exam_id", examID, "student_id", req.StudentID)

	result, err := h.submissionService.Submit(c.Request.Context(), examID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetResult returns one recorded result by its ID
// @Summary Get result
// @Description Returns a recorded result with per-question analysis
// @Tags results
// @Produce json
// @Param id path uint true "Result ID"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) GetResult(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	result, err := h.resultService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStudentResult returns a student's result for one exam
// @Summary Get student result
// @Description Returns the recorded result of a student for an exam
// @Tags results
// @Produce json
// @Param id path uint true "Exam ID"
// @Param studentId path uint true "Student ID"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/results/students/{studentId} [get]
func (h *ResultHandler) GetStudentResult(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "studentId")
	if studentID == 0 {
		return
	}

	result, err := h.resultService.GetByStudentAndExam(c.Request.Context(), studentID, examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListResultsByExam lists recorded results for one exam
// @Summary List exam results
// @Description Returns recorded results of an exam
// @Tags results
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.ResultListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/results [get]
func (h *ResultHandler) ListResultsByExam(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	filters := parseResultFilters(c)

	results, err := h.resultService.ListByExam(c.Request.Context(), examID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListResultsBySubject lists results across all exams of a subject
// @Summary List subject results
// @Description Returns results across all exams of one subject
// @Tags results
// @Produce json
// @Param subjectId path uint true "Subject ID"
// @Success 200 {object} services.ResultListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /subjects/{subjectId}/results [get]
func (h *ResultHandler) ListResultsBySubject(c *gin.Context) {
	subjectID := h.parseIDParam(c, "subjectId")
	if subjectID == 0 {
		return
	}

	filters := parseResultFilters(c)

	results, err := h.resultService.ListBySubject(c.Request.Context(), subjectID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetExamStats returns aggregate statistics for one exam
// @Summary Get exam statistics
// @Description Returns pass rate and averages over an exam's results
// @Tags results
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.ExamStatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/stats [get]
func (h *ResultHandler) GetExamStats(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	stats, err := h.resultService.GetExamStats(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportResults streams an xlsx workbook of an exam's results
// @Summary Export exam results
// @Description Streams all results of an exam as an xlsx attachment
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Exam ID"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/results/export [get]
func (h *ResultHandler) ExportResults(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	h.LogRequest(c, "Exporting exam results", "exam_id", examID)

	workbook, filename, err := h.exportService.ExportResultsByExam(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.LogRequest(c, "Failed to stream export", "exam_id", examID, "error", err.Error())
	}
}

func parseResultFilters(c *gin.Context) repositories.ResultFilters {
	filters := repositories.ResultFilters{
		Limit:     20,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if studentID, err := strconv.ParseUint(c.Query("student_id"), 10, 32); err == nil && studentID > 0 {
		id := uint(studentID)
		filters.StudentID = &id
	}
	if passed := c.Query("passed"); passed != "" {
		if parsed, err := strconv.ParseBool(passed); err == nil {
			filters.Passed = &parsed
		}
	}

	return filters
}
