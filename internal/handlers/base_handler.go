package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusphere/exam-service/internal/services"
	"github.com/edusphere/exam-service/internal/utils"
	"github.com/edusphere/exam-service/internal/validator"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps successful responses that carry a message
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides shared helpers for all HTTP handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with optional key-value pairs
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	requestLogger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	requestLogger.Info(msg, args...)
}

// parseIDParam extracts a positive uint path parameter. Writes a 400 and
// returns 0 when the value is missing or malformed.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service-layer errors onto HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Field-level validation failures
	if validationErrs, ok := validator.AsValidationErrors(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	// Duplicate submission carries the earlier result for review rendering
	if submitted, ok := services.IsAlreadySubmitted(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"message":        "Exam already submitted",
			"previousResult": submitted.Previous,
		})
		return
	}

	// Window violations echo the availability flags
	if notAvailable, ok := services.IsNotAvailable(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":      notAvailable.Error(),
			"availability": notAvailable.Availability,
		})
		return
	}

	switch err {
	case services.ErrExamNotFound,
		services.ErrSubjectNotFound,
		services.ErrClassNotFound,
		services.ErrSchoolNotFound,
		services.ErrTeacherNotFound,
		services.ErrStudentNotFound,
		services.ErrResultNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.LogRequest(c, "Internal server error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
