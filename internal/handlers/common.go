package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"remote_addr", c.ClientIP(),
		"request_id", utils.GetRequestID(c),
	}
	h.log(c).Info(message, append(fields, additionalFields...)...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", utils.GetRequestID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	h.log(c).LogError(err, message, append(fields, additionalFields...)...)
}

// handleServiceError maps service and engine errors to HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var draftError *authoring.ValidationError
	if errors.As(err, &draftError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: draftError.Message,
			Code:    string(draftError.Kind),
			Details: draftError,
		})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Code:    businessRuleError.Rule,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	switch {
	case services.IsEngineMisuse(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
			Code:    "invalid_operation",
		})
	case errors.Is(err, services.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Draft not found or expired",
		})
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz not found",
		})
	case errors.Is(err, services.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A submit is already in progress for this draft",
		})
	case errors.Is(err, services.ErrUnsupportedFile),
		errors.Is(err, services.ErrEmptyImportFile),
		errors.Is(err, services.ErrMissingImportField):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
			Code:    "invalid_import_file",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// ===== REQUEST HELPERS =====

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: idStr,
		})
		return 0
	}
	return uint(id)
}

// parseIndexParam reads a 0-based position. Range checks are left to the
// engine so they surface as the same error as any other misuse.
func (h *BaseHandler) parseIndexParam(c *gin.Context, param string) (int, bool) {
	idxStr := c.Param(param)
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: idxStr,
		})
		return 0, false
	}
	return idx, true
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// bindJSON binds the request body, answering 400 on malformed input
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted
func (h *BaseHandler) bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}
