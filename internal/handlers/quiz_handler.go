package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// QuizHandler serves persisted quizzes
type QuizHandler struct {
	BaseHandler
	authoringService    services.QuizAuthoringService
	importExportService services.ImportExportService
	gradingService      services.GradingService
}

func NewQuizHandler(
	authoringService services.QuizAuthoringService,
	importExportService services.ImportExportService,
	gradingService services.GradingService,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:         NewBaseHandler(logger),
		authoringService:    authoringService,
		importExportService: importExportService,
		gradingService:      gradingService,
	}
}

// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	quiz, err := h.authoringService.GetQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// ListFormationQuizzes lists the quizzes of a formation
// @Param is_active query bool false "Filter on active flag"
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Router /formations/{formation_id}/quizzes [get]
func (h *QuizHandler) ListFormationQuizzes(c *gin.Context) {
	formationID := h.parseIDParam(c, "formation_id")
	if formationID == 0 {
		return
	}

	page := h.parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.QuizFilters{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     size,
		Offset:    (page - 1) * size,
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid is_active",
				Details: raw,
			})
			return
		}
		filters.IsActive = &active
	}

	quizzes, err := h.authoringService.ListFormationQuizzes(c.Request.Context(), formationID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting quiz", "quiz_id", id)

	if err := h.authoringService.DeleteQuiz(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Router /quizzes/{id}/revisions [get]
func (h *QuizHandler) ListRevisions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	revisions, err := h.authoringService.ListRevisions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, revisions)
}

// ExportQuiz downloads a quiz as xlsx (default) or csv
// @Param format query string false "xlsx or csv"
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	switch format {
	case "xlsx":
		data, err = h.importExportService.ExportQuizToExcel(c.Request.Context(), id)
		contentType = xlsxContentType
	case "csv":
		data, err = h.importExportService.ExportQuizToCSV(c.Request.Context(), id)
		contentType = csvContentType
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid format",
			Details: "format must be xlsx or csv",
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%d.%s"`, id, format))
	c.Data(http.StatusOK, contentType, data)
}

// GradeSubmission scores a learner submission against the quiz
// @Router /quizzes/{id}/grade [post]
func (h *QuizHandler) GradeSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.GradeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.gradingService.GradeSubmission(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
