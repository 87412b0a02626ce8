package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// DraftHandler exposes authoring sessions: every route edits one draft
// through the authoring service.
type DraftHandler struct {
	BaseHandler
	authoringService    services.QuizAuthoringService
	importExportService services.ImportExportService
}

func NewDraftHandler(
	authoringService services.QuizAuthoringService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *DraftHandler {
	return &DraftHandler{
		BaseHandler:         NewBaseHandler(logger),
		authoringService:    authoringService,
		importExportService: importExportService,
	}
}

// StartDraft opens a draft for a new quiz
// @Router /drafts [post]
func (h *DraftHandler) StartDraft(c *gin.Context) {
	var req services.StartDraftRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting draft", "formation_id", req.FormationID)

	draft, err := h.authoringService.StartDraft(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

// EditQuiz opens a draft hydrated from a persisted quiz
// @Router /quizzes/{id}/drafts [post]
func (h *DraftHandler) EditQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Opening quiz for edit", "quiz_id", id)

	draft, err := h.authoringService.EditQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

// @Router /drafts/{draft_id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	draft, err := h.authoringService.GetDraft(c.Request.Context(), draftID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// @Router /drafts/{draft_id} [delete]
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	if err := h.authoringService.DiscardDraft(c.Request.Context(), draftID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Router /drafts/{draft_id}/metadata [put]
func (h *DraftHandler) UpdateMetadata(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req services.UpdateMetadataRequest
	if !h.bindJSON(c, &req) {
		return
	}

	draft, err := h.authoringService.UpdateMetadata(c.Request.Context(), draftID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// AddQuestion appends a question; the body may name its type
// @Router /drafts/{draft_id}/questions [post]
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req services.AddQuestionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	draft, index, err := h.authoringService.AddQuestion(c.Request.Context(), draftID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, indexedResponse{Index: index, Draft: draft})
}

// @Router /drafts/{draft_id}/questions/{question_index} [delete]
func (h *DraftHandler) RemoveQuestion(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}
	questionIndex, ok := h.parseIndexParam(c, "question_index")
	if !ok {
		return
	}

	draft, err := h.authoringService.RemoveQuestion(c.Request.Context(), draftID, questionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// @Router /drafts/{draft_id}/questions/{question_index} [patch]
func (h *DraftHandler) UpdateQuestionField(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}
	questionIndex, ok := h.parseIndexParam(c, "question_index")
	if !ok {
		return
	}

	var req services.UpdateQuestionFieldRequest
	if !h.bindJSON(c, &req) {
		return
	}

	draft, err := h.authoringService.UpdateQuestionField(c.Request.Context(), draftID, questionIndex, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// @Router /drafts/{draft_id}/questions/{question_index}/answers [post]
func (h *DraftHandler) AddAnswer(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}
	questionIndex, ok := h.parseIndexParam(c, "question_index")
	if !ok {
		return
	}

	draft, index, err := h.authoringService.AddAnswer(c.Request.Context(), draftID, questionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, indexedResponse{Index: index, Draft: draft})
}

// @Router /drafts/{draft_id}/questions/{question_index}/answers/{answer_index} [delete]
func (h *DraftHandler) RemoveAnswer(c *gin.Context) {
	draftID, questionIndex, answerIndex, ok := h.answerParams(c)
	if !ok {
		return
	}

	draft, err := h.authoringService.RemoveAnswer(c.Request.Context(), draftID, questionIndex, answerIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// @Router /drafts/{draft_id}/questions/{question_index}/answers/{answer_index} [patch]
func (h *DraftHandler) UpdateAnswerField(c *gin.Context) {
	draftID, questionIndex, answerIndex, ok := h.answerParams(c)
	if !ok {
		return
	}

	var req services.UpdateAnswerFieldRequest
	if !h.bindJSON(c, &req) {
		return
	}

	draft, err := h.authoringService.UpdateAnswerField(c.Request.Context(), draftID, questionIndex, answerIndex, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// @Router /drafts/{draft_id}/questions/{question_index}/answers/{answer_index}/correct [post]
func (h *DraftHandler) SetCorrectAnswer(c *gin.Context) {
	draftID, questionIndex, answerIndex, ok := h.answerParams(c)
	if !ok {
		return
	}

	var req services.SetCorrectAnswerRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	draft, err := h.authoringService.SetCorrectAnswer(c.Request.Context(), draftID, questionIndex, answerIndex, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// ValidateDraft runs the pre-submit checks without persisting anything
// @Router /drafts/{draft_id}/validate [post]
func (h *DraftHandler) ValidateDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	validated, err := h.authoringService.ValidateDraft(c.Request.Context(), draftID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, validated)
}

// @Router /drafts/{draft_id}/submit [post]
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting draft", "draft_id", draftID)

	quiz, err := h.authoringService.SubmitDraft(c.Request.Context(), draftID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// ImportQuestions appends the questions of an uploaded .csv or .xlsx file
// @Router /drafts/{draft_id}/import [post]
func (h *DraftHandler) ImportQuestions(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unable to open uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "draft_id", draftID, "filename", fileHeader.Filename)

	result, err := h.importExportService.ImportQuestionsIntoDraft(c.Request.Context(), draftID, fileHeader.Filename, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *DraftHandler) answerParams(c *gin.Context) (string, int, int, bool) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return "", 0, 0, false
	}
	questionIndex, ok := h.parseIndexParam(c, "question_index")
	if !ok {
		return "", 0, 0, false
	}
	answerIndex, ok := h.parseIndexParam(c, "answer_index")
	if !ok {
		return "", 0, 0, false
	}
	return draftID, questionIndex, answerIndex, true
}
