package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	draftHandler *DraftHandler
	quizHandler  *QuizHandler
	logger       utils.Logger
}

func NewHandlerManager(
	authoringService services.QuizAuthoringService,
	importExportService services.ImportExportService,
	gradingService services.GradingService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		draftHandler: NewDraftHandler(authoringService, importExportService, logger),
		quizHandler:  NewQuizHandler(authoringService, importExportService, gradingService, logger),
		logger:       logger,
	}
}

// SetupRoutes sets up the middleware chain and all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(
		utils.RequestID(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		gin.Recovery(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quiz-authoring-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Authoring sessions
		drafts := v1.Group("/drafts")
		{
			drafts.POST("", hm.draftHandler.StartDraft)
			drafts.GET("/:draft_id", hm.draftHandler.GetDraft)
			drafts.DELETE("/:draft_id", hm.draftHandler.DiscardDraft)
			drafts.PUT("/:draft_id/metadata", hm.draftHandler.UpdateMetadata)
			drafts.POST("/:draft_id/validate", hm.draftHandler.ValidateDraft)
			drafts.POST("/:draft_id/submit", hm.draftHandler.SubmitDraft)
			drafts.POST("/:draft_id/import", hm.draftHandler.ImportQuestions)

			questions := drafts.Group("/:draft_id/questions")
			{
				questions.POST("", hm.draftHandler.AddQuestion)
				questions.DELETE("/:question_index", hm.draftHandler.RemoveQuestion)
				questions.PATCH("/:question_index", hm.draftHandler.UpdateQuestionField)
				questions.POST("/:question_index/answers", hm.draftHandler.AddAnswer)
				questions.DELETE("/:question_index/answers/:answer_index", hm.draftHandler.RemoveAnswer)
				questions.PATCH("/:question_index/answers/:answer_index", hm.draftHandler.UpdateAnswerField)
				questions.POST("/:question_index/answers/:answer_index/correct", hm.draftHandler.SetCorrectAnswer)
			}
		}

		// Persisted quizzes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.DELETE("/:id", hm.quizHandler.DeleteQuiz)
			quizzes.POST("/:id/drafts", hm.draftHandler.EditQuiz)
			quizzes.GET("/:id/revisions", hm.quizHandler.ListRevisions)
			quizzes.GET("/:id/export", hm.quizHandler.ExportQuiz)
			quizzes.POST("/:id/grade", hm.quizHandler.GradeSubmission)
		}

		v1.GET("/formations/:formation_id/quizzes", hm.quizHandler.ListFormationQuizzes)
	}
}
