package services

import (
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

// ===== REQUESTS =====

type StartDraftRequest struct {
	FormationID uint `json:"formationId" validate:"required"`
}

// UpdateMetadataRequest carries the quiz level fields to change. Nil fields
// are left untouched; ClearTimeLimit removes the time limit.
type UpdateMetadataRequest struct {
	Title          *string `json:"title" validate:"omitempty,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=2000"`
	PassingScore   *int    `json:"passingScore" validate:"omitempty,min=1,max=100"`
	TimeLimit      *int    `json:"timeLimit" validate:"omitempty,min=1,max=600"`
	ClearTimeLimit bool    `json:"clearTimeLimit"`
	IsActive       *bool   `json:"isActive"`
}

type AddQuestionRequest struct {
	Type models.QuestionType `json:"type" validate:"omitempty,question_type"`
}

type UpdateQuestionFieldRequest struct {
	Field authoring.QuestionField `json:"field" validate:"required,question_field"`
	Value interface{}             `json:"value"`
}

type UpdateAnswerFieldRequest struct {
	Field authoring.AnswerField `json:"field" validate:"required,answer_field"`
	Value interface{}           `json:"value"`
}

// SetCorrectAnswerRequest selects an answer. Without AllowMultiple,
// multiple_choice answers toggle independently.
type SetCorrectAnswerRequest struct {
	AllowMultiple *bool `json:"allowMultiple"`
}

type GradeRequest struct {
	Responses map[uint]models.QuestionResponse `json:"responses" validate:"required"`
	TimeSpent int                              `json:"timeSpent" validate:"omitempty,min=0"`
}

// ===== RESPONSES =====

type DraftResponse struct {
	DraftID     string               `json:"draftId"`
	QuizID      *uint                `json:"quizId,omitempty"`
	Draft       *authoring.QuizDraft `json:"draft"`
	TotalPoints int                  `json:"totalPoints"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func newDraftResponse(session *cache.DraftSession) *DraftResponse {
	return &DraftResponse{
		DraftID:     session.ID,
		QuizID:      session.QuizID,
		Draft:       session.Draft,
		TotalPoints: session.Draft.TotalPoints(),
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}

type QuizListResponse struct {
	Quizzes []*models.Quiz `json:"quizzes"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}
