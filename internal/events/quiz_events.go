package events

import (
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the lifecycle events published for quizzes
type EventType string

const (
	EventQuizCreated EventType = "quiz.created"
	EventQuizUpdated EventType = "quiz.updated"
	EventQuizDeleted EventType = "quiz.deleted"
)

const (
	eventSource  = "quiz-authoring-service"
	eventVersion = "1.0"
)

// QuizEvent is the envelope written to the quiz events topic
type QuizEvent struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Source    string        `json:"source"`
	Version   string        `json:"version"`
	Data      QuizEventData `json:"data"`
}

type QuizEventData struct {
	QuizID         uint   `json:"quizId"`
	FormationID    uint   `json:"formationId"`
	Title          string `json:"title"`
	QuizVersion    int    `json:"quizVersion,omitempty"`
	QuestionsCount int    `json:"questionsCount,omitempty"`
	TotalPoints    int    `json:"totalPoints,omitempty"`
}

func NewQuizEvent(eventType EventType, quiz *models.Quiz) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data: QuizEventData{
			QuizID:         quiz.ID,
			FormationID:    quiz.FormationID,
			Title:          quiz.Title,
			QuizVersion:    quiz.Version,
			QuestionsCount: quiz.QuestionsCount,
			TotalPoints:    quiz.TotalPoints,
		},
	}
}
