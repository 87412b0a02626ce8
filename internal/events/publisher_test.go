package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleQuiz() *models.Quiz {
	return &models.Quiz{
		ID:             3,
		FormationID:    12,
		Title:          "Quiz Sécurité",
		Version:        2,
		QuestionsCount: 4,
		TotalPoints:    6,
	}
}

func TestNewQuizEvent(t *testing.T) {
	event := NewQuizEvent(EventQuizUpdated, sampleQuiz())

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventQuizUpdated, event.Type)
	assert.Equal(t, "quiz-authoring-service", event.Source)
	assert.Equal(t, QuizEventData{
		QuizID:         3,
		FormationID:    12,
		Title:          "Quiz Sécurité",
		QuizVersion:    2,
		QuestionsCount: 4,
		TotalPoints:    6,
	}, event.Data)
	assert.NotEqual(t, event.ID, NewQuizEvent(EventQuizUpdated, sampleQuiz()).ID)
}

func TestGoChannelPublisher_DeliversMessageWithMetadata(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	publisher, pubSub := NewGoChannelEventPublisher(PublisherConfig{TopicName: "quiz-events", Logger: testLogger()})
	defer publisher.Close()

	messages, err := pubSub.Subscribe(ctx, "quiz-events")
	require.NoError(t, err)

	event := NewQuizEvent(EventQuizCreated, sampleQuiz())
	require.NoError(t, publisher.PublishQuizEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, "quiz.created", msg.Metadata.Get("event_type"))
		assert.Equal(t, "3", msg.Metadata.Get("quiz_id"))

		var decoded QuizEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, event.Data, decoded.Data)
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())

	require.NoError(t, mock.PublishQuizEvent(context.Background(), NewQuizEvent(EventQuizDeleted, sampleQuiz())))

	published := mock.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, EventQuizDeleted, published[0].Type)

	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())
}
