package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Save(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	args := m.Called(ctx, quiz)
	saved, _ := args.Get(0).(*models.Quiz)
	return saved, args.Error(1)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *MockQuizRepository) ListByFormation(ctx context.Context, formationID uint, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, formationID, filters)
	quizzes, _ := args.Get(0).([]*models.Quiz)
	return quizzes, args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) ListRevisions(ctx context.Context, quizID uint) ([]*models.QuizRevision, error) {
	args := m.Called(ctx, quizID)
	revisions, _ := args.Get(0).([]*models.QuizRevision)
	return revisions, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDraftStore() *cache.MemoryDraftStore {
	return cache.NewMemoryDraftStore(cache.StoreConfig{})
}
