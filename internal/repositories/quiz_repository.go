package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"gorm.io/gorm"
)

// QuizRepository persists quizzes with their questions and answers
type QuizRepository interface {
	// Save creates the quiz when ID is zero, otherwise replaces the stored
	// quiz and its question set atomically. A revision snapshot is written
	// on every save.
	Save(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)
	GetByID(ctx context.Context, id uint) (*models.Quiz, error) // Include questions and answers
	ListByFormation(ctx context.Context, formationID uint, filters QuizFilters) ([]*models.Quiz, int64, error)
	Delete(ctx context.Context, id uint) error // Soft delete

	ListRevisions(ctx context.Context, quizID uint) ([]*models.QuizRevision, error)
}

// IsNotFoundError reports whether err comes from a lookup that matched no row
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
