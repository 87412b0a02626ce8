package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db: db,
	}
}

// Save creates or replaces a quiz with its full question set
func (q *QuizPostgreSQL) Save(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	questions := quiz.Questions

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if quiz.ID == 0 {
			quiz.Version = 1
			if err := tx.Omit(clause.Associations).Create(quiz).Error; err != nil {
				return fmt.Errorf("failed to create quiz: %w", err)
			}
		} else {
			var current models.Quiz
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, quiz.ID).Error; err != nil {
				return fmt.Errorf("failed to load quiz %d: %w", quiz.ID, err)
			}

			quiz.Version = current.Version + 1
			quiz.CreatedAt = current.CreatedAt
			if err := tx.Omit(clause.Associations).Save(quiz).Error; err != nil {
				return fmt.Errorf("failed to update quiz: %w", err)
			}

			if err := q.deleteQuestionSet(tx, quiz.ID); err != nil {
				return err
			}
		}

		if err := q.createQuestionSet(tx, quiz.ID, questions); err != nil {
			return err
		}

		return q.createRevision(tx, quiz)
	})
	if err != nil {
		return nil, err
	}

	return q.GetByID(ctx, quiz.ID)
}

func (q *QuizPostgreSQL) deleteQuestionSet(tx *gorm.DB, quizID uint) error {
	questionIDs := tx.Model(&models.QuizQuestion{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.QuizAnswer{}).Error; err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizQuestion{}).Error; err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}

// createQuestionSet inserts questions then their answers. Existing IDs are
// kept so that submissions referencing answer IDs stay valid across edits.
func (q *QuizPostgreSQL) createQuestionSet(tx *gorm.DB, quizID uint, questions []models.QuizQuestion) error {
	for i := range questions {
		question := &questions[i]
		question.QuizID = quizID
		if err := tx.Omit("Answers").Create(question).Error; err != nil {
			return fmt.Errorf("failed to create question %d: %w", question.Order, err)
		}

		if len(question.Answers) == 0 {
			continue
		}
		for j := range question.Answers {
			question.Answers[j].QuestionID = question.ID
		}
		if err := tx.Create(&question.Answers).Error; err != nil {
			return fmt.Errorf("failed to create answers for question %d: %w", question.Order, err)
		}
	}
	return nil
}

func (q *QuizPostgreSQL) createRevision(tx *gorm.DB, quiz *models.Quiz) error {
	quiz.CalculateComputedFields()
	snapshot, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("failed to encode revision snapshot: %w", err)
	}

	revision := &models.QuizRevision{
		QuizID:   quiz.ID,
		Version:  quiz.Version,
		Snapshot: datatypes.JSON(snapshot),
	}
	if err := tx.Create(revision).Error; err != nil {
		return fmt.Errorf("failed to create revision: %w", err)
	}
	return nil
}

// GetByID retrieves a quiz with questions and answers in authored order
func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quiz, id).Error

	if err != nil {
		return nil, err
	}

	quiz.CalculateComputedFields()
	return &quiz, nil
}

func (q *QuizPostgreSQL) ListByFormation(ctx context.Context, formationID uint, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("formation_id = ?", formationID)
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	query = query.Order(filters.OrderClause())
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var quizzes []*models.Quiz
	err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	for _, quiz := range quizzes {
		quiz.CalculateComputedFields()
	}
	return quizzes, total, nil
}

// Delete soft deletes a quiz; its questions stay for revision history
func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) ListRevisions(ctx context.Context, quizID uint) ([]*models.QuizRevision, error) {
	var revisions []*models.QuizRevision
	err := q.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("version DESC").
		Find(&revisions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}
