package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Runs against a disposable database when DATABASE_TEST_URL is set.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_TEST_URL")
	if dsn == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Quiz{}, &models.QuizQuestion{}, &models.QuizAnswer{}, &models.QuizRevision{}))
	t.Cleanup(func() {
		db.Exec("TRUNCATE quiz_answers, quiz_questions, quiz_revisions, quizzes RESTART IDENTITY")
	})
	return db
}

func newQuizPayload() *models.Quiz {
	return &models.Quiz{
		FormationID:  5,
		Title:        "Quiz Sécurité",
		PassingScore: 80,
		IsActive:     true,
		Questions: []models.QuizQuestion{
			{
				Question: "Le ciel est bleu", Type: models.QuestionTrueFalse, Order: 1, Points: 1,
				Answers: []models.QuizAnswer{
					{Answer: "Vrai", IsCorrect: true, Order: 1},
					{Answer: "Faux", Order: 2},
				},
			},
			{
				Question: "Décrivez la procédure", Type: models.QuestionText, Order: 2, Points: 3,
				Answers: []models.QuizAnswer{{Answer: "Réponse libre", IsCorrect: true, Order: 1}},
			},
		},
	}
}

func TestQuizPostgreSQL_CreateThenReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizPostgreSQL(newTestDB(t))

	created, err := repo.Save(ctx, newQuizPayload())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 1, created.Version)
	assert.Equal(t, 4, created.TotalPoints)
	require.Len(t, created.Questions, 2)
	assert.Equal(t, "Vrai", created.Questions[0].Answers[0].Answer)

	keptAnswerID := created.Questions[0].Answers[0].ID
	edit := *created
	edit.Title = "Quiz Sécurité v2"
	edit.IsActive = false
	edit.Questions = created.Questions[:1]

	updated, err := repo.Save(ctx, &edit)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 2, updated.Version)
	assert.False(t, updated.IsActive)
	require.Len(t, updated.Questions, 1)
	assert.Equal(t, keptAnswerID, updated.Questions[0].Answers[0].ID)

	revisions, err := repo.ListRevisions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, 2, revisions[0].Version)

	var snapshot models.Quiz
	require.NoError(t, json.Unmarshal(revisions[0].Snapshot, &snapshot))
	assert.Equal(t, "Quiz Sécurité v2", snapshot.Title)
}

func TestQuizPostgreSQL_SaveUnknownQuiz(t *testing.T) {
	repo := NewQuizPostgreSQL(newTestDB(t))
	payload := newQuizPayload()
	payload.ID = 999

	_, err := repo.Save(context.Background(), payload)

	assert.True(t, repositories.IsNotFoundError(err))
}

func TestQuizPostgreSQL_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizPostgreSQL(newTestDB(t))

	first, err := repo.Save(ctx, newQuizPayload())
	require.NoError(t, err)
	second := newQuizPayload()
	second.Title = "Quiz Réseau"
	_, err = repo.Save(ctx, second)
	require.NoError(t, err)

	quizzes, total, err := repo.ListByFormation(ctx, 5, repositories.QuizFilters{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Quiz Réseau", quizzes[0].Title)
	assert.Equal(t, 2, quizzes[0].QuestionsCount)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.True(t, repositories.IsNotFoundError(err))
	assert.True(t, repositories.IsNotFoundError(repo.Delete(ctx, first.ID)))
}
