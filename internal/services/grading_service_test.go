package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func gradableQuiz(active bool) *models.Quiz {
	return &models.Quiz{
		ID: 5, Title: "Quiz Sécurité", PassingScore: 50, IsActive: active,
		Questions: []models.QuizQuestion{
			{ID: 1, Type: models.QuestionMultipleChoice, Points: 2, IsRequired: true,
				Answers: []models.QuizAnswer{{ID: 10, Answer: "Verrouiller", IsCorrect: true, Order: 1}, {ID: 11, Answer: "Partager", Order: 2}}},
			{ID: 2, Type: models.QuestionFillInBlank, Points: 2, Question: "Un mot de passe {fort}",
				Answers: []models.QuizAnswer{{ID: 20, Answer: "fort", IsCorrect: true, Order: 1}}},
		},
	}
}

func TestGradeSubmission(t *testing.T) {
	repo := &MockQuizRepository{}
	service := NewGradingService(repo, testLogger(), validator.New())
	repo.On("GetByID", mock.Anything, uint(5)).Return(gradableQuiz(true), nil)

	result, err := service.GradeSubmission(context.Background(), 5, &GradeRequest{
		Responses: map[uint]models.QuestionResponse{
			1: {SelectedAnswerIDs: []uint{10}},
			2: {Blanks: []string{"faible"}},
		},
		TimeSpent: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(5), result.QuizID)
	assert.Equal(t, 2, result.EarnedPoints)
	assert.Equal(t, 4, result.TotalPoints)
	assert.True(t, result.Passed)
}

func TestGradeSubmission_Rejects(t *testing.T) {
	repo := &MockQuizRepository{}
	service := NewGradingService(repo, testLogger(), validator.New())
	repo.On("GetByID", mock.Anything, uint(5)).Return(gradableQuiz(true), nil)
	repo.On("GetByID", mock.Anything, uint(6)).Return(gradableQuiz(false), nil)
	repo.On("GetByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
	ctx := context.Background()

	_, err := service.GradeSubmission(ctx, 5, &GradeRequest{})
	assert.True(t, IsValidation(err), "responses are required")

	_, err = service.GradeSubmission(ctx, 7, &GradeRequest{Responses: map[uint]models.QuestionResponse{}})
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = service.GradeSubmission(ctx, 6, &GradeRequest{Responses: map[uint]models.QuestionResponse{1: {SelectedAnswerIDs: []uint{10}}}})
	var bre *BusinessRuleError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, "quiz_inactive", bre.Rule)

	_, err = service.GradeSubmission(ctx, 5, &GradeRequest{Responses: map[uint]models.QuestionResponse{2: {Blanks: []string{"fort"}}}})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "responses.1", verrs[0].Field)
	assert.Equal(t, "required", verrs[0].Rule)
}
