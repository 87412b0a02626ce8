package authoring

import (
	"testing"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func assertDenseOrders(t *testing.T, d *QuizDraft) {
	t.Helper()
	for i, q := range d.Questions {
		assert.Equal(t, i+1, q.Order, "question %d order", i)
		for j, a := range q.Answers {
			assert.Equal(t, j+1, a.Order, "question %d answer %d order", i, j)
		}
	}
}

func TestFresh(t *testing.T) {
	d := Fresh()

	assert.Equal(t, 80, d.PassingScore)
	assert.True(t, d.IsActive)
	assert.Empty(t, d.Title)
	assert.Empty(t, d.Description)
	assert.Nil(t, d.TimeLimitMinutes)

	require.Len(t, d.Questions, 1)
	q := d.Questions[0]
	assert.Equal(t, models.QuestionMultipleChoice, q.Type)
	assert.Equal(t, 1, q.Order)
	assert.Equal(t, 1, q.Points)
	assert.True(t, q.IsRequired)
	assert.Equal(t, []AnswerDraft{{Order: 1}, {Order: 2}}, q.Answers)
}

func TestFromExisting(t *testing.T) {
	quiz := &models.Quiz{
		ID:           7,
		FormationID:  3,
		Title:        "Quiz Sécurité",
		Description:  "Les bases",
		PassingScore: 70,
		TimeLimit:    intPtr(15),
		IsActive:     false,
		Questions: []models.QuizQuestion{
			{
				ID:         11,
				Question:   "Le ciel est bleu",
				Type:       models.QuestionTrueFalse,
				Order:      4,
				Points:     2,
				IsRequired: false,
				Answers: []models.QuizAnswer{
					{ID: 21, Answer: "Vrai", IsCorrect: true, Order: 1},
					{ID: 22, Answer: "Faux", IsCorrect: false, Order: 2},
				},
			},
		},
	}

	d := FromExisting(quiz)

	assert.Equal(t, uint(7), d.ID)
	assert.Equal(t, uint(3), d.FormationID)
	assert.Equal(t, "Quiz Sécurité", d.Title)
	assert.Equal(t, "Les bases", d.Description)
	assert.Equal(t, 70, d.PassingScore)
	require.NotNil(t, d.TimeLimitMinutes)
	assert.Equal(t, 15, *d.TimeLimitMinutes)
	assert.False(t, d.IsActive)

	require.Len(t, d.Questions, 1)
	q := d.Questions[0]
	assert.Equal(t, uint(11), q.ID)
	assert.Equal(t, "Le ciel est bleu", q.Text)
	assert.Equal(t, 4, q.Order, "persisted order is preserved")
	assert.Equal(t, 2, q.Points)
	assert.False(t, q.IsRequired)
	assert.Equal(t, []AnswerDraft{
		{ID: 21, Text: "Vrai", IsCorrect: true, Order: 1},
		{ID: 22, Text: "Faux", IsCorrect: false, Order: 2},
	}, q.Answers)

	// the draft does not alias the record
	*quiz.TimeLimit = 99
	assert.Equal(t, 15, *d.TimeLimitMinutes)
}

func TestFromExisting_SortsByOrder(t *testing.T) {
	quiz := &models.Quiz{
		Questions: []models.QuizQuestion{
			{ID: 12, Question: "Deuxième", Type: models.QuestionMultipleChoice, Order: 5,
				Answers: []models.QuizAnswer{
					{ID: 33, Answer: "C", Order: 3},
					{ID: 31, Answer: "A", Order: 1},
					{ID: 32, Answer: "B", Order: 2},
				}},
			{ID: 11, Question: "Première", Type: models.QuestionText, Order: 2},
			{ID: 13, Question: "Troisième", Type: models.QuestionText, Order: 5},
		},
	}

	d := FromExisting(quiz)

	require.Len(t, d.Questions, 3)
	assert.Equal(t, uint(11), d.Questions[0].ID)
	assert.Equal(t, uint(12), d.Questions[1].ID, "equal orders keep stored sequence")
	assert.Equal(t, uint(13), d.Questions[2].ID)
	assert.Equal(t, []int{2, 5, 5}, []int{d.Questions[0].Order, d.Questions[1].Order, d.Questions[2].Order}, "order values untouched")
	assert.Equal(t, []string{"A", "B", "C"}, []string{d.Questions[1].Answers[0].Text, d.Questions[1].Answers[1].Text, d.Questions[1].Answers[2].Text})
	assert.Equal(t, uint(12), quiz.Questions[0].ID, "record slice not reordered")
}

func TestClone_IsDeep(t *testing.T) {
	d := Fresh()
	d.TimeLimitMinutes = intPtr(10)

	c := d.Clone()
	require.NoError(t, c.SetAnswerText(0, 0, "Paris"))
	c.AddQuestion()
	*c.TimeLimitMinutes = 20

	assert.Empty(t, d.Questions[0].Answers[0].Text)
	assert.Len(t, d.Questions, 1)
	assert.Equal(t, 10, *d.TimeLimitMinutes)
}

func TestCallerPolicies(t *testing.T) {
	d := Fresh()
	assert.False(t, d.CanRemoveQuestion())
	d.AddQuestion()
	assert.True(t, d.CanRemoveQuestion())

	q := &d.Questions[0]
	assert.True(t, q.CanAddAnswer())
	assert.False(t, q.CanRemoveAnswer())

	for len(q.Answers) < MaxChoiceAnswers {
		_, err := d.AddAnswer(0)
		require.NoError(t, err)
	}
	assert.False(t, q.CanAddAnswer())
	assert.True(t, q.CanRemoveAnswer())

	require.NoError(t, d.SetQuestionType(1, models.QuestionTrueFalse))
	assert.False(t, d.Questions[1].CanAddAnswer())
	assert.False(t, d.Questions[1].CanRemoveAnswer())
}
