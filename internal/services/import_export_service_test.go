package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newImportFixture(t *testing.T) (ImportExportService, *MockQuizRepository, *cache.MemoryDraftStore) {
	t.Helper()
	repo := &MockQuizRepository{}
	drafts := newTestDraftStore()
	require.NoError(t, drafts.Save(context.Background(), &cache.DraftSession{ID: "draft-1", Draft: authoring.Fresh()}))
	return NewImportExportService(repo, drafts, testLogger()), repo, drafts
}

func exportableQuiz() *models.Quiz {
	quiz := &models.Quiz{
		ID: 12, FormationID: 3, Title: "Quiz Animaux", PassingScore: 50, IsActive: true, Version: 2,
		Questions: []models.QuizQuestion{
			{ID: 1, Question: "Lesquels sont des félins ?", Type: models.QuestionMultipleChoice, Order: 1, Points: 2, IsRequired: true,
				Answers: []models.QuizAnswer{
					{ID: 10, Answer: "Chat", IsCorrect: true, Order: 1},
					{ID: 11, Answer: "Chien", Order: 2},
					{ID: 12, Answer: "Lynx", IsCorrect: true, Order: 3},
				}},
			{ID: 2, Question: "Le chat miaule", Type: models.QuestionTrueFalse, Order: 2, Points: 1, IsRequired: true,
				Answers: []models.QuizAnswer{
					{ID: 20, Answer: "Vrai", IsCorrect: true, Order: 1},
					{ID: 21, Answer: "Faux", Order: 2},
				}},
			{ID: 3, Question: "Le {chat} dort sur le {canapé}", Type: models.QuestionFillInBlank, Order: 3, Points: 3,
				Answers: []models.QuizAnswer{
					{ID: 30, Answer: "chat", IsCorrect: true, Order: 1},
					{ID: 31, Answer: "canapé", IsCorrect: true, Order: 2},
				}},
		},
	}
	quiz.CalculateComputedFields()
	return quiz
}

func TestImportQuestionsIntoDraft_CSVWithMixedRows(t *testing.T) {
	service, _, drafts := newImportFixture(t)
	file := strings.Join([]string{
		"type,question,answers,correct,points,required",
		"multiple_choice,Capitale de la France ?,Paris | Lyon | Nice,1,2,true",
		"true_false,Le ciel est vert,,faux,1,",
		"fill_in_blank,Le {chat} dort,,,3,false",
		"essay,Question inconnue,,,1,",
		"multiple_choice,Une seule réponse,Oui,1,1,",
		",,,,,",
		"text,Décrivez votre poste,,,5,",
	}, "\n")

	result, err := service.ImportQuestionsIntoDraft(context.Background(), "draft-1", "questions.csv", strings.NewReader(file))

	require.NoError(t, err)
	assert.Equal(t, 6, result.TotalRows, "blank rows are not counted")
	assert.Equal(t, 4, result.ImportedCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, models.ImportPartial, result.Status)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, models.ImportValidationError{Row: 5, Column: "type", Code: "invalid_type", Value: "essay",
		Message: "must be one of multiple_choice, true_false, text, fill_in_blank"}, result.Errors[0])
	assert.Equal(t, 6, result.Errors[1].Row)
	assert.Equal(t, "answers", result.Errors[1].Column)
	assert.Equal(t, "answer_count", result.Errors[1].Code)
	assert.Equal(t, "Oui", result.Errors[1].Value)

	session, err := drafts.Get(context.Background(), "draft-1")
	require.NoError(t, err)
	questions := session.Draft.Questions
	require.Len(t, questions, 4, "placeholder question replaced")

	assert.Equal(t, "Capitale de la France ?", questions[0].Text)
	assert.Equal(t, 2, questions[0].Points)
	require.Len(t, questions[0].Answers, 3)
	assert.True(t, questions[0].Answers[0].IsCorrect)
	assert.False(t, questions[0].Answers[1].IsCorrect)
	assert.Equal(t, "Nice", questions[0].Answers[2].Text)

	assert.Equal(t, models.QuestionTrueFalse, questions[1].Type)
	assert.False(t, questions[1].Answers[0].IsCorrect)
	assert.True(t, questions[1].Answers[1].IsCorrect)

	assert.Equal(t, models.QuestionFillInBlank, questions[2].Type)
	require.Len(t, questions[2].Answers, 1)
	assert.Equal(t, "chat", questions[2].Answers[0].Text)
	assert.False(t, questions[2].IsRequired)

	assert.Equal(t, models.QuestionText, questions[3].Type)
	assert.Equal(t, 5, questions[3].Points)
	for i, q := range questions {
		assert.Equal(t, i+1, q.Order)
	}
}

func TestImportQuestionsIntoDraft_NothingImportedKeepsDraft(t *testing.T) {
	service, _, drafts := newImportFixture(t)
	file := "type,question,answers,correct,points\ntrue_false,Le ciel est bleu,,peut-être,1\n"

	result, err := service.ImportQuestionsIntoDraft(context.Background(), "draft-1", "questions.csv", strings.NewReader(file))

	require.NoError(t, err)
	assert.Equal(t, models.ImportValidationFailed, result.Status)
	assert.Equal(t, "correct", result.Errors[0].Column)

	session, err := drafts.Get(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.Len(t, session.Draft.Questions, 1)
	assert.Empty(t, session.Draft.Questions[0].Text)
}

func TestImportQuestionsIntoDraft_RejectsFile(t *testing.T) {
	service, _, _ := newImportFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		draftID  string
		filename string
		content  string
		wantErr  error
	}{
		{"unsupported extension", "draft-1", "questions.pdf", "type", ErrUnsupportedFile},
		{"header only", "draft-1", "questions.csv", "type,question,answers,correct,points\n", ErrEmptyImportFile},
		{"missing column", "draft-1", "questions.csv", "type,question,answers,points\ntext,Pourquoi ?,,1\n", ErrMissingImportField},
		{"unknown draft", "draft-404", "questions.csv", "type", ErrDraftNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ImportQuestionsIntoDraft(ctx, tt.draftID, tt.filename, strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExportQuizToCSV(t *testing.T) {
	service, repo, _ := newImportFixture(t)
	repo.On("GetByID", mock.Anything, uint(12)).Return(exportableQuiz(), nil)

	data, err := service.ExportQuizToCSV(context.Background(), 12)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "order,type,question,answers,correct,points,required", lines[0])
	assert.Equal(t, "1,multiple_choice,Lesquels sont des félins ?,Chat | Chien | Lynx,\"1,3\",2,true", lines[1])
	assert.Equal(t, "2,true_false,Le chat miaule,Vrai | Faux,true,1,true", lines[2])
}

func TestExportQuiz_UnknownQuiz(t *testing.T) {
	service, repo, _ := newImportFixture(t)
	repo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.ExportQuizToExcel(context.Background(), 99)
	assert.ErrorIs(t, err, ErrQuizNotFound)
	_, err = service.ExportQuizToCSV(context.Background(), 99)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestExportThenImport_ExcelRoundTrip(t *testing.T) {
	service, repo, drafts := newImportFixture(t)
	ctx := context.Background()
	source := exportableQuiz()
	repo.On("GetByID", mock.Anything, uint(12)).Return(source, nil)

	data, err := service.ExportQuizToExcel(ctx, 12)
	require.NoError(t, err)

	result, err := service.ImportQuestionsIntoDraft(ctx, "draft-1", "export.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, models.ImportCompleted, result.Status)
	assert.Equal(t, 3, result.ImportedCount)

	session, err := drafts.Get(ctx, "draft-1")
	require.NoError(t, err)
	require.Len(t, session.Draft.Questions, len(source.Questions))
	for i, want := range source.Questions {
		got := session.Draft.Questions[i]
		assert.Equal(t, want.Question, got.Text)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Points, got.Points)
		assert.Equal(t, want.IsRequired, got.IsRequired)
		require.Len(t, got.Answers, len(want.Answers))
		for j, a := range want.Answers {
			assert.Equal(t, a.Answer, got.Answers[j].Text)
			assert.Equal(t, a.IsCorrect, got.Answers[j].IsCorrect)
		}
	}

	_, err = authoring.Validate(session.Draft.Clone())
	assert.ErrorIs(t, err, authoring.ErrMissingTitle, "only questions are imported")
}

func TestImportQuestionsIntoDraft_HonoursOrderColumn(t *testing.T) {
	service, _, drafts := newImportFixture(t)
	file := strings.Join([]string{
		"order,type,question,answers,correct,points",
		"3,text,Troisième,,,1",
		",text,Sans ordre,,,1",
		"1,text,Première,,,1",
		"deux,text,Ordre invalide,,,1",
		"2,essay,Type inconnu,,,1",
		"2,text,Deuxième,,,1",
	}, "\n")

	result, err := service.ImportQuestionsIntoDraft(context.Background(), "draft-1", "questions.csv", strings.NewReader(file))

	require.NoError(t, err)
	assert.Equal(t, 4, result.ImportedCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, models.ImportValidationError{Row: 5, Column: "order", Code: "invalid_value", Value: "deux",
		Message: "must be a whole number of at least 1"}, result.Errors[0])
	assert.Equal(t, 6, result.Errors[1].Row, "errors reported in file order")

	session, err := drafts.Get(context.Background(), "draft-1")
	require.NoError(t, err)
	var texts []string
	for i, q := range session.Draft.Questions {
		texts = append(texts, q.Text)
		assert.Equal(t, i+1, q.Order, "orders stay dense")
	}
	assert.Equal(t, []string{"Première", "Deuxième", "Troisième", "Sans ordre"}, texts)
}

func TestExportThenImport_AnswersContainingSeparator(t *testing.T) {
	service, repo, drafts := newImportFixture(t)
	ctx := context.Background()
	quiz := &models.Quiz{
		ID: 14, FormationID: 3, Title: "Quiz Shell",
		Questions: []models.QuizQuestion{
			{ID: 1, Question: "Quelle commande compte les lignes ?", Type: models.QuestionMultipleChoice, Order: 1, Points: 1, IsRequired: true,
				Answers: []models.QuizAnswer{
					{ID: 10, Answer: "cat f | wc -l", IsCorrect: true, Order: 1},
					{ID: 11, Answer: `grep \| f`, Order: 2},
					{ID: 12, Answer: `C:\temp\`, Order: 3},
				}},
		},
	}
	repo.On("GetByID", mock.Anything, uint(14)).Return(quiz, nil)

	data, err := service.ExportQuizToCSV(ctx, 14)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cat f \| wc -l | grep \\\| f | C:\\temp\\`)

	result, err := service.ImportQuestionsIntoDraft(ctx, "draft-1", "export.csv", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, models.ImportCompleted, result.Status)

	session, err := drafts.Get(ctx, "draft-1")
	require.NoError(t, err)
	answers := session.Draft.Questions[0].Answers
	require.Len(t, answers, 3)
	assert.Equal(t, "cat f | wc -l", answers[0].Text)
	assert.Equal(t, `grep \| f`, answers[1].Text)
	assert.Equal(t, `C:\temp\`, answers[2].Text)
	assert.True(t, answers[0].IsCorrect)
}

func TestSplitAnswers_KeepsUnrelatedBackslashes(t *testing.T) {
	assert.Equal(t, []string{`C:\temp`, "B"}, splitAnswers(`C:\temp | B`))
	assert.Equal(t, []string{"A", "B"}, splitAnswers("A|B|"))
	assert.Nil(t, splitAnswers("  "))
}
