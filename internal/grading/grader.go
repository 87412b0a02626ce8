// Package grading scores learner submissions against a persisted quiz.
package grading

import (
	"sort"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

// QuestionResult is the outcome of grading one question.
type QuestionResult struct {
	QuestionID   uint                `json:"questionId"`
	Type         models.QuestionType `json:"type"`
	EarnedPoints int                 `json:"earnedPoints"`
	MaxPoints    int                 `json:"maxPoints"`
	Correct      bool                `json:"correct"`
	NeedsManual  bool                `json:"needsManual"`
}

type Result struct {
	QuizID        uint             `json:"quizId"`
	EarnedPoints  int              `json:"earnedPoints"`
	TotalPoints   int              `json:"totalPoints"`
	Percentage    float64          `json:"percentage"`
	PassingScore  int              `json:"passingScore"`
	Passed        bool             `json:"passed"`
	PendingManual bool             `json:"pendingManual"`
	Questions     []QuestionResult `json:"questions"`
}

// Strategy decides whether a response fully answers a question.
type Strategy interface {
	Correct(q *models.QuizQuestion, r models.QuestionResponse) bool
}

type StrategyFunc func(q *models.QuizQuestion, r models.QuestionResponse) bool

func (f StrategyFunc) Correct(q *models.QuizQuestion, r models.QuestionResponse) bool {
	return f(q, r)
}

// Grader routes each question to the strategy of its type. Question types
// without a strategy are left for manual grading.
type Grader struct {
	strategies map[models.QuestionType]Strategy
}

func NewGrader() *Grader {
	return &Grader{
		strategies: map[models.QuestionType]Strategy{
			models.QuestionMultipleChoice: StrategyFunc(gradeMultipleChoice),
			models.QuestionTrueFalse:      StrategyFunc(gradeTrueFalse),
			models.QuestionFillInBlank:    StrategyFunc(gradeFillInBlank),
		},
	}
}

// Grade scores every question of the quiz. A question is all or nothing. The
// quiz is only marked as passed once no question waits for manual grading.
func (g *Grader) Grade(quiz *models.Quiz, submission *models.Submission) *Result {
	result := &Result{
		QuizID:       quiz.ID,
		PassingScore: quiz.PassingScore,
		Questions:    make([]QuestionResult, 0, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		qr := QuestionResult{
			QuestionID: q.ID,
			Type:       q.Type,
			MaxPoints:  q.Points,
		}

		strategy, ok := g.strategies[q.Type]
		if !ok {
			qr.NeedsManual = true
			result.PendingManual = true
		} else if strategy.Correct(q, submission.Responses[q.ID]) {
			qr.Correct = true
			qr.EarnedPoints = q.Points
		}

		result.EarnedPoints += qr.EarnedPoints
		result.TotalPoints += qr.MaxPoints
		result.Questions = append(result.Questions, qr)
	}

	if result.TotalPoints > 0 {
		result.Percentage = float64(result.EarnedPoints) * 100 / float64(result.TotalPoints)
	}
	result.Passed = !result.PendingManual && result.Percentage >= float64(quiz.PassingScore)

	return result
}

func gradeMultipleChoice(q *models.QuizQuestion, r models.QuestionResponse) bool {
	selected := make(map[uint]bool, len(r.SelectedAnswerIDs))
	for _, id := range r.SelectedAnswerIDs {
		selected[id] = true
	}

	correctCount := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			correctCount++
			if !selected[a.ID] {
				return false
			}
		} else if selected[a.ID] {
			return false
		}
	}
	return correctCount > 0 && len(selected) == correctCount
}

func gradeTrueFalse(q *models.QuizQuestion, r models.QuestionResponse) bool {
	if len(r.SelectedAnswerIDs) != 1 {
		return false
	}
	for _, a := range q.Answers {
		if a.ID == r.SelectedAnswerIDs[0] {
			return a.IsCorrect
		}
	}
	return false
}

// gradeFillInBlank compares blank values positionally with the answers in
// their authored order.
func gradeFillInBlank(q *models.QuizQuestion, r models.QuestionResponse) bool {
	if len(q.Answers) == 0 || len(r.Blanks) != len(q.Answers) {
		return false
	}

	expected := append([]models.QuizAnswer{}, q.Answers...)
	sort.SliceStable(expected, func(i, j int) bool {
		return expected[i].Order < expected[j].Order
	})

	for i, a := range expected {
		if !authoring.MatchBlank(a.Answer, r.Blanks[i]) {
			return false
		}
	}
	return true
}
