// Package authoring holds the in-memory quiz draft edited by an author and the
// operations allowed on it. Nothing here performs I/O: callers load a draft,
// apply operations, validate, and hand the payload to a persistence layer.
package authoring

import (
	"cmp"
	"slices"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

const (
	DefaultPassingScore = 80
	DefaultPoints       = 1

	// Answer count policy for multiple_choice questions. The engine documents
	// these bounds; enforcing them is up to the caller.
	MinChoiceAnswers = 2
	MaxChoiceAnswers = 6

	TrueLabel           = "Vrai"
	FalseLabel          = "Faux"
	FreeTextPlaceholder = "Réponse libre"
)

type QuizDraft struct {
	ID               uint            `json:"id,omitempty"`
	FormationID      uint            `json:"formationId,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	PassingScore     int             `json:"passingScore"`
	TimeLimitMinutes *int            `json:"timeLimit,omitempty"`
	IsActive         bool            `json:"isActive"`
	Questions        []QuestionDraft `json:"questions"`
}

type QuestionDraft struct {
	ID         uint                `json:"id,omitempty"`
	Text       string              `json:"text"`
	Type       models.QuestionType `json:"type"`
	Order      int                 `json:"order"`
	Points     int                 `json:"points"`
	IsRequired bool                `json:"isRequired"`
	Answers    []AnswerDraft       `json:"answers"`
}

type AnswerDraft struct {
	ID        uint   `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

// Fresh returns the draft a new quiz starts from: default metadata and one
// empty multiple_choice question.
func Fresh() *QuizDraft {
	d := &QuizDraft{
		PassingScore: DefaultPassingScore,
		IsActive:     true,
		Questions:    []QuestionDraft{},
	}
	d.AddQuestion()
	return d
}

// FromExisting hydrates a draft from a persisted quiz. Questions and answers
// are copied as stored, order values included, and sorted by order.
func FromExisting(quiz *models.Quiz) *QuizDraft {
	d := &QuizDraft{
		ID:           quiz.ID,
		FormationID:  quiz.FormationID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.PassingScore,
		IsActive:     quiz.IsActive,
		Questions:    make([]QuestionDraft, 0, len(quiz.Questions)),
	}
	if quiz.TimeLimit != nil {
		limit := *quiz.TimeLimit
		d.TimeLimitMinutes = &limit
	}

	for _, q := range quiz.Questions {
		question := QuestionDraft{
			ID:         q.ID,
			Text:       q.Question,
			Type:       q.Type,
			Order:      q.Order,
			Points:     q.Points,
			IsRequired: q.IsRequired,
			Answers:    make([]AnswerDraft, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, AnswerDraft{
				ID:        a.ID,
				Text:      a.Answer,
				IsCorrect: a.IsCorrect,
				Order:     a.Order,
			})
		}
		slices.SortStableFunc(question.Answers, func(a, b AnswerDraft) int { return cmp.Compare(a.Order, b.Order) })
		d.Questions = append(d.Questions, question)
	}
	slices.SortStableFunc(d.Questions, func(a, b QuestionDraft) int { return cmp.Compare(a.Order, b.Order) })

	return d
}

// Clone returns a deep copy of the draft.
func (d *QuizDraft) Clone() *QuizDraft {
	c := *d
	if d.TimeLimitMinutes != nil {
		limit := *d.TimeLimitMinutes
		c.TimeLimitMinutes = &limit
	}
	c.Questions = make([]QuestionDraft, len(d.Questions))
	for i, q := range d.Questions {
		c.Questions[i] = q
		c.Questions[i].Answers = append([]AnswerDraft{}, q.Answers...)
	}
	return &c
}

// TotalPoints sums the points of every question.
func (d *QuizDraft) TotalPoints() int {
	total := 0
	for _, q := range d.Questions {
		total += q.Points
	}
	return total
}

// CanRemoveQuestion reports whether removing a question still leaves a usable quiz.
func (d *QuizDraft) CanRemoveQuestion() bool {
	return len(d.Questions) > 1
}

// CanAddAnswer reports whether another authored answer fits the question.
func (q *QuestionDraft) CanAddAnswer() bool {
	return q.Type == models.QuestionMultipleChoice && len(q.Answers) < MaxChoiceAnswers
}

// CanRemoveAnswer reports whether an authored answer can be dropped without
// going under the multiple_choice floor.
func (q *QuestionDraft) CanRemoveAnswer() bool {
	return q.Type == models.QuestionMultipleChoice && len(q.Answers) > MinChoiceAnswers
}

func (d *QuizDraft) question(index int) (*QuestionDraft, error) {
	if index < 0 || index >= len(d.Questions) {
		return nil, ErrQuestionIndexOutOfRange
	}
	return &d.Questions[index], nil
}

func (d *QuizDraft) answer(questionIndex, answerIndex int) (*QuestionDraft, *AnswerDraft, error) {
	q, err := d.question(questionIndex)
	if err != nil {
		return nil, nil, err
	}
	if answerIndex < 0 || answerIndex >= len(q.Answers) {
		return nil, nil, ErrAnswerIndexOutOfRange
	}
	return q, &q.Answers[answerIndex], nil
}

func (d *QuizDraft) renumberQuestions() {
	for i := range d.Questions {
		d.Questions[i].Order = i + 1
	}
}

func (q *QuestionDraft) renumberAnswers() {
	for i := range q.Answers {
		q.Answers[i].Order = i + 1
	}
}
