package authoring

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

type ValidationKind string

const (
	KindMissingTitle        ValidationKind = "MissingTitle"
	KindNoQuestions         ValidationKind = "NoQuestions"
	KindQuestionTextEmpty   ValidationKind = "QuestionTextEmpty"
	KindInsufficientAnswers ValidationKind = "InsufficientAnswers"
	KindNoCorrectAnswer     ValidationKind = "NoCorrectAnswer"
	KindAnswerTextEmpty     ValidationKind = "AnswerTextEmpty"
)

var kindErrors = map[ValidationKind]error{
	KindMissingTitle:        ErrMissingTitle,
	KindNoQuestions:         ErrNoQuestions,
	KindQuestionTextEmpty:   ErrQuestionTextEmpty,
	KindInsufficientAnswers: ErrInsufficientAnswers,
	KindNoCorrectAnswer:     ErrNoCorrectAnswer,
	KindAnswerTextEmpty:     ErrAnswerTextEmpty,
}

// ValidationError is the first rule a draft breaks. Indices are 0-based and
// only set when the rule concerns a specific question or answer.
type ValidationError struct {
	Kind          ValidationKind `json:"kind"`
	QuestionIndex *int           `json:"questionIndex,omitempty"`
	AnswerIndex   *int           `json:"answerIndex,omitempty"`
	Message       string         `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return kindErrors[e.Kind] == target
}

// Summary is display-only information about a validated quiz.
type Summary struct {
	QuestionCount    int  `json:"questionCount"`
	TotalPoints      int  `json:"totalPoints"`
	PassingScore     int  `json:"passingScore"`
	TimeLimitMinutes *int `json:"timeLimit,omitempty"`
}

// ValidatedQuiz is a submission-ready copy of a draft.
type ValidatedQuiz struct {
	Draft   *QuizDraft `json:"draft"`
	Summary Summary    `json:"summary"`
}

// Validate checks a draft before submission and stops at the first broken
// rule. Rules run in this order: title, question count, then for each
// question its text, answer count, correct answer and answer texts. Free text
// questions skip the answer rules; fill_in_blank answers are derived and skip
// the answer text rule. The draft itself is never modified.
func Validate(d *QuizDraft) (*ValidatedQuiz, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, newValidationError(KindMissingTitle, nil, nil, ErrMissingTitle.Error())
	}
	if len(d.Questions) == 0 {
		return nil, newValidationError(KindNoQuestions, nil, nil, ErrNoQuestions.Error())
	}

	for qi := range d.Questions {
		if err := validateQuestion(qi, &d.Questions[qi]); err != nil {
			return nil, err
		}
	}

	normalized := d.Clone()
	normalized.renumberQuestions()
	for i := range normalized.Questions {
		normalized.Questions[i].renumberAnswers()
	}

	return &ValidatedQuiz{
		Draft: normalized,
		Summary: Summary{
			QuestionCount:    len(normalized.Questions),
			TotalPoints:      normalized.TotalPoints(),
			PassingScore:     normalized.PassingScore,
			TimeLimitMinutes: normalized.TimeLimitMinutes,
		},
	}, nil
}

func validateQuestion(qi int, q *QuestionDraft) error {
	if strings.TrimSpace(q.Text) == "" {
		return newValidationError(KindQuestionTextEmpty, &qi, nil,
			fmt.Sprintf("question %d: text is required", qi+1))
	}
	if q.Type == models.QuestionText {
		return nil
	}

	if len(q.Answers) < MinChoiceAnswers {
		return newValidationError(KindInsufficientAnswers, &qi, nil,
			fmt.Sprintf("question %d: must have at least %d answers", qi+1, MinChoiceAnswers))
	}

	hasCorrect := false
	for _, a := range q.Answers {
		if a.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return newValidationError(KindNoCorrectAnswer, &qi, nil,
			fmt.Sprintf("question %d: at least one answer must be marked correct", qi+1))
	}

	if q.Type == models.QuestionFillInBlank {
		return nil
	}
	for ai := range q.Answers {
		if strings.TrimSpace(q.Answers[ai].Text) == "" {
			return newValidationError(KindAnswerTextEmpty, &qi, &ai,
				fmt.Sprintf("question %d, answer %d: text is required", qi+1, ai+1))
		}
	}
	return nil
}

func newValidationError(kind ValidationKind, questionIndex, answerIndex *int, message string) *ValidationError {
	return &ValidationError{
		Kind:          kind,
		QuestionIndex: copyIndex(questionIndex),
		AnswerIndex:   copyIndex(answerIndex),
		Message:       message,
	}
}

func copyIndex(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// Payload converts the validated draft into the record handed to the
// persistence layer. A zero formationID keeps the draft's own formation.
func (v *ValidatedQuiz) Payload(formationID uint) *models.Quiz {
	d := v.Draft
	if formationID == 0 {
		formationID = d.FormationID
	}

	quiz := &models.Quiz{
		ID:           d.ID,
		FormationID:  formationID,
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Description,
		PassingScore: d.PassingScore,
		IsActive:     d.IsActive,
		Questions:    make([]models.QuizQuestion, 0, len(d.Questions)),
	}
	if d.TimeLimitMinutes != nil {
		limit := *d.TimeLimitMinutes
		quiz.TimeLimit = &limit
	}

	for _, q := range d.Questions {
		question := models.QuizQuestion{
			ID:         q.ID,
			Question:   q.Text,
			Type:       q.Type,
			Order:      q.Order,
			Points:     q.Points,
			IsRequired: q.IsRequired,
			Answers:    make([]models.QuizAnswer, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, models.QuizAnswer{
				ID:        a.ID,
				Answer:    a.Text,
				IsCorrect: a.IsCorrect,
				Order:     a.Order,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	quiz.CalculateComputedFields()
	return quiz
}
