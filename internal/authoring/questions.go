package authoring

import (
	"fmt"
	"math"
	"slices"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

type QuestionField string

const (
	QuestionFieldText     QuestionField = "text"
	QuestionFieldType     QuestionField = "type"
	QuestionFieldPoints   QuestionField = "points"
	QuestionFieldRequired QuestionField = "isRequired"
)

// AddQuestion appends an empty multiple_choice question and returns its index.
func (d *QuizDraft) AddQuestion() int {
	d.Questions = append(d.Questions, QuestionDraft{
		Type:       models.QuestionMultipleChoice,
		Order:      len(d.Questions) + 1,
		Points:     DefaultPoints,
		IsRequired: true,
		Answers:    emptyChoiceAnswers(),
	})
	return len(d.Questions) - 1
}

// RemoveQuestion drops the question at index and renumbers the rest. Removing
// the last question is allowed here; validation rejects an empty quiz.
func (d *QuizDraft) RemoveQuestion(index int) error {
	if _, err := d.question(index); err != nil {
		return err
	}
	d.Questions = slices.Delete(d.Questions, index, index+1)
	d.renumberQuestions()
	return nil
}

// UpdateQuestionField sets a single field from a loosely typed value, as
// received from a form or a JSON patch. Numbers decoded from JSON arrive as
// float64 and are accepted when integral.
func (d *QuizDraft) UpdateQuestionField(index int, field QuestionField, value interface{}) error {
	switch field {
	case QuestionFieldText:
		text, ok := value.(string)
		if !ok {
			return fieldValueError(field, value)
		}
		return d.SetQuestionText(index, text)
	case QuestionFieldType:
		var t models.QuestionType
		switch v := value.(type) {
		case string:
			t = models.QuestionType(v)
		case models.QuestionType:
			t = v
		default:
			return fieldValueError(field, value)
		}
		return d.SetQuestionType(index, t)
	case QuestionFieldPoints:
		points, ok := toInt(value)
		if !ok {
			return fieldValueError(field, value)
		}
		return d.SetQuestionPoints(index, points)
	case QuestionFieldRequired:
		required, ok := value.(bool)
		if !ok {
			return fieldValueError(field, value)
		}
		return d.SetQuestionRequired(index, required)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// SetQuestionText updates the question text. For fill_in_blank questions the
// answers are derived again from the new text.
func (d *QuizDraft) SetQuestionText(index int, text string) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.Text = text
	if q.Type == models.QuestionFillInBlank {
		q.Answers = ExtractBlanks(text)
	}
	return nil
}

// SetQuestionType switches the question type, reshaping the answer set for
// the new type first:
//
//	true_false      -> Vrai (correct), Faux
//	text            -> a single free-response placeholder
//	fill_in_blank   -> answers derived from the current text
//	multiple_choice -> two empty answers, unless two or more already exist
func (d *QuizDraft) SetQuestionType(index int, t models.QuestionType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
	}
	q, err := d.question(index)
	if err != nil {
		return err
	}

	switch t {
	case models.QuestionTrueFalse:
		q.Answers = []AnswerDraft{
			{Text: TrueLabel, IsCorrect: true, Order: 1},
			{Text: FalseLabel, IsCorrect: false, Order: 2},
		}
	case models.QuestionText:
		q.Answers = []AnswerDraft{
			{Text: FreeTextPlaceholder, IsCorrect: true, Order: 1},
		}
	case models.QuestionFillInBlank:
		q.Answers = ExtractBlanks(q.Text)
	case models.QuestionMultipleChoice:
		if len(q.Answers) < MinChoiceAnswers {
			q.Answers = emptyChoiceAnswers()
		}
	}
	q.Type = t
	return nil
}

func (d *QuizDraft) SetQuestionPoints(index int, points int) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	if points < 1 {
		return fieldValueError(QuestionFieldPoints, points)
	}
	q.Points = points
	return nil
}

func (d *QuizDraft) SetQuestionRequired(index int, required bool) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.IsRequired = required
	return nil
}

func emptyChoiceAnswers() []AnswerDraft {
	return []AnswerDraft{
		{Order: 1},
		{Order: 2},
	}
}

func fieldValueError(field interface{}, value interface{}) error {
	return fmt.Errorf("%w %v: %v (%T)", ErrInvalidFieldValue, field, value, value)
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
