package authoring

import (
	"fmt"
	"slices"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

type AnswerField string

const (
	AnswerFieldText    AnswerField = "text"
	AnswerFieldCorrect AnswerField = "isCorrect"
)

// AddAnswer appends an empty, incorrect answer to a multiple_choice question
// and returns its index. Other question types have fixed or derived answers.
func (d *QuizDraft) AddAnswer(questionIndex int) (int, error) {
	q, err := d.question(questionIndex)
	if err != nil {
		return 0, err
	}
	if q.Type != models.QuestionMultipleChoice {
		return 0, ErrAnswerSetLocked
	}
	q.Answers = append(q.Answers, AnswerDraft{Order: len(q.Answers) + 1})
	return len(q.Answers) - 1, nil
}

// RemoveAnswer drops an answer from a multiple_choice question and renumbers
// the remaining ones.
func (d *QuizDraft) RemoveAnswer(questionIndex, answerIndex int) error {
	q, _, err := d.answer(questionIndex, answerIndex)
	if err != nil {
		return err
	}
	if q.Type != models.QuestionMultipleChoice {
		return ErrAnswerSetLocked
	}
	q.Answers = slices.Delete(q.Answers, answerIndex, answerIndex+1)
	q.renumberAnswers()
	return nil
}

func (d *QuizDraft) UpdateAnswerField(questionIndex, answerIndex int, field AnswerField, value interface{}) error {
	switch field {
	case AnswerFieldText:
		text, ok := value.(string)
		if !ok {
			return fieldValueError(field, value)
		}
		return d.SetAnswerText(questionIndex, answerIndex, text)
	case AnswerFieldCorrect:
		correct, ok := value.(bool)
		if !ok {
			return fieldValueError(field, value)
		}
		return d.SetAnswerCorrect(questionIndex, answerIndex, correct)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// SetAnswerText edits an authored answer. Only multiple_choice answers are
// authored; the others are fixed labels or derived from the question text.
func (d *QuizDraft) SetAnswerText(questionIndex, answerIndex int, text string) error {
	q, a, err := d.answer(questionIndex, answerIndex)
	if err != nil {
		return err
	}
	if q.Type != models.QuestionMultipleChoice {
		return ErrAnswerSetLocked
	}
	a.Text = text
	return nil
}

// SetAnswerCorrect sets the correctness flag directly. A true_false question
// always keeps exactly one correct answer, so unmarking one marks the other.
func (d *QuizDraft) SetAnswerCorrect(questionIndex, answerIndex int, correct bool) error {
	q, a, err := d.answer(questionIndex, answerIndex)
	if err != nil {
		return err
	}
	switch q.Type {
	case models.QuestionMultipleChoice:
		a.IsCorrect = correct
		return nil
	case models.QuestionTrueFalse:
		target := answerIndex
		if !correct {
			target = (answerIndex + 1) % len(q.Answers)
		}
		q.selectOnly(target)
		return nil
	default:
		return ErrAnswerSetLocked
	}
}

// SetCorrectAnswer marks an answer as correct. With allowMultiple the answer's
// flag is toggled and the others are left alone; without it the answer
// becomes the only correct one. true_false questions are always exclusive.
func (d *QuizDraft) SetCorrectAnswer(questionIndex, answerIndex int, allowMultiple bool) error {
	q, a, err := d.answer(questionIndex, answerIndex)
	if err != nil {
		return err
	}
	switch q.Type {
	case models.QuestionMultipleChoice:
		if allowMultiple {
			a.IsCorrect = !a.IsCorrect
		} else {
			q.selectOnly(answerIndex)
		}
		return nil
	case models.QuestionTrueFalse:
		q.selectOnly(answerIndex)
		return nil
	default:
		return ErrAnswerSetLocked
	}
}

func (q *QuestionDraft) selectOnly(answerIndex int) {
	for i := range q.Answers {
		q.Answers[i].IsCorrect = i == answerIndex
	}
}
