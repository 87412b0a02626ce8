package validator

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/errors"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
)

// SubmissionValidator checks that learner responses fit the question types
// of the quiz they answer before grading.
type SubmissionValidator struct{}

func NewSubmissionValidator() *SubmissionValidator {
	return &SubmissionValidator{}
}

func (v *SubmissionValidator) Validate(quiz *models.Quiz, submission *models.Submission) ValidationErrors {
	var errs ValidationErrors

	questions := make(map[uint]*models.QuizQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	for questionID, response := range submission.Responses {
		field := fmt.Sprintf("responses.%d", questionID)
		question, ok := questions[questionID]
		if !ok {
			errs = append(errs, *errors.NewValidationErrorWithRule(field, "question does not belong to this quiz", "unknown_question", questionID))
			continue
		}
		if err := v.validateResponse(field, question, response); err != nil {
			errs = append(errs, *err)
		}
	}

	for _, question := range quiz.Questions {
		if !question.IsRequired {
			continue
		}
		if _, answered := submission.Responses[question.ID]; !answered {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				fmt.Sprintf("responses.%d", question.ID), "is required", "required", nil))
		}
	}

	return errs
}

func (v *SubmissionValidator) validateResponse(field string, question *models.QuizQuestion, response models.QuestionResponse) *ValidationError {
	switch question.Type {
	case models.QuestionMultipleChoice, models.QuestionTrueFalse:
		if question.Type == models.QuestionTrueFalse && len(response.SelectedAnswerIDs) > 1 {
			return errors.NewValidationErrorWithRule(field, "true_false accepts a single answer", "single_answer", response.SelectedAnswerIDs)
		}
		if len(response.Blanks) > 0 || response.Text != "" {
			return errors.NewValidationErrorWithRule(field, "only selectedAnswerIds is accepted for this question", "response_shape", nil)
		}
		for _, id := range response.SelectedAnswerIDs {
			if !hasAnswer(question, id) {
				return errors.NewValidationErrorWithRule(field, fmt.Sprintf("answer %d does not belong to this question", id), "unknown_answer", id)
			}
		}
	case models.QuestionFillInBlank:
		if len(response.SelectedAnswerIDs) > 0 || response.Text != "" {
			return errors.NewValidationErrorWithRule(field, "only blanks is accepted for this question", "response_shape", nil)
		}
		if len(response.Blanks) > len(question.Answers) {
			return errors.NewValidationErrorWithRule(field, fmt.Sprintf("at most %d blanks expected", len(question.Answers)), "blank_count", len(response.Blanks))
		}
	case models.QuestionText:
		if len(response.SelectedAnswerIDs) > 0 || len(response.Blanks) > 0 {
			return errors.NewValidationErrorWithRule(field, "only text is accepted for this question", "response_shape", nil)
		}
	}
	return nil
}

func hasAnswer(question *models.QuizQuestion, id uint) bool {
	for _, a := range question.Answers {
		if a.ID == id {
			return true
		}
	}
	return false
}
