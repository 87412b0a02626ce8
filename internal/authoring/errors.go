package authoring

import "errors"

// Operation errors. These signal misuse of the engine by the caller, not an
// invalid quiz; see ValidationError for the latter.
var (
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")
	ErrAnswerIndexOutOfRange   = errors.New("answer index out of range")
	ErrUnknownField            = errors.New("unknown field")
	ErrInvalidFieldValue       = errors.New("invalid value for field")
	ErrUnknownQuestionType     = errors.New("unknown question type")
	ErrAnswerSetLocked         = errors.New("answers of this question type cannot be edited directly")
)

// Validation failures, matchable with errors.Is on a *ValidationError.
var (
	ErrMissingTitle        = errors.New("quiz title is required")
	ErrNoQuestions         = errors.New("quiz must contain at least one question")
	ErrQuestionTextEmpty   = errors.New("question text is required")
	ErrInsufficientAnswers = errors.New("question must have at least 2 answers")
	ErrNoCorrectAnswer     = errors.New("question must have at least one correct answer")
	ErrAnswerTextEmpty     = errors.New("answer text is required")
)
