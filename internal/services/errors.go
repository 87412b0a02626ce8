package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	apperrors "github.com/SAP-F-2025/quiz-authoring-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Draft session errors
	ErrDraftNotFound      = errors.New("draft not found or expired")
	ErrSubmitInProgress   = errors.New("a submit is already in progress for this draft")
	ErrUnsupportedFile    = errors.New("unsupported file format")
	ErrEmptyImportFile    = errors.New("import file must have a header row and at least one data row")
	ErrMissingImportField = errors.New("import file is missing a required column")

	// Quiz errors
	ErrQuizNotFound = errors.New("quiz not found")
)

// Business rules enforced on top of the authoring engine
const (
	RuleMinQuestions = "min_questions"
	RuleMaxAnswers   = "max_answers"
	RuleMinAnswers   = "min_answers"
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDraftNotFound) ||
		errors.Is(err, ErrQuizNotFound)
}

// IsValidation checks if error represents a request validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsDraftInvalid checks if error is the first rule a draft breaks before submit
func IsDraftInvalid(err error) bool {
	var verr *authoring.ValidationError
	return errors.As(err, &verr)
}

// IsEngineMisuse checks if error comes from an authoring operation that was
// given an index, field or value it cannot apply
func IsEngineMisuse(err error) bool {
	return errors.Is(err, authoring.ErrQuestionIndexOutOfRange) ||
		errors.Is(err, authoring.ErrAnswerIndexOutOfRange) ||
		errors.Is(err, authoring.ErrUnknownField) ||
		errors.Is(err, authoring.ErrInvalidFieldValue) ||
		errors.Is(err, authoring.ErrUnknownQuestionType) ||
		errors.Is(err, authoring.ErrAnswerSetLocked)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrSubmitInProgress)
}
