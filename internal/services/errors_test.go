package services

import (
	"fmt"
	"testing"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("submit draft: %w", err) }

	assert.True(t, IsNotFound(wrapped(ErrDraftNotFound)))
	assert.True(t, IsNotFound(wrapped(ErrQuizNotFound)))
	assert.False(t, IsNotFound(ErrSubmitInProgress))

	assert.True(t, IsConflict(wrapped(ErrSubmitInProgress)))
	assert.False(t, IsConflict(ErrDraftNotFound))

	assert.True(t, IsValidation(ValidationErrors{*NewValidationError("title", "is required", nil)}))
	assert.True(t, IsValidation(NewValidationError("title", "is required", nil)))
	assert.False(t, IsValidation(NewBusinessRuleError(RuleMinQuestions, "a quiz keeps one question", nil)))

	assert.True(t, IsEngineMisuse(wrapped(authoring.ErrAnswerSetLocked)))
	assert.False(t, IsEngineMisuse(ErrQuizNotFound))
}
