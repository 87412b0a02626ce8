package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines request struct validation and submission checks
type Validator struct {
	structValidator     *validator.Validate
	submissionValidator *SubmissionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:     structValidator,
		submissionValidator: NewSubmissionValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Submission returns the submission validator
func (v *Validator) Submission() *SubmissionValidator {
	return v.submissionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("question_field", validateQuestionField)
	validate.RegisterValidation("answer_field", validateAnswerField)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateQuestionField(fl validator.FieldLevel) bool {
	switch authoring.QuestionField(fl.Field().String()) {
	case authoring.QuestionFieldText, authoring.QuestionFieldType,
		authoring.QuestionFieldPoints, authoring.QuestionFieldRequired:
		return true
	}
	return false
}

func validateAnswerField(fl validator.FieldLevel) bool {
	switch authoring.AnswerField(fl.Field().String()) {
	case authoring.AnswerFieldText, authoring.AnswerFieldCorrect:
		return true
	}
	return false
}
