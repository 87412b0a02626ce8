package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/grading"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/validator"
)

// GradingService scores learner submissions against persisted quizzes
type GradingService interface {
	GradeSubmission(ctx context.Context, quizID uint, req *GradeRequest) (*grading.Result, error)
}

type gradingService struct {
	repo      repositories.QuizRepository
	grader    *grading.Grader
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradingService(repo repositories.QuizRepository, logger *slog.Logger, validator *validator.Validator) GradingService {
	return &gradingService{
		repo:      repo,
		grader:    grading.NewGrader(),
		logger:    logger,
		validator: validator,
	}
}

func (s *gradingService) GradeSubmission(ctx context.Context, quizID uint, req *GradeRequest) (*grading.Result, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if !quiz.IsActive {
		return nil, NewBusinessRuleError("quiz_inactive", "inactive quizzes cannot be graded", map[string]interface{}{
			"quiz_id": quizID,
		})
	}

	submission := &models.Submission{
		QuizID:    quizID,
		Responses: req.Responses,
		TimeSpent: req.TimeSpent,
	}
	if errs := s.validator.Submission().Validate(quiz, submission); len(errs) > 0 {
		return nil, errs
	}

	result := s.grader.Grade(quiz, submission)

	s.logger.Info("Submission graded",
		"quiz_id", quizID,
		"earned_points", result.EarnedPoints,
		"total_points", result.TotalPoints,
		"passed", result.Passed,
		"pending_manual", result.PendingManual)

	return result, nil
}
