package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
	}
}

// LogOperation logs the outcome of one service operation. Expected failures
// (validation, business rules, missing drafts) are logged below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.Duration("duration", duration),
	}

	if err != nil {
		level = slog.LevelError
		status = "error"

		var draftErr *authoring.ValidationError
		var businessErr *BusinessRuleError
		switch {
		case errors.As(err, &draftErr):
			level, status = slog.LevelWarn, "draft_invalid"
			attrs = append(attrs, slog.String("validation_kind", string(draftErr.Kind)))
			if draftErr.QuestionIndex != nil {
				attrs = append(attrs, slog.Int("question_index", *draftErr.QuestionIndex))
			}
		case errors.As(err, &businessErr):
			level, status = slog.LevelWarn, "business_rule"
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		case IsValidation(err) || IsEngineMisuse(err):
			level, status = slog.LevelWarn, "bad_request"
		case IsConflict(err):
			level, status = slog.LevelWarn, "conflict"
		case IsNotFound(err):
			level, status = slog.LevelInfo, "not_found"
		}

		attrs = append(attrs, slog.String("error", err.Error()))
	}

	attrs = append(attrs, slog.String("status", status))
	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}
