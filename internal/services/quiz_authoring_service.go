package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/events"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-authoring-service/internal/validator"
	"github.com/google/uuid"
)

// QuizAuthoringService hosts authoring sessions around the draft engine and
// hands validated quizzes to the repository.
type QuizAuthoringService interface {
	// Sessions
	StartDraft(ctx context.Context, req *StartDraftRequest) (*DraftResponse, error)
	EditQuiz(ctx context.Context, quizID uint) (*DraftResponse, error)
	GetDraft(ctx context.Context, draftID string) (*DraftResponse, error)
	DiscardDraft(ctx context.Context, draftID string) error

	// Draft edits
	UpdateMetadata(ctx context.Context, draftID string, req *UpdateMetadataRequest) (*DraftResponse, error)
	AddQuestion(ctx context.Context, draftID string, req *AddQuestionRequest) (*DraftResponse, int, error)
	RemoveQuestion(ctx context.Context, draftID string, questionIndex int) (*DraftResponse, error)
	UpdateQuestionField(ctx context.Context, draftID string, questionIndex int, req *UpdateQuestionFieldRequest) (*DraftResponse, error)
	AddAnswer(ctx context.Context, draftID string, questionIndex int) (*DraftResponse, int, error)
	RemoveAnswer(ctx context.Context, draftID string, questionIndex, answerIndex int) (*DraftResponse, error)
	UpdateAnswerField(ctx context.Context, draftID string, questionIndex, answerIndex int, req *UpdateAnswerFieldRequest) (*DraftResponse, error)
	SetCorrectAnswer(ctx context.Context, draftID string, questionIndex, answerIndex int, req *SetCorrectAnswerRequest) (*DraftResponse, error)

	// Submission
	ValidateDraft(ctx context.Context, draftID string) (*authoring.ValidatedQuiz, error)
	SubmitDraft(ctx context.Context, draftID string) (*models.Quiz, error)

	// Persisted quizzes
	GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error)
	ListFormationQuizzes(ctx context.Context, formationID uint, filters repositories.QuizFilters) (*QuizListResponse, error)
	DeleteQuiz(ctx context.Context, quizID uint) error
	ListRevisions(ctx context.Context, quizID uint) ([]*models.QuizRevision, error)
}

type quizAuthoringService struct {
	repo      repositories.QuizRepository
	drafts    cache.DraftStore
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
	now       func() time.Time
}

func NewQuizAuthoringService(
	repo repositories.QuizRepository,
	drafts cache.DraftStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) QuizAuthoringService {
	return &quizAuthoringService{
		repo:      repo,
		drafts:    drafts,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "quiz-authoring", Component: "authoring"}),
		validator: validator,
		now:       time.Now,
	}
}

// ===== SESSIONS =====

func (s *quizAuthoringService) StartDraft(ctx context.Context, req *StartDraftRequest) (*DraftResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	draft := authoring.Fresh()
	draft.FormationID = req.FormationID

	session := s.newSession(nil, draft)
	if err := s.drafts.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	s.logger.Info("Draft started", "draft_id", session.ID, "formation_id", req.FormationID)
	return newDraftResponse(session), nil
}

func (s *quizAuthoringService) EditQuiz(ctx context.Context, quizID uint) (*DraftResponse, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	id := quiz.ID
	session := s.newSession(&id, authoring.FromExisting(quiz))
	if err := s.drafts.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	s.logger.Info("Draft opened for quiz", "draft_id", session.ID, "quiz_id", quizID)
	return newDraftResponse(session), nil
}

func (s *quizAuthoringService) GetDraft(ctx context.Context, draftID string) (*DraftResponse, error) {
	session, err := s.loadSession(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return newDraftResponse(session), nil
}

func (s *quizAuthoringService) DiscardDraft(ctx context.Context, draftID string) error {
	if _, err := s.loadSession(ctx, draftID); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}

	s.logger.Info("Draft discarded", "draft_id", draftID)
	return nil
}

// ===== DRAFT EDITS =====

func (s *quizAuthoringService) UpdateMetadata(ctx context.Context, draftID string, req *UpdateMetadataRequest) (*DraftResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, draftID, "update_metadata", func(d *authoring.QuizDraft) error {
		if req.Title != nil {
			d.Title = *req.Title
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		if req.PassingScore != nil {
			d.PassingScore = *req.PassingScore
		}
		if req.ClearTimeLimit {
			d.TimeLimitMinutes = nil
		} else if req.TimeLimit != nil {
			limit := *req.TimeLimit
			d.TimeLimitMinutes = &limit
		}
		if req.IsActive != nil {
			d.IsActive = *req.IsActive
		}
		return nil
	})
}

func (s *quizAuthoringService) AddQuestion(ctx context.Context, draftID string, req *AddQuestionRequest) (*DraftResponse, int, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, 0, err
	}

	index := -1
	resp, err := s.mutate(ctx, draftID, "add_question", func(d *authoring.QuizDraft) error {
		index = d.AddQuestion()
		if req.Type != "" {
			return d.SetQuestionType(index, req.Type)
		}
		return nil
	})
	return resp, index, err
}

func (s *quizAuthoringService) RemoveQuestion(ctx context.Context, draftID string, questionIndex int) (*DraftResponse, error) {
	return s.mutate(ctx, draftID, "remove_question", func(d *authoring.QuizDraft) error {
		if questionIndex >= 0 && questionIndex < len(d.Questions) && !d.CanRemoveQuestion() {
			return NewBusinessRuleError(RuleMinQuestions, "a quiz must keep at least one question", map[string]interface{}{
				"question_index": questionIndex,
			})
		}
		return d.RemoveQuestion(questionIndex)
	})
}

func (s *quizAuthoringService) UpdateQuestionField(ctx context.Context, draftID string, questionIndex int, req *UpdateQuestionFieldRequest) (*DraftResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, draftID, "update_question_field", func(d *authoring.QuizDraft) error {
		return d.UpdateQuestionField(questionIndex, req.Field, req.Value)
	})
}

func (s *quizAuthoringService) AddAnswer(ctx context.Context, draftID string, questionIndex int) (*DraftResponse, int, error) {
	index := -1
	resp, err := s.mutate(ctx, draftID, "add_answer", func(d *authoring.QuizDraft) error {
		if q := questionAt(d, questionIndex); q != nil && q.Type == models.QuestionMultipleChoice && !q.CanAddAnswer() {
			return NewBusinessRuleError(RuleMaxAnswers,
				fmt.Sprintf("a multiple_choice question has at most %d answers", authoring.MaxChoiceAnswers),
				map[string]interface{}{"question_index": questionIndex})
		}

		var err error
		index, err = d.AddAnswer(questionIndex)
		return err
	})
	return resp, index, err
}

func (s *quizAuthoringService) RemoveAnswer(ctx context.Context, draftID string, questionIndex, answerIndex int) (*DraftResponse, error) {
	return s.mutate(ctx, draftID, "remove_answer", func(d *authoring.QuizDraft) error {
		q := questionAt(d, questionIndex)
		if q != nil && q.Type == models.QuestionMultipleChoice &&
			answerIndex >= 0 && answerIndex < len(q.Answers) && !q.CanRemoveAnswer() {
			return NewBusinessRuleError(RuleMinAnswers,
				fmt.Sprintf("a multiple_choice question needs at least %d answers", authoring.MinChoiceAnswers),
				map[string]interface{}{"question_index": questionIndex, "answer_index": answerIndex})
		}
		return d.RemoveAnswer(questionIndex, answerIndex)
	})
}

func (s *quizAuthoringService) UpdateAnswerField(ctx context.Context, draftID string, questionIndex, answerIndex int, req *UpdateAnswerFieldRequest) (*DraftResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, draftID, "update_answer_field", func(d *authoring.QuizDraft) error {
		return d.UpdateAnswerField(questionIndex, answerIndex, req.Field, req.Value)
	})
}

func (s *quizAuthoringService) SetCorrectAnswer(ctx context.Context, draftID string, questionIndex, answerIndex int, req *SetCorrectAnswerRequest) (*DraftResponse, error) {
	return s.mutate(ctx, draftID, "set_correct_answer", func(d *authoring.QuizDraft) error {
		allowMultiple := true
		if req != nil && req.AllowMultiple != nil {
			allowMultiple = *req.AllowMultiple
		}
		return d.SetCorrectAnswer(questionIndex, answerIndex, allowMultiple)
	})
}

// ===== SUBMISSION =====

func (s *quizAuthoringService) ValidateDraft(ctx context.Context, draftID string) (*authoring.ValidatedQuiz, error) {
	session, err := s.loadSession(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return authoring.Validate(session.Draft)
}

// SubmitDraft validates the draft and persists it. The draft is deleted only
// once the repository accepted the quiz; any failure leaves it untouched so
// the author can retry. The draft is read under the submit lock, so a submit
// that lost the race finds it gone.
func (s *quizAuthoringService) SubmitDraft(ctx context.Context, draftID string) (quiz *models.Quiz, err error) {
	start := s.now()
	defer func() {
		s.opLogger.LogOperation(ctx, "submit_draft", draftID, time.Since(start), err)
	}()

	acquired, err := s.drafts.AcquireSubmitLock(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmitInProgress
	}
	defer func() {
		if releaseErr := s.drafts.ReleaseSubmitLock(context.WithoutCancel(ctx), draftID); releaseErr != nil {
			s.logger.Error("Failed to release submit lock", "draft_id", draftID, "error", releaseErr)
		}
	}()

	session, err := s.loadSession(ctx, draftID)
	if err != nil {
		return nil, err
	}

	validated, err := authoring.Validate(session.Draft)
	if err != nil {
		return nil, err
	}

	payload := validated.Payload(0)
	if session.QuizID != nil {
		payload.ID = *session.QuizID
	}

	saved, err := s.repo.Save(ctx, payload)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %w", ErrQuizNotFound, err)
		}
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}

	eventType := events.EventQuizCreated
	if session.QuizID != nil {
		eventType = events.EventQuizUpdated
	}
	s.publish(ctx, eventType, saved)

	if err := s.drafts.Delete(ctx, draftID); err != nil {
		s.logger.Warn("Failed to delete submitted draft", "draft_id", draftID, "error", err)
	}

	return saved, nil
}

// ===== PERSISTED QUIZZES =====

func (s *quizAuthoringService) GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	return s.getQuiz(ctx, quizID)
}

func (s *quizAuthoringService) ListFormationQuizzes(ctx context.Context, formationID uint, filters repositories.QuizFilters) (*QuizListResponse, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	quizzes, total, err := s.repo.ListByFormation(ctx, formationID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	return &QuizListResponse{
		Quizzes: quizzes,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

func (s *quizAuthoringService) DeleteQuiz(ctx context.Context, quizID uint) error {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.publish(ctx, events.EventQuizDeleted, quiz)
	s.logger.Info("Quiz deleted", "quiz_id", quizID)
	return nil
}

func (s *quizAuthoringService) ListRevisions(ctx context.Context, quizID uint) ([]*models.QuizRevision, error) {
	if _, err := s.getQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	revisions, err := s.repo.ListRevisions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

// ===== HELPERS =====

func (s *quizAuthoringService) newSession(quizID *uint, draft *authoring.QuizDraft) *cache.DraftSession {
	now := s.now()
	return &cache.DraftSession{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		Draft:     draft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *quizAuthoringService) loadSession(ctx context.Context, draftID string) (*cache.DraftSession, error) {
	session, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, cache.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return session, nil
}

// mutate applies one engine operation to a stored draft. The draft is only
// written back when the operation succeeds, which also refreshes its TTL. A
// draft submitted or discarded meanwhile is not recreated.
func (s *quizAuthoringService) mutate(ctx context.Context, draftID, operation string, apply func(d *authoring.QuizDraft) error) (*DraftResponse, error) {
	session, err := s.loadSession(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if err := apply(session.Draft); err != nil {
		s.logger.Debug("Draft operation rejected", "draft_id", draftID, "operation", operation, "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := replaceSession(ctx, s.drafts, session); err != nil {
		return nil, err
	}

	s.logger.Debug("Draft updated", "draft_id", draftID, "operation", operation)
	return newDraftResponse(session), nil
}

func replaceSession(ctx context.Context, drafts cache.DraftStore, session *cache.DraftSession) error {
	if err := drafts.Replace(ctx, session); err != nil {
		if errors.Is(err, cache.ErrDraftNotFound) {
			return ErrDraftNotFound
		}
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (s *quizAuthoringService) getQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

// publish never fails the calling operation: the quiz is already stored.
func (s *quizAuthoringService) publish(ctx context.Context, eventType events.EventType, quiz *models.Quiz) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, events.NewQuizEvent(eventType, quiz)); err != nil {
		s.logger.Error("Failed to publish quiz event", "event_type", eventType, "quiz_id", quiz.ID, "error", err)
	}
}

func questionAt(d *authoring.QuizDraft, index int) *authoring.QuestionDraft {
	if index < 0 || index >= len(d.Questions) {
		return nil
	}
	return &d.Questions[index]
}
