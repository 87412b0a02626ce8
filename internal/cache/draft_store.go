package cache

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/quiz-authoring-service/internal/authoring"
)

var (
	ErrDraftNotFound = errors.New("draft session not found or expired")
)

// DraftSession is one authoring session: the working draft plus the quiz it
// edits, nil for a quiz that was never persisted.
type DraftSession struct {
	ID        string               `json:"id"`
	QuizID    *uint                `json:"quizId,omitempty"`
	Draft     *authoring.QuizDraft `json:"draft"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func (s *DraftSession) clone() *DraftSession {
	c := *s
	if s.QuizID != nil {
		id := *s.QuizID
		c.QuizID = &id
	}
	if s.Draft != nil {
		c.Draft = s.Draft.Clone()
	}
	return &c
}

// DraftStore keeps authoring sessions between requests. Every Save refreshes
// the session TTL.
type DraftStore interface {
	Get(ctx context.Context, id string) (*DraftSession, error)
	Save(ctx context.Context, session *DraftSession) error
	// Replace writes an edited session back only while it still exists and
	// returns ErrDraftNotFound once it was submitted, discarded or expired.
	Replace(ctx context.Context, session *DraftSession) error
	Delete(ctx context.Context, id string) error

	// AcquireSubmitLock reports false when a submit for the draft is
	// already in flight.
	AcquireSubmitLock(ctx context.Context, id string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id string) error
}

type StoreConfig struct {
	DraftTTL      time.Duration
	SubmitLockTTL time.Duration
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.DraftTTL <= 0 {
		c.DraftTTL = 24 * time.Hour
	}
	if c.SubmitLockTTL <= 0 {
		c.SubmitLockTTL = 30 * time.Second
	}
	return c
}
