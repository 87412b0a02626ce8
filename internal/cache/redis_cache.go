package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "quiz:draft:"

type redisDraftStore struct {
	client *redis.Client
	logger *slog.Logger
	config StoreConfig
}

func NewRedisDraftStore(client *redis.Client, logger *slog.Logger, config StoreConfig) DraftStore {
	return &redisDraftStore{
		client: client,
		logger: logger,
		config: config.withDefaults(),
	}
}

func draftKey(id string) string {
	return keyPrefix + id
}

func submitLockKey(id string) string {
	return keyPrefix + id + ":submit"
}

func (r *redisDraftStore) Get(ctx context.Context, id string) (*DraftSession, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
	}

	var session DraftSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return &session, nil
}

func (r *redisDraftStore) Save(ctx context.Context, session *DraftSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", session.ID, err)
	}

	if err := r.client.Set(ctx, draftKey(session.ID), data, r.config.DraftTTL).Err(); err != nil {
		return fmt.Errorf("failed to store draft %s: %w", session.ID, err)
	}

	r.logger.Debug("Draft stored", "draft_id", session.ID, "ttl", r.config.DraftTTL)
	return nil
}

func (r *redisDraftStore) Replace(ctx context.Context, session *DraftSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", session.ID, err)
	}

	ok, err := r.client.SetXX(ctx, draftKey(session.ID), data, r.config.DraftTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to store draft %s: %w", session.ID, err)
	}
	if !ok {
		return ErrDraftNotFound
	}
	return nil
}

func (r *redisDraftStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

func (r *redisDraftStore) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	ok, err := r.client.SetNX(ctx, submitLockKey(id), 1, r.config.SubmitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock for draft %s: %w", id, err)
	}
	if !ok {
		r.logger.Warn("Submit already in progress", "draft_id", id)
	}
	return ok, nil
}

func (r *redisDraftStore) ReleaseSubmitLock(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, submitLockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock for draft %s: %w", id, err)
	}
	return nil
}
