package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   *DraftSession
	expiresAt time.Time
}

// MemoryDraftStore keeps sessions in process memory. Used when no Redis URL
// is configured and in tests.
type MemoryDraftStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]time.Time
	config  StoreConfig
	now     func() time.Time
}

func NewMemoryDraftStore(config StoreConfig) *MemoryDraftStore {
	return &MemoryDraftStore{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
		config:  config.withDefaults(),
		now:     time.Now,
	}
}

func (m *MemoryDraftStore) Get(ctx context.Context, id string) (*DraftSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return nil, ErrDraftNotFound
	}
	return entry.session.clone(), nil
}

func (m *MemoryDraftStore) Save(ctx context.Context, session *DraftSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[session.ID] = memoryEntry{
		session:   session.clone(),
		expiresAt: m.now().Add(m.config.DraftTTL),
	}
	return nil
}

func (m *MemoryDraftStore) Replace(ctx context.Context, session *DraftSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[session.ID]
	if !ok || !m.now().Before(entry.expiresAt) {
		delete(m.entries, session.ID)
		return ErrDraftNotFound
	}
	m.entries[session.ID] = memoryEntry{
		session:   session.clone(),
		expiresAt: m.now().Add(m.config.DraftTTL),
	}
	return nil
}

func (m *MemoryDraftStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

func (m *MemoryDraftStore) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiresAt, held := m.locks[id]; held && m.now().Before(expiresAt) {
		return false, nil
	}
	m.locks[id] = m.now().Add(m.config.SubmitLockTTL)
	return true, nil
}

func (m *MemoryDraftStore) ReleaseSubmitLock(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.locks, id)
	return nil
}
