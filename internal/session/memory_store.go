package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process denylist used when Redis is not configured.
// Expired entries are swept on each Revoke and dropped on lookup.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Revoke(_ context.Context, credentialID string, expiresAt time.Time) error {
	if credentialID == "" {
		return ErrMissingID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}

	if !expiresAt.After(now) {
		return nil
	}
	m.revoked[credentialID] = expiresAt
	return nil
}

func (m *MemoryStore) IsRevoked(_ context.Context, credentialID string) (bool, error) {
	if credentialID == "" {
		return false, ErrMissingID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, ok := m.revoked[credentialID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(m.now()) {
		delete(m.revoked, credentialID)
		return false, nil
	}
	return true, nil
}
