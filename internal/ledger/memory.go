package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no Redis address is
// configured, and by tests. Expiry is enforced lazily on access.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string]*memoryList
	now   func() time.Time
}

type memoryList struct {
	values    []string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string]*memoryList), now: time.Now}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[key]
	if !ok || s.now().After(l.expiresAt) {
		l = &memoryList{}
		s.lists[key] = l
	}
	l.values = append(l.values, value)
	l.expiresAt = s.now().Add(ttl)
	return nil
}

// Drain implements Store.
func (s *MemoryStore) Drain(ctx context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[key]
	if !ok {
		return nil, nil
	}
	delete(s.lists, key)
	if s.now().After(l.expiresAt) {
		return nil, nil
	}
	return l.values, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
