package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/store"
)

// VerificationCacheStore keeps verdicts in a map.
type VerificationCacheStore struct {
	mu      sync.RWMutex
	entries map[string]domain.VerificationEntry
}

var _ store.VerificationCacheStore = (*VerificationCacheStore)(nil)

// NewVerificationCacheStore creates an empty cache.
func NewVerificationCacheStore() *VerificationCacheStore {
	return &VerificationCacheStore{entries: make(map[string]domain.VerificationEntry)}
}

func (s *VerificationCacheStore) Get(_ context.Context, key string, now time.Time) (*domain.VerificationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.Expired(now) {
		return nil, store.ErrVerificationNotFound
	}
	return &e, nil
}

func (s *VerificationCacheStore) Put(_ context.Context, entry *domain.VerificationEntry) error {
	if entry.Key == "" {
		return fmt.Errorf("%w: empty cache key", store.ErrInvalidEntity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = *entry
	return nil
}

func (s *VerificationCacheStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, e := range s.entries {
		if e.Expired(before) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored entries, expired ones included.
func (s *VerificationCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
