package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/store"
)

type userWordKey struct {
	user, word uuid.UUID
}

// UserWordStore keeps progress rows in a map. ApplyRatingDelta holds the
// write lock for the whole read-modify-write.
type UserWordStore struct {
	mu   sync.RWMutex
	rows map[userWordKey]domain.UserWord
}

var _ store.UserWordStore = (*UserWordStore)(nil)

// NewUserWordStore creates a store seeded with progress rows.
func NewUserWordStore(rows ...*domain.UserWord) *UserWordStore {
	s := &UserWordStore{rows: make(map[userWordKey]domain.UserWord, len(rows))}
	for _, r := range rows {
		s.rows[userWordKey{r.UserID, r.WordID}] = *r
	}
	return s
}

func (s *UserWordStore) Find(_ context.Context, userID, wordID uuid.UUID) (*domain.UserWord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[userWordKey{userID, wordID}]
	if !ok {
		return nil, store.ErrUserWordNotFound
	}
	return &r, nil
}

func (s *UserWordStore) Save(_ context.Context, progress *domain.UserWord) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[userWordKey{progress.UserID, progress.WordID}] = *progress
	return nil
}

func (s *UserWordStore) CountChosen(_ context.Context, userID, groupID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.rows {
		if r.UserID == userID && r.GroupID == groupID && r.IsChosen && r.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *UserWordStore) FindDue(_ context.Context, userID, groupID uuid.UUID, limit int) ([]*domain.UserWord, error) {
	s.mu.RLock()
	var due []*domain.UserWord
	for _, r := range s.rows {
		if r.UserID == userID && r.GroupID == groupID && r.IsChosen && r.IsActive {
			cp := r
			due = append(due, &cp)
		}
	}
	s.mu.RUnlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].Rating != due[j].Rating {
			return due[i].Rating < due[j].Rating
		}
		return due[i].WordID.String() < due[j].WordID.String()
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *UserWordStore) ApplyRatingDelta(
	_ context.Context,
	userID, wordID uuid.UUID,
	delta, ceiling float64,
) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userWordKey{userID, wordID}
	r, ok := s.rows[key]
	if !ok {
		return 0, store.ErrUserWordNotFound
	}
	r.Rating = min(ceiling, max(0, r.Rating+delta))
	r.UpdatedAt = time.Now().UTC()
	s.rows[key] = r
	return r.Rating, nil
}
