package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/store"
)

// WordStore keeps words in a map. Returned words are deep copies.
type WordStore struct {
	mu    sync.RWMutex
	words map[uuid.UUID]*domain.Word
}

var _ store.WordStore = (*WordStore)(nil)

// NewWordStore creates a store seeded with words.
func NewWordStore(words ...*domain.Word) *WordStore {
	s := &WordStore{words: make(map[uuid.UUID]*domain.Word, len(words))}
	for _, w := range words {
		s.words[w.ID] = cloneWord(w)
	}
	return s
}

// Put inserts or replaces a word.
func (s *WordStore) Put(w *domain.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words[w.ID] = cloneWord(w)
}

func (s *WordStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return cloneWord(w), nil
}

func (s *WordStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Word, 0, len(ids))
	for _, id := range ids {
		if w, ok := s.words[id]; ok {
			out = append(out, cloneWord(w))
		}
	}
	return out, nil
}

func (s *WordStore) SaveExamples(_ context.Context, wordID uuid.UUID, examples []domain.Example) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.words[wordID]
	if !ok {
		return store.ErrWordNotFound
	}
	for i := range examples {
		if examples[i].ID == uuid.Nil {
			examples[i].ID = uuid.New()
		}
		w.Examples = append(w.Examples, cloneExample(examples[i]))
	}
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *WordStore) SaveWordAudio(_ context.Context, wordID uuid.UUID, valueAudio, translationAudio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.words[wordID]
	if !ok {
		return store.ErrWordNotFound
	}
	if valueAudio != nil {
		w.ValueAudio = clone(valueAudio)
	}
	if translationAudio != nil {
		w.TranslationAudio = clone(translationAudio)
	}
	return nil
}

func (s *WordStore) SaveExampleAudio(_ context.Context, exampleID uuid.UUID, valueAudio, translationAudio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.words {
		for i := range w.Examples {
			if w.Examples[i].ID != exampleID {
				continue
			}
			if valueAudio != nil {
				w.Examples[i].ValueAudio = clone(valueAudio)
			}
			if translationAudio != nil {
				w.Examples[i].TranslationAudio = clone(translationAudio)
			}
			return nil
		}
	}
	return store.ErrExampleNotFound
}

func cloneWord(w *domain.Word) *domain.Word {
	cp := *w
	cp.ValueAudio = clone(w.ValueAudio)
	cp.TranslationAudio = clone(w.TranslationAudio)
	cp.Examples = nil
	for _, ex := range w.Examples {
		cp.Examples = append(cp.Examples, cloneExample(ex))
	}
	return &cp
}

func cloneExample(ex domain.Example) domain.Example {
	ex.ValueAudio = clone(ex.ValueAudio)
	ex.TranslationAudio = clone(ex.TranslationAudio)
	return ex
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
