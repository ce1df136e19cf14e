package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
)

// WordStore persists learnable words together with their examples and
// cached pronunciations. Generic word CRUD lives elsewhere; this interface
// only covers what the game reads and lazily fills in.
type WordStore interface {
	// GetByID loads a word with all of its examples.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// GetByIDs loads several words at once. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Word, error)

	// SaveExamples appends generated examples to a word. Examples with a
	// nil ID are assigned one in place.
	// Returns ErrWordNotFound if the word does not exist.
	SaveExamples(ctx context.Context, wordID uuid.UUID, examples []domain.Example) error

	// SaveWordAudio stores synthesized pronunciations for the word's value
	// and translation. A nil slice leaves the corresponding column unchanged.
	SaveWordAudio(ctx context.Context, wordID uuid.UUID, valueAudio, translationAudio []byte) error

	// SaveExampleAudio stores synthesized pronunciations for one example.
	// A nil slice leaves the corresponding column unchanged.
	// Returns ErrExampleNotFound if the example does not exist.
	SaveExampleAudio(ctx context.Context, exampleID uuid.UUID, valueAudio, translationAudio []byte) error
}
