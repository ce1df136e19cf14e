package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
)

// UserWordStore persists per-user word progress.
type UserWordStore interface {
	// Find returns the progress of a user on a word.
	// Returns ErrUserWordNotFound if none exists.
	Find(ctx context.Context, userID, wordID uuid.UUID) (*domain.UserWord, error)

	// Save inserts or updates progress. Rating is written as given, so callers
	// that change ratings must go through ApplyRatingDelta instead.
	Save(ctx context.Context, progress *domain.UserWord) error

	// CountChosen returns how many active words the user has chosen in a group.
	CountChosen(ctx context.Context, userID, groupID uuid.UUID) (int, error)

	// FindDue returns chosen, active progress rows of a group ordered by
	// ascending rating, capped at limit.
	FindDue(ctx context.Context, userID, groupID uuid.UUID, limit int) ([]*domain.UserWord, error)

	// ApplyRatingDelta atomically adds delta to the rating and clamps the
	// result to [0, ceiling]. Concurrent calls for the same pair never lose an
	// update. Returns the stored rating, or ErrUserWordNotFound.
	ApplyRatingDelta(ctx context.Context, userID, wordID uuid.UUID, delta, ceiling float64) (float64, error)
}
