package learning_game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/store"
)

// RatingStore applies verdicts to ratings. The clamp runs inside the store
// so concurrent verdicts on the same word never lose an update.
type RatingStore struct {
	userWords store.UserWordStore
}

// NewRatingStore wraps a UserWordStore.
func NewRatingStore(userWords store.UserWordStore) *RatingStore {
	if userWords == nil {
		panic("userWords cannot be nil")
	}
	return &RatingStore{userWords: userWords}
}

// ApplyVerdict moves the rating by the tier delta and returns the new value.
func (r *RatingStore) ApplyVerdict(
	ctx context.Context,
	userID, wordID uuid.UUID,
	tier game.Tier,
	correct bool,
) (float64, error) {
	rating, err := r.userWords.ApplyRatingDelta(ctx, userID, wordID, game.SignedDelta(tier, correct), game.MaxRating)
	if err != nil {
		return 0, fmt.Errorf("apply rating delta: %w", err)
	}
	return rating, nil
}
