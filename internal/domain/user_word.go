package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxRating is the ceiling of a word rating. Percent-complete reporting is
// computed against the same constant.
const MaxRating = 100.0

// UserWord tracks one user's progress on one word.
// Rating is only ever changed through the rating store so it stays in [0, MaxRating].
type UserWord struct {
	UserID    uuid.UUID `json:"user_id"`
	WordID    uuid.UUID `json:"word_id"`
	GroupID   uuid.UUID `json:"group_id"`
	Rating    float64   `json:"rating"`
	IsChosen  bool      `json:"is_chosen"` // included in the current study selection
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserWord creates progress for a freshly added word with a zero rating.
func NewUserWord(userID, wordID, groupID uuid.UUID) (*UserWord, error) {
	uw := &UserWord{
		UserID:    userID,
		WordID:    wordID,
		GroupID:   groupID,
		IsActive:  true,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uw.Validate(); err != nil {
		return nil, err
	}
	return uw, nil
}

// Validate checks identifiers and the rating bounds.
func (u *UserWord) Validate() error {
	if u.UserID == uuid.Nil || u.WordID == uuid.Nil || u.GroupID == uuid.Nil {
		return fmt.Errorf("%w: user, word and group IDs are required", ErrInvalidID)
	}
	if u.Rating < 0 || u.Rating > MaxRating {
		return fmt.Errorf("%w: %.2f", ErrRatingOutOfRange, u.Rating)
	}
	return nil
}

// RatingPercent converts a rating into the percentage shown to learners.
func RatingPercent(rating float64) int {
	p := int(rating / MaxRating * 100)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
