// Package listen renders pronunciation recordings for review outside the
// game: one word, or a batch of chosen words joined into a single clip.
package listen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clip is a playable recording with the text shown next to it.
type Clip struct {
	Title   string `json:"title"`
	Caption string `json:"caption"`
	Audio   []byte `json:"audio"`
}

// Service renders listening clips.
type Service interface {
	// ListenWord returns the value pronunciation followed by the translation.
	ListenWord(ctx context.Context, wordID uuid.UUID) (Clip, error)

	// ListenWords joins the pronunciations of the given words of a group in
	// the order requested. Selections above the configured cap are rejected.
	ListenWords(ctx context.Context, userID, groupID uuid.UUID, wordIDs []uuid.UUID) (Clip, error)
}

// Config holds the listening tunables.
type Config struct {
	MaxWords   int
	Silence    time.Duration
	TTSTimeout time.Duration
}

// DefaultConfig returns the production tunables.
func DefaultConfig() Config {
	return Config{
		MaxWords:   10,
		Silence:    500 * time.Millisecond,
		TTSTimeout: 10 * time.Second,
	}
}

var (
	// ErrNoWords is returned when a batch names no words.
	ErrNoWords = errors.New("no words selected")

	// ErrTooManyWords is returned when a batch exceeds the cap.
	ErrTooManyWords = errors.New("too many words selected")

	// ErrWordNotInGroup is returned when a requested word is not one of the
	// user's words in the group.
	ErrWordNotInGroup = errors.New("word is not in the group")
)

// TooManyWordsError reports the cap that was exceeded. It matches
// ErrTooManyWords with errors.Is.
type TooManyWordsError struct {
	Max      int
	Selected int
}

func (e *TooManyWordsError) Error() string {
	return fmt.Sprintf("%v: %d selected, at most %d allowed", ErrTooManyWords, e.Selected, e.Max)
}

func (e *TooManyWordsError) Unwrap() error {
	return ErrTooManyWords
}

// UserMessage is the text shown to the learner.
func (e *TooManyWordsError) UserMessage() string {
	return fmt.Sprintf("🎧 Можно прослушать не больше %d слов за раз", e.Max)
}
