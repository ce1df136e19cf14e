package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Example is a sentence using a word together with its translation.
// Audio fields hold WAV encoded pronunciations and stay nil until synthesized.
type Example struct {
	ID               uuid.UUID `json:"id"`
	Value            string    `json:"value"`
	Translation      string    `json:"translation"`
	ValueAudio       []byte    `json:"-"`
	TranslationAudio []byte    `json:"-"`
}

// NewExample creates an example with a fresh identifier.
func NewExample(value, translation string) (Example, error) {
	ex := Example{
		ID:          uuid.New(),
		Value:       strings.TrimSpace(value),
		Translation: strings.TrimSpace(translation),
	}
	if ex.Value == "" || ex.Translation == "" {
		return Example{}, fmt.Errorf("%w: example requires value and translation", ErrEmptyContent)
	}
	return ex, nil
}

// HasAudio reports whether both sides of the example have been synthesized.
func (e Example) HasAudio() bool {
	return len(e.ValueAudio) > 0 && len(e.TranslationAudio) > 0
}

// Word is a learnable vocabulary entry owned by a word group.
type Word struct {
	ID               uuid.UUID `json:"id"`
	GroupID          uuid.UUID `json:"group_id"`
	Value            string    `json:"value"`       // target-language text
	Translation      string    `json:"translation"` // native-language text
	ValueAudio       []byte    `json:"-"`
	TranslationAudio []byte    `json:"-"`
	Examples         []Example `json:"examples"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Validate checks that the word carries the fields every question form relies on.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil || w.GroupID == uuid.Nil {
		return fmt.Errorf("%w: word and group IDs are required", ErrInvalidID)
	}
	if strings.TrimSpace(w.Value) == "" || strings.TrimSpace(w.Translation) == "" {
		return fmt.Errorf("%w: word requires value and translation", ErrEmptyContent)
	}
	return nil
}

// Label renders the word the way it is listed to the learner.
func (w *Word) Label() string {
	return w.Value + " - " + w.Translation
}

// Side returns the value when source is true and the translation otherwise.
func (w *Word) Side(source bool) string {
	if source {
		return w.Value
	}
	return w.Translation
}

// HasExamples reports whether at least one example sentence is attached.
func (w *Word) HasExamples() bool {
	return len(w.Examples) > 0
}

// Example looks up an attached example by ID.
func (w *Word) Example(id uuid.UUID) (Example, error) {
	for _, ex := range w.Examples {
		if ex.ID == id {
			return ex, nil
		}
	}
	return Example{}, fmt.Errorf("%w: %s", ErrExampleNotFound, id)
}

// RandomExample picks one attached example uniformly at random; intn
// returns a value in [0, n). The boolean is false when the word has no examples.
func (w *Word) RandomExample(intn func(n int) int) (Example, bool) {
	if len(w.Examples) == 0 {
		return Example{}, false
	}
	return w.Examples[intn(len(w.Examples))], true
}
