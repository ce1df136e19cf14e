// Package enrichment fills in the assets questions depend on: example
// sentences generated by the AI text service and pronunciations from the
// speech service. Assets are persisted on the word so each one is produced
// at most once.
package enrichment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/platform/speech"
)

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice speech.Voice) ([]byte, error)
}

// Voices pairs the voice for each side of a word or example.
type Voices struct {
	Value       speech.Voice
	Translation speech.Voice
}

// Service produces missing word assets and persists them.
type Service interface {
	// EnsureExamples returns the word's examples, generating and saving them
	// first when the word has none.
	EnsureExamples(ctx context.Context, word *domain.Word) ([]domain.Example, error)

	// EnsureWordAudio returns both pronunciations of the word, synthesizing
	// and saving whichever is missing.
	EnsureWordAudio(ctx context.Context, word *domain.Word) (value, translation []byte, err error)

	// EnsureExampleAudio returns the example with both pronunciations set,
	// synthesizing and saving whichever is missing.
	EnsureExampleAudio(ctx context.Context, word *domain.Word, exampleID uuid.UUID) (domain.Example, error)

	// EnrichWord loads a word and produces the requested kinds of assets.
	// A nil exampleID with EnrichExampleAudio covers every example.
	EnrichWord(ctx context.Context, wordID uuid.UUID, kinds []game.Enrichment, exampleID *uuid.UUID) error
}

var (
	// ErrUnknownEnrichment is returned for an enrichment kind the service
	// does not produce.
	ErrUnknownEnrichment = errors.New("unknown enrichment kind")
)
