package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/generation"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	words     store.WordStore
	generator generation.ExampleGenerator
	tts       Synthesizer
	voices    Voices
	flights   singleflight.Group
	logger    *slog.Logger
}

// NewService creates the enrichment service.
func NewService(
	words store.WordStore,
	generator generation.ExampleGenerator,
	tts Synthesizer,
	voices Voices,
	logger *slog.Logger,
) Service {
	if words == nil {
		panic("words cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if tts == nil {
		panic("tts cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		words:     words,
		generator: generator,
		tts:       tts,
		voices:    voices,
		logger:    logger.With(slog.String("component", "enrichment_service")),
	}
}

// EnsureExamples implements Service.EnsureExamples. Concurrent calls for the
// same word share one generation.
func (s *serviceImpl) EnsureExamples(ctx context.Context, word *domain.Word) ([]domain.Example, error) {
	if word.HasExamples() {
		return word.Examples, nil
	}

	v, err, _ := s.flights.Do("examples:"+word.ID.String(), func() (any, error) {
		// Another request may have filled them in since word was loaded.
		fresh, err := s.words.GetByID(ctx, word.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload word: %w", err)
		}
		if fresh.HasExamples() {
			return fresh.Examples, nil
		}

		examples, err := s.generator.GenerateExamples(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("failed to generate examples: %w", err)
		}
		if err := s.words.SaveExamples(ctx, word.ID, examples); err != nil {
			return nil, fmt.Errorf("failed to save examples: %w", err)
		}

		logger.FromContextOrDefault(ctx, s.logger).Info("examples generated",
			slog.String("word_id", word.ID.String()),
			slog.Int("count", len(examples)))
		return examples, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers sharing a flight must not share the backing array.
	word.Examples = slices.Clone(v.([]domain.Example))
	return word.Examples, nil
}

// EnsureWordAudio implements Service.EnsureWordAudio.
func (s *serviceImpl) EnsureWordAudio(ctx context.Context, word *domain.Word) ([]byte, []byte, error) {
	if len(word.ValueAudio) > 0 && len(word.TranslationAudio) > 0 {
		return word.ValueAudio, word.TranslationAudio, nil
	}

	v, err, _ := s.flights.Do("word_audio:"+word.ID.String(), func() (any, error) {
		pair, err := s.synthesizePair(ctx,
			word.Value, word.ValueAudio,
			word.Translation, word.TranslationAudio)
		if err != nil {
			return nil, err
		}
		if err := s.words.SaveWordAudio(ctx, word.ID, pair.newValue, pair.newTranslation); err != nil {
			return nil, fmt.Errorf("failed to save word audio: %w", err)
		}
		return pair, nil
	})
	if err != nil {
		return nil, nil, err
	}

	pair := v.(audioPair)
	word.ValueAudio, word.TranslationAudio = pair.value, pair.translation
	return pair.value, pair.translation, nil
}

// EnsureExampleAudio implements Service.EnsureExampleAudio.
func (s *serviceImpl) EnsureExampleAudio(
	ctx context.Context,
	word *domain.Word,
	exampleID uuid.UUID,
) (domain.Example, error) {
	ex, err := word.Example(exampleID)
	if err != nil {
		return domain.Example{}, err
	}
	if ex.HasAudio() {
		return ex, nil
	}

	v, err, _ := s.flights.Do("example_audio:"+exampleID.String(), func() (any, error) {
		pair, err := s.synthesizePair(ctx,
			ex.Value, ex.ValueAudio,
			ex.Translation, ex.TranslationAudio)
		if err != nil {
			return nil, err
		}
		if err := s.words.SaveExampleAudio(ctx, exampleID, pair.newValue, pair.newTranslation); err != nil {
			return nil, fmt.Errorf("failed to save example audio: %w", err)
		}
		return pair, nil
	})
	if err != nil {
		return domain.Example{}, err
	}

	pair := v.(audioPair)
	ex.ValueAudio, ex.TranslationAudio = pair.value, pair.translation
	for i := range word.Examples {
		if word.Examples[i].ID == exampleID {
			word.Examples[i] = ex
		}
	}
	return ex, nil
}

// EnrichWord implements Service.EnrichWord.
func (s *serviceImpl) EnrichWord(
	ctx context.Context,
	wordID uuid.UUID,
	kinds []game.Enrichment,
	exampleID *uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return fmt.Errorf("failed to load word %s: %w", wordID, err)
	}

	var errs []error
	for _, kind := range kinds {
		switch kind {
		case game.EnrichExamples:
			_, err = s.EnsureExamples(ctx, word)
		case game.EnrichWordAudio:
			_, _, err = s.EnsureWordAudio(ctx, word)
		case game.EnrichExampleAudio:
			err = s.enrichExampleAudio(ctx, word, exampleID)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownEnrichment, kind)
		}
		if err != nil {
			log.Warn("enrichment failed",
				slog.String("word_id", wordID.String()),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}

func (s *serviceImpl) enrichExampleAudio(ctx context.Context, word *domain.Word, exampleID *uuid.UUID) error {
	if exampleID != nil {
		_, err := s.EnsureExampleAudio(ctx, word, *exampleID)
		return err
	}
	for _, ex := range word.Examples {
		if _, err := s.EnsureExampleAudio(ctx, word, ex.ID); err != nil {
			return err
		}
	}
	return nil
}

// audioPair holds both pronunciations; the new* fields are only set for
// sides synthesized in this call so existing columns are left untouched.
type audioPair struct {
	value, translation       []byte
	newValue, newTranslation []byte
}

// synthesizePair synthesizes the missing sides concurrently and fails if
// either call fails.
func (s *serviceImpl) synthesizePair(
	ctx context.Context,
	valueText string, valueAudio []byte,
	translationText string, translationAudio []byte,
) (audioPair, error) {
	pair := audioPair{value: valueAudio, translation: translationAudio}

	g, gctx := errgroup.WithContext(ctx)
	if len(valueAudio) == 0 {
		g.Go(func() error {
			audio, err := s.tts.Synthesize(gctx, valueText, s.voices.Value)
			if err != nil {
				return fmt.Errorf("failed to synthesize value: %w", err)
			}
			pair.value, pair.newValue = audio, audio
			return nil
		})
	}
	if len(translationAudio) == 0 {
		g.Go(func() error {
			audio, err := s.tts.Synthesize(gctx, translationText, s.voices.Translation)
			if err != nil {
				return fmt.Errorf("failed to synthesize translation: %w", err)
			}
			pair.translation, pair.newTranslation = audio, audio
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return audioPair{}, err
	}
	return pair, nil
}
