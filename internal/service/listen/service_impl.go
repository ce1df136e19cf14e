package listen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/audio"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/service/enrichment"
	"github.com/phrazzld/lingua-bot/internal/store"
	"golang.org/x/sync/errgroup"
)

type serviceImpl struct {
	words     store.WordStore
	userWords store.UserWordStore
	enricher  enrichment.Service
	cfg       Config
	logger    *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates the listening service.
func NewService(
	words store.WordStore,
	userWords store.UserWordStore,
	enricher enrichment.Service,
	cfg Config,
	logger *slog.Logger,
) (Service, error) {
	if words == nil || userWords == nil || enricher == nil {
		return nil, fmt.Errorf("listen: stores and enricher are required")
	}
	if cfg.MaxWords < 1 {
		return nil, fmt.Errorf("listen: max words must be positive, got %d", cfg.MaxWords)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		words:     words,
		userWords: userWords,
		enricher:  enricher,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "listen_service")),
	}, nil
}

// ListenWord implements Service.ListenWord.
func (s *serviceImpl) ListenWord(ctx context.Context, wordID uuid.UUID) (Clip, error) {
	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to load word: %w", err)
	}
	clips, err := s.pronounce(ctx, []*domain.Word{word})
	if err != nil {
		return Clip{}, err
	}
	joined, err := audio.Concat(clips, s.cfg.Silence)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to join pronunciations: %w", err)
	}
	return Clip{Title: word.Value, Caption: word.Label(), Audio: joined}, nil
}

// ListenWords implements Service.ListenWords.
func (s *serviceImpl) ListenWords(
	ctx context.Context,
	userID, groupID uuid.UUID,
	wordIDs []uuid.UUID,
) (Clip, error) {
	if len(wordIDs) == 0 {
		return Clip{}, ErrNoWords
	}
	if len(wordIDs) > s.cfg.MaxWords {
		return Clip{}, &TooManyWordsError{Max: s.cfg.MaxWords, Selected: len(wordIDs)}
	}

	for _, id := range wordIDs {
		progress, err := s.userWords.Find(ctx, userID, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				return Clip{}, fmt.Errorf("%w: %s", ErrWordNotInGroup, id)
			}
			return Clip{}, fmt.Errorf("failed to load progress: %w", err)
		}
		if progress.GroupID != groupID {
			return Clip{}, fmt.Errorf("%w: %s", ErrWordNotInGroup, id)
		}
	}

	loaded, err := s.words.GetByIDs(ctx, wordIDs)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to load words: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Word, len(loaded))
	for _, w := range loaded {
		byID[w.ID] = w
	}
	ordered := make([]*domain.Word, 0, len(wordIDs))
	labels := make([]string, 0, len(wordIDs))
	for _, id := range wordIDs {
		w, ok := byID[id]
		if !ok {
			return Clip{}, fmt.Errorf("%w: %s", store.ErrWordNotFound, id)
		}
		cp := *w // a word may be requested twice
		ordered = append(ordered, &cp)
		labels = append(labels, w.Label())
	}

	clips, err := s.pronounce(ctx, ordered)
	if err != nil {
		return Clip{}, err
	}
	joined, err := audio.Concat(clips, s.cfg.Silence)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to join pronunciations: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("listening clip rendered",
		slog.String("group_id", groupID.String()),
		slog.Int("words", len(ordered)),
		slog.Int("bytes", len(joined)))

	return Clip{
		Title:   fmt.Sprintf("%d words", len(ordered)),
		Caption: strings.Join(labels, "\n"),
		Audio:   joined,
	}, nil
}

// pronounce returns value and translation clips for every word in order,
// synthesizing missing audio concurrently.
func (s *serviceImpl) pronounce(ctx context.Context, words []*domain.Word) ([][]byte, error) {
	clips := make([][]byte, 2*len(words))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range words {
		g.Go(func() error {
			ttsCtx, cancel := context.WithTimeout(gctx, s.cfg.TTSTimeout)
			defer cancel()
			value, translation, err := s.enricher.EnsureWordAudio(ttsCtx, w)
			if err != nil {
				return fmt.Errorf("failed to pronounce %q: %w", w.Value, err)
			}
			clips[2*i], clips[2*i+1] = value, translation
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("pronunciation unavailable",
			slog.String("error", err.Error()))
		return nil, err
	}
	return clips, nil
}
