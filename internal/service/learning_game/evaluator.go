package learning_game

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/generation"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/redact"
	"github.com/phrazzld/lingua-bot/internal/store"
	"golang.org/x/crypto/blake2b"
)

const (
	normalizeCacheLimit = 4096
	maxLoggedRaw        = 2048
)

var (
	normalizeCache sync.Map
	normalizeCount atomic.Int64
)

// Normalize lowercases s, drops every rune that is not a letter, digit,
// underscore or whitespace and collapses whitespace runs into one space.
// It is idempotent.
func Normalize(s string) string {
	if v, ok := normalizeCache.Load(s); ok {
		return v.(string)
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	out := b.String()

	if normalizeCount.Add(1) > normalizeCacheLimit {
		normalizeCache.Clear()
		normalizeCount.Store(0)
	}
	normalizeCache.Store(s, out)
	return out
}

// VerificationKey derives the cache key of an AI verdict from the word, the
// example and the normalized submission.
func VerificationKey(wordID uuid.UUID, exampleID *uuid.UUID, submitted string) string {
	example := ""
	if exampleID != nil {
		example = exampleID.String()
	}
	sum := blake2b.Sum256([]byte(wordID.String() + "|" + example + "|" + Normalize(submitted)))
	return "verify:v1:" + hex.EncodeToString(sum[:])
}

// Evaluation is one answer to grade.
type Evaluation struct {
	Question      *PendingQuestion
	Submitted     string
	PressedWordID uuid.UUID // set for button answers
}

// Verdict is the outcome of grading.
type Verdict struct {
	Correct     bool
	Explanation string
	// ViaAI is set when the exact comparison failed and the AI check (fresh
	// or cached) decided.
	ViaAI bool
}

// Evaluator grades answers.
type Evaluator struct {
	cache    store.VerificationCacheStore
	verifier generation.TranslationVerifier
	cfg      Config
	now      func() time.Time
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator. cache may be nil, which disables caching.
func NewEvaluator(
	cache store.VerificationCacheStore,
	verifier generation.TranslationVerifier,
	cfg Config,
	logger *slog.Logger,
) *Evaluator {
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		cache:    cache,
		verifier: verifier,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "answer_evaluator")),
	}
}

// Evaluate grades an answer. Only an invalid question yields an error;
// service failures degrade to a "not verified" verdict.
func (e *Evaluator) Evaluate(ctx context.Context, ev Evaluation) (Verdict, error) {
	q := ev.Question
	if q == nil {
		return Verdict{}, errors.New("evaluate: nil question")
	}

	switch {
	case q.Tier.AcceptsButtons():
		return Verdict{Correct: ev.PressedWordID == q.WordID}, nil
	case q.Tier.MultipleChoice():
		want := Normalize(ev.Submitted)
		for _, opt := range q.Options {
			if Normalize(opt.Text) == want {
				return Verdict{Correct: opt.WordID == q.WordID}, nil
			}
		}
		return Verdict{}, nil
	case !q.Tier.UsesSentence():
		return Verdict{Correct: Normalize(ev.Submitted) == Normalize(q.ExpectedAnswer)}, nil
	}

	if Normalize(ev.Submitted) == Normalize(q.ExpectedAnswer) {
		return Verdict{Correct: true}, nil
	}
	return e.verify(ctx, q, ev.Submitted), nil
}

// verify consults the cache, then the AI service, and caches fresh verdicts.
func (e *Evaluator) verify(ctx context.Context, q *PendingQuestion, submitted string) Verdict {
	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("word_id", q.WordID.String()),
		slog.String("question_id", q.ID.String()))
	key := VerificationKey(q.WordID, q.ExampleID, submitted)

	if entry, ok := e.cached(ctx, log, key); ok {
		return Verdict{Correct: entry.Verdict, Explanation: entry.Explanation, ViaAI: true}
	}

	aiCtx, cancel := context.WithTimeout(ctx, e.cfg.AITimeout)
	defer cancel()
	result, err := e.verifier.VerifyTranslation(aiCtx, generation.VerificationRequest{
		Word: &domain.Word{
			ID:          q.WordID,
			Value:       q.WordValue,
			Translation: q.WordTranslation,
		},
		Sentence:             q.Sentence,
		ReferenceTranslation: q.ReferenceTranslation,
		Submitted:            submitted,
		TargetShown:          !q.PresentSourceSide,
	})
	if err != nil {
		attrs := []any{slog.String("error", redact.Error(err))}
		if raw := generation.RawResponse(err); len(raw) > 0 {
			attrs = append(attrs, slog.String("raw_response", redact.Payload(raw, maxLoggedRaw)))
		}
		log.Warn("translation verification failed", attrs...)
		return Verdict{Correct: false, Explanation: MsgNotVerified, ViaAI: true}
	}

	e.store(ctx, log, &domain.VerificationEntry{
		Key:         key,
		Verdict:     result.Correct,
		Explanation: result.Explanation,
		ExpiresAt:   e.now().Add(e.cfg.VerificationTTL),
	})
	return Verdict{Correct: result.Correct, Explanation: result.Explanation, ViaAI: true}
}

func (e *Evaluator) cached(ctx context.Context, log *slog.Logger, key string) (*domain.VerificationEntry, bool) {
	if e.cache == nil {
		return nil, false
	}
	cacheCtx, cancel := context.WithTimeout(ctx, e.cfg.CacheTimeout)
	defer cancel()

	entry, err := e.cache.Get(cacheCtx, key, e.now())
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Warn("verification cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	log.Debug("verification cache hit")
	return entry, true
}

func (e *Evaluator) store(ctx context.Context, log *slog.Logger, entry *domain.VerificationEntry) {
	if e.cache == nil {
		return
	}
	cacheCtx, cancel := context.WithTimeout(ctx, e.cfg.CacheTimeout)
	defer cancel()
	if err := e.cache.Put(cacheCtx, entry); err != nil {
		log.Warn("verification cache write failed", slog.String("error", err.Error()))
	}
}
