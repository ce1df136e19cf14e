package learning_game

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/events"
	"github.com/phrazzld/lingua-bot/internal/generation"
	"github.com/phrazzld/lingua-bot/internal/platform/speech"
	"github.com/phrazzld/lingua-bot/internal/service/enrichment"
	"github.com/phrazzld/lingua-bot/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

type fakeVerifier struct {
	calls  atomic.Int32
	result generation.Verification
	err    error
}

func (v *fakeVerifier) VerifyTranslation(
	_ context.Context,
	_ generation.VerificationRequest,
) (generation.Verification, error) {
	v.calls.Add(1)
	return v.result, v.err
}

type fakeGenerator struct {
	err error
}

func (g *fakeGenerator) GenerateExamples(_ context.Context, word *domain.Word) ([]domain.Example, error) {
	if g.err != nil {
		return nil, g.err
	}
	ex, err := domain.NewExample("I have a "+word.Value+".", "У меня есть "+word.Translation+".")
	if err != nil {
		return nil, err
	}
	return []domain.Example{ex}, nil
}

type fakeSynth struct {
	err error
}

func (s *fakeSynth) Synthesize(_ context.Context, text string, _ speech.Voice) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("wav:" + text), nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) payloads(t *testing.T) []events.WordEnrichmentPayload {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]events.WordEnrichmentPayload, 0, len(e.events))
	for _, ev := range e.events {
		var p events.WordEnrichmentPayload
		require.NoError(t, ev.UnmarshalPayload(&p))
		out = append(out, p)
	}
	return out
}

// fixture is a group of chosen words of one user.
type fixture struct {
	userID    uuid.UUID
	groupID   uuid.UUID
	words     []*domain.Word
	wordStore *memory.WordStore
	userWords *memory.UserWordStore
}

type wordOption func(*domain.Word)

func withExample(withAudio bool) wordOption {
	return func(w *domain.Word) {
		ex := domain.Example{
			ID:          uuid.New(),
			Value:       "The " + w.Value + " is here.",
			Translation: w.Translation + " здесь.",
		}
		if withAudio {
			ex.ValueAudio = []byte("wav:" + ex.Value)
			ex.TranslationAudio = []byte("wav:" + ex.Translation)
		}
		w.Examples = []domain.Example{ex}
	}
}

func withWordAudio() wordOption {
	return func(w *domain.Word) {
		w.ValueAudio = []byte("wav:" + w.Value)
		w.TranslationAudio = []byte("wav:" + w.Translation)
	}
}

var vocabulary = [][2]string{
	{"cat", "кот"},
	{"dog", "собака"},
	{"house", "дом"},
	{"tree", "дерево"},
	{"river", "река"},
	{"bread", "хлеб"},
}

func newFixture(n int, rating float64, opts ...wordOption) *fixture {
	f := &fixture{userID: uuid.New(), groupID: uuid.New()}
	var rows []*domain.UserWord
	for i := 0; i < n; i++ {
		w := &domain.Word{
			ID:          uuid.New(),
			GroupID:     f.groupID,
			Value:       vocabulary[i][0],
			Translation: vocabulary[i][1],
		}
		for _, opt := range opts {
			opt(w)
		}
		f.words = append(f.words, w)
		rows = append(rows, &domain.UserWord{
			UserID:   f.userID,
			WordID:   w.ID,
			GroupID:  f.groupID,
			Rating:   rating,
			IsChosen: true,
			IsActive: true,
		})
	}
	f.wordStore = memory.NewWordStore(f.words...)
	f.userWords = memory.NewUserWordStore(rows...)
	return f
}

func (f *fixture) enricher(gen *fakeGenerator, synth *fakeSynth) enrichment.Service {
	voices := enrichment.Voices{
		Value:       speech.Voice{LanguageCode: "en-GB"},
		Translation: speech.Voice{LanguageCode: "ru-RU"},
	}
	return enrichment.NewService(f.wordStore, gen, synth, voices, discardLogger())
}

func (f *fixture) rating(t *testing.T, wordID uuid.UUID) float64 {
	t.Helper()
	uw, err := f.userWords.Find(context.Background(), f.userID, wordID)
	require.NoError(t, err)
	return uw.Rating
}
