package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskRequestEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestNewWordEnrichmentEvent(t *testing.T) {
	t.Parallel()

	wordID := uuid.New()
	exampleID := uuid.New()

	t.Run("round trips payload", func(t *testing.T) {
		t.Parallel()
		event, err := NewWordEnrichmentEvent(WordEnrichmentPayload{
			WordID:    wordID,
			Kinds:     []string{"examples", "example_audio"},
			ExampleID: &exampleID,
		})
		require.NoError(t, err)
		assert.Equal(t, TypeWordEnrichment, event.Type)
		assert.NotEqual(t, uuid.Nil, event.ID)

		var got WordEnrichmentPayload
		require.NoError(t, event.UnmarshalPayload(&got))
		assert.Equal(t, wordID, got.WordID)
		assert.Equal(t, []string{"examples", "example_audio"}, got.Kinds)
		require.NotNil(t, got.ExampleID)
		assert.Equal(t, exampleID, *got.ExampleID)
	})

	t.Run("rejects missing word", func(t *testing.T) {
		t.Parallel()
		_, err := NewWordEnrichmentEvent(WordEnrichmentPayload{Kinds: []string{"examples"}})
		assert.Error(t, err)
	})

	t.Run("rejects empty kinds", func(t *testing.T) {
		t.Parallel()
		_, err := NewWordEnrichmentEvent(WordEnrichmentPayload{WordID: wordID})
		assert.Error(t, err)
	})

	t.Run("rejects empty type", func(t *testing.T) {
		t.Parallel()
		_, err := NewTaskRequestEvent("", nil)
		assert.ErrorIs(t, err, ErrEmptyType)
	})
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewTaskRequestEvent("other", map[string]string{"k": "v"})
		require.NoError(t, err)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("routes by type", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		enrich := &recordingHandler{}
		other := &recordingHandler{}
		emitter.RegisterHandler(TypeWordEnrichment, enrich)
		emitter.RegisterHandler("other", other)

		event, err := NewWordEnrichmentEvent(WordEnrichmentPayload{
			WordID: uuid.New(),
			Kinds:  []string{"word_audio"},
		})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Len(t, enrich.events, 1)
		assert.Same(t, event, enrich.events[0])
		assert.Empty(t, other.events)
	})

	t.Run("all handlers run when one fails", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		ok := &recordingHandler{}
		emitter.RegisterHandler("x", failing)
		emitter.RegisterHandler("x", ok)
		var called bool
		emitter.RegisterHandler("x", HandlerFunc(func(context.Context, *TaskRequestEvent) error {
			called = true
			return nil
		}))

		event, err := NewTaskRequestEvent("x", nil)
		require.NoError(t, err)
		err = emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "handler error")
		assert.Len(t, ok.events, 1)
		assert.True(t, called)
	})
}
