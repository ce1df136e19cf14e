package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TypeWordEnrichment requests that a word's missing examples or audio be filled in.
const TypeWordEnrichment = "word_enrichment"

// ErrEmptyType is returned when an event is created without a type.
var ErrEmptyType = errors.New("event type cannot be empty")

// TaskRequestEvent is a request to run a piece of background work.
type TaskRequestEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *TaskRequestEvent) UnmarshalPayload(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// NewTaskRequestEvent creates an event with a JSON encoded payload.
func NewTaskRequestEvent(eventType string, payload any) (*TaskRequestEvent, error) {
	if eventType == "" {
		return nil, ErrEmptyType
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// WordEnrichmentPayload names the word and what it is missing.
// Kinds holds game enrichment names such as "examples" or "word_audio".
// ExampleID narrows example audio synthesis to one example.
type WordEnrichmentPayload struct {
	WordID    uuid.UUID  `json:"word_id"`
	Kinds     []string   `json:"kinds"`
	ExampleID *uuid.UUID `json:"example_id,omitempty"`
}

// NewWordEnrichmentEvent builds a TypeWordEnrichment event.
func NewWordEnrichmentEvent(payload WordEnrichmentPayload) (*TaskRequestEvent, error) {
	if payload.WordID == uuid.Nil {
		return nil, errors.New("word enrichment requires a word ID")
	}
	if len(payload.Kinds) == 0 {
		return nil, errors.New("word enrichment requires at least one kind")
	}
	return NewTaskRequestEvent(TypeWordEnrichment, payload)
}

// EventHandler processes events of the types it was registered for.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskRequestEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes events to interested handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
