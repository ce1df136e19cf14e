package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/events"
)

// Enricher fills in missing assets of a word and persists them.
type Enricher interface {
	EnrichWord(ctx context.Context, wordID uuid.UUID, kinds []game.Enrichment, exampleID *uuid.UUID) error
}

// EnrichWordTask backfills the examples or audio a question had to do without.
type EnrichWordTask struct {
	id       uuid.UUID
	payload  events.WordEnrichmentPayload
	raw      []byte
	status   TaskStatus
	enricher Enricher
	logger   *slog.Logger
}

var _ Task = (*EnrichWordTask)(nil)

// ID returns the task's unique identifier
func (t *EnrichWordTask) ID() uuid.UUID { return t.id }

// Type returns TaskTypeWordEnrichment.
func (t *EnrichWordTask) Type() string { return TaskTypeWordEnrichment }

// Payload returns the JSON encoded enrichment request.
func (t *EnrichWordTask) Payload() []byte { return t.raw }

// Status returns the status the task was created or loaded with.
func (t *EnrichWordTask) Status() TaskStatus { return t.status }

// WordID returns the word being enriched.
func (t *EnrichWordTask) WordID() uuid.UUID { return t.payload.WordID }

// Execute runs the enrichment.
func (t *EnrichWordTask) Execute(ctx context.Context) error {
	kinds := make([]game.Enrichment, 0, len(t.payload.Kinds))
	for _, k := range t.payload.Kinds {
		kinds = append(kinds, game.Enrichment(k))
	}

	t.logger.Debug("enriching word",
		slog.String("task_id", t.id.String()),
		slog.String("word_id", t.payload.WordID.String()),
		slog.Any("kinds", t.payload.Kinds))

	if err := t.enricher.EnrichWord(ctx, t.payload.WordID, kinds, t.payload.ExampleID); err != nil {
		return fmt.Errorf("enrich word %s: %w", t.payload.WordID, err)
	}
	return nil
}

// EnrichWordTaskFactory builds enrichment tasks, both fresh and from records.
type EnrichWordTaskFactory struct {
	enricher Enricher
	logger   *slog.Logger
}

var _ Factory = (*EnrichWordTaskFactory)(nil)

// NewEnrichWordTaskFactory creates a factory bound to an enricher.
func NewEnrichWordTaskFactory(enricher Enricher, logger *slog.Logger) *EnrichWordTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichWordTaskFactory{
		enricher: enricher,
		logger:   logger.With(slog.String("component", "enrich_word_task")),
	}
}

// Create builds a new pending task for payload.
func (f *EnrichWordTaskFactory) Create(payload events.WordEnrichmentPayload) (*EnrichWordTask, error) {
	if payload.WordID == uuid.Nil {
		return nil, errors.New("word ID cannot be empty")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode enrichment payload: %w", err)
	}
	return &EnrichWordTask{
		id:       uuid.New(),
		payload:  payload,
		raw:      raw,
		status:   TaskStatusPending,
		enricher: f.enricher,
		logger:   f.logger,
	}, nil
}

// FromRecord implements Factory.
func (f *EnrichWordTaskFactory) FromRecord(rec Record) (Task, error) {
	var payload events.WordEnrichmentPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode enrichment payload: %w", err)
	}
	if payload.WordID == uuid.Nil {
		return nil, errors.New("word ID cannot be empty")
	}
	return &EnrichWordTask{
		id:       rec.ID,
		payload:  payload,
		raw:      rec.Payload,
		status:   rec.Status,
		enricher: f.enricher,
		logger:   f.logger,
	}, nil
}
