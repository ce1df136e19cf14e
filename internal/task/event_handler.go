package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingua-bot/internal/events"
)

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// EnrichmentEventHandler turns word enrichment events into queued tasks.
type EnrichmentEventHandler struct {
	factory *EnrichWordTaskFactory
	runner  Submitter
	logger  *slog.Logger
}

var _ events.EventHandler = (*EnrichmentEventHandler)(nil)

// NewEnrichmentEventHandler creates a handler that submits tasks built by factory to runner.
func NewEnrichmentEventHandler(
	factory *EnrichWordTaskFactory,
	runner Submitter,
	logger *slog.Logger,
) *EnrichmentEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichmentEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With(slog.String("component", "enrichment_event_handler")),
	}
}

// HandleEvent implements events.EventHandler. Events of other types are ignored.
func (h *EnrichmentEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != events.TypeWordEnrichment {
		h.logger.Debug("ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var payload events.WordEnrichmentPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	task, err := h.factory.Create(payload)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit enrichment task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID().String()),
			slog.String("word_id", payload.WordID.String()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("enrichment task submitted",
		slog.String("task_id", task.ID().String()),
		slog.String("word_id", payload.WordID.String()),
		slog.Any("kinds", payload.Kinds))
	return nil
}
