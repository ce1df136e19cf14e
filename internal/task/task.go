package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeWordEnrichment fills in a word's missing examples or audio.
const TaskTypeWordEnrichment = "word_enrichment"

// ErrUnknownTaskType is returned when no factory is registered for a record's type.
var ErrUnknownTaskType = errors.New("unknown task type")

// Task represents a unit of background work to be processed
type Task interface {
	ID() uuid.UUID
	Type() string
	Payload() []byte
	Status() TaskStatus
	Execute(ctx context.Context) error
}

// Record is a task as persisted by a TaskStore.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task in its current status.
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Record, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only tasks that have been processing for
	// longer than that are returned.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Record, error)
}

// Factory rebuilds an executable task from its persisted record.
type Factory interface {
	FromRecord(rec Record) (Task, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(rec Record) (Task, error)

// FromRecord calls f.
func (f FactoryFunc) FromRecord(rec Record) (Task, error) {
	return f(rec)
}

// Registry maps task types to the factories that rehydrate them.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates taskType with f, replacing any earlier registration.
func (r *Registry) Register(taskType string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[taskType] = f
}

// Resolve rebuilds the task described by rec.
func (r *Registry) Resolve(rec Record) (Task, error) {
	r.mu.RLock()
	f, ok := r.factories[rec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaskType, rec.Type)
	}
	t, err := f.FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("rehydrate %s task %s: %w", rec.Type, rec.ID, err)
	}
	return t, nil
}
