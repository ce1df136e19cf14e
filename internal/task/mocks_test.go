package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
)

// mockTaskStore keeps records in memory and lets tests override behaviour.
type mockTaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record

	SaveFn         func(ctx context.Context, task Task) error
	UpdateStatusFn func(ctx context.Context, id uuid.UUID, status TaskStatus, msg string) error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{records: make(map[uuid.UUID]Record)}
}

func (s *mockTaskStore) SaveTask(ctx context.Context, task Task) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, task)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.records[task.ID()] = Record{
		ID:        task.ID(),
		Type:      task.Type(),
		Payload:   task.Payload(),
		Status:    task.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *mockTaskStore) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus, msg string) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status, msg)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	rec.Status = status
	rec.ErrorMessage = msg
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *mockTaskStore) GetPendingTasks(context.Context) ([]Record, error) {
	return s.byStatus(TaskStatusPending), nil
}

func (s *mockTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Record, error) {
	out := s.byStatus(TaskStatusProcessing)
	if olderThan <= 0 {
		return out, nil
	}
	cutoff := time.Now().Add(-olderThan)
	filtered := out[:0]
	for _, r := range out {
		if r.UpdatedAt.Before(cutoff) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *mockTaskStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

func (s *mockTaskStore) status(id uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id].Status
}

func (s *mockTaskStore) byStatus(status TaskStatus) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// mockTask is a Task whose execution is supplied by the test.
type mockTask struct {
	id        uuid.UUID
	taskType  string
	payload   []byte
	ExecuteFn func(ctx context.Context) error
}

func newMockTask(payload string) *mockTask {
	return &mockTask{
		id:        uuid.New(),
		taskType:  "mock",
		payload:   []byte(payload),
		ExecuteFn: func(context.Context) error { return nil },
	}
}

func (t *mockTask) ID() uuid.UUID                     { return t.id }
func (t *mockTask) Type() string                      { return t.taskType }
func (t *mockTask) Payload() []byte                   { return t.payload }
func (t *mockTask) Status() TaskStatus                { return TaskStatusPending }
func (t *mockTask) Execute(ctx context.Context) error { return t.ExecuteFn(ctx) }

// mockEnricher records enrichment calls.
type mockEnricher struct {
	mu    sync.Mutex
	calls []enrichCall
	err   error
}

type enrichCall struct {
	wordID    uuid.UUID
	kinds     []game.Enrichment
	exampleID *uuid.UUID
}

func (e *mockEnricher) EnrichWord(_ context.Context, wordID uuid.UUID, kinds []game.Enrichment, exampleID *uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, enrichCall{wordID: wordID, kinds: kinds, exampleID: exampleID})
	return e.err
}

var errBoom = errors.New("boom")
