package learning_game

import (
	"sync"
	"sync/atomic"
)

// SessionStore holds the pending question of every session.
type SessionStore interface {
	// Get returns the pending question, if any.
	Get(sessionID string) (*PendingQuestion, bool)
	// Put replaces the pending question and stamps it with the next turn number.
	Put(q *PendingQuestion)
	// Clear removes the pending question.
	Clear(sessionID string)
	// TryLock claims the session for one turn. ok is false when another turn
	// holds it.
	TryLock(sessionID string) (unlock func(), ok bool)
}

type sessionEntry struct {
	turn    sync.Mutex
	mu      sync.Mutex
	pending *PendingQuestion
}

// InMemorySessionStore keeps sessions in process memory. Entries live for
// the lifetime of the process so a session's turn lock is never replaced
// while held.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	turns    atomic.Uint64
}

var _ SessionStore = (*InMemorySessionStore)(nil)

// NewInMemorySessionStore creates an empty store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]*sessionEntry)}
}

func (s *InMemorySessionStore) entry(sessionID string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{}
		s.sessions[sessionID] = e
	}
	return e
}

func (s *InMemorySessionStore) Get(sessionID string) (*PendingQuestion, bool) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return nil, false
	}
	cp := *e.pending
	return &cp, true
}

func (s *InMemorySessionStore) Put(q *PendingQuestion) {
	q.Turn = s.turns.Add(1)
	cp := *q
	e := s.entry(q.SessionID)
	e.mu.Lock()
	e.pending = &cp
	e.mu.Unlock()
}

func (s *InMemorySessionStore) Clear(sessionID string) {
	e := s.entry(sessionID)
	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
}

func (s *InMemorySessionStore) TryLock(sessionID string) (func(), bool) {
	e := s.entry(sessionID)
	if !e.turn.TryLock() {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(e.turn.Unlock) }, true
}
