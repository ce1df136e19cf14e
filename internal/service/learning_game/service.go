package learning_game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
)

// EventKind distinguishes the inbound events of a turn.
type EventKind string

// Inbound event kinds.
const (
	EventStart  EventKind = "start"
	EventText   EventKind = "text"
	EventButton EventKind = "button"
	EventFinish EventKind = "finish"
)

// Event is what the chat transport delivered for this turn. GroupID is only
// read for EventStart; later turns take the group from the pending question.
type Event struct {
	Kind    EventKind
	GroupID uuid.UUID
	Text    string
	Payload string
}

// TurnRequest identifies who acted and how.
type TurnRequest struct {
	SessionID string
	UserID    uuid.UUID
	Event     Event
}

// Button is one inline button. Payload is opaque to the transport.
type Button struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// RenderPayload is everything the transport has to show for a turn.
// Feedback answers the previous question and is sent before Text.
type RenderPayload struct {
	Feedback string     `json:"feedback,omitempty"`
	Text     string     `json:"text"`
	Audio    []byte     `json:"audio,omitempty"`
	Buttons  [][]Button `json:"buttons,omitempty"`
	Finished bool       `json:"finished,omitempty"`
}

// Option is one answer shown by a multiple-choice tier.
type Option struct {
	WordID uuid.UUID `json:"word_id"`
	Text   string    `json:"text"`
}

// PendingQuestion is the question a session is waiting on. It holds a
// snapshot of the texts needed to grade the answer so grading does not
// depend on the word being reloaded.
type PendingQuestion struct {
	ID                uuid.UUID
	SessionID         string
	UserID            uuid.UUID
	GroupID           uuid.UUID
	WordID            uuid.UUID
	Tier              game.Tier
	ExampleID         *uuid.UUID
	PresentSourceSide bool
	Turn              uint64

	WordValue       string
	WordTranslation string
	// Sentence is the shown side of a sentence tier example and
	// ReferenceTranslation the side expected back.
	Sentence             string
	ReferenceTranslation string
	ExpectedAnswer       string
	Options              []Option
	CreatedAt            time.Time
}

// Service is the game's entry point.
type Service interface {
	// HandleTurn processes one inbound event of a session and returns what to
	// render. User-facing outcomes such as corrective prompts are returned as
	// payloads; an error means the turn failed and the session was reset.
	HandleTurn(ctx context.Context, req TurnRequest) (RenderPayload, error)
}

// Config holds the game tunables.
type Config struct {
	MinChosenWords  int
	DueWordsLimit   int
	DistractorCount int
	VerificationTTL time.Duration
	AITimeout       time.Duration
	TTSTimeout      time.Duration
	CacheTimeout    time.Duration
	// EnrichmentSubmitTimeout bounds handing background work to the queue.
	EnrichmentSubmitTimeout time.Duration
}

// DefaultConfig returns the production tunables.
func DefaultConfig() Config {
	return Config{
		MinChosenWords:          5,
		DueWordsLimit:           10,
		DistractorCount:         4,
		VerificationTTL:         30 * 24 * time.Hour,
		AITimeout:               20 * time.Second,
		TTSTimeout:              10 * time.Second,
		CacheTimeout:            2 * time.Second,
		EnrichmentSubmitTimeout: 2 * time.Second,
	}
}

// Common error types for the learning game.
var (
	// ErrInvalidTurn indicates a request the transport should never send,
	// such as an unknown event kind or a start without a group.
	ErrInvalidTurn = errors.New("invalid turn")

	// ErrMissingWord indicates that the word behind a question disappeared.
	ErrMissingWord = errors.New("word of the question is missing")
)

// ServiceError wraps turn-fatal failures with the operation that failed.
type ServiceError struct {
	// Operation is the step that failed (e.g., "next_question", "apply_rating")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
