package api

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
)

// errForeignSession is returned when the body names a chat other than the
// one the token was issued for.
var errForeignSession = errors.New("session does not match token")

// requestError is a semantic request problem caught after tag validation.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

// EventRequest is one inbound chat event.
type EventRequest struct {
	Type    string     `json:"type"     validate:"required,oneof=start text button finish"`
	GroupID *uuid.UUID `json:"group_id,omitempty"`
	Text    string     `json:"text,omitempty"    validate:"max=1000"`
	Payload string     `json:"payload,omitempty" validate:"max=256"`
}

// TurnRequest defines the payload of POST /api/turns.
type TurnRequest struct {
	SessionID string       `json:"session_id" validate:"required,max=128"`
	Event     EventRequest `json:"event"`
}

// Validate checks the fields each event type relies on.
func (r *TurnRequest) Validate() error {
	switch learning_game.EventKind(r.Event.Type) {
	case learning_game.EventStart:
		if r.Event.GroupID == nil || *r.Event.GroupID == uuid.Nil {
			return &requestError{"Invalid group_id: required for start"}
		}
	case learning_game.EventText:
		if r.Event.Text == "" {
			return &requestError{"Invalid text: required for text events"}
		}
	case learning_game.EventButton:
		if r.Event.Payload == "" {
			return &requestError{"Invalid payload: required for button events"}
		}
	}
	return nil
}

func (r *TurnRequest) event() learning_game.Event {
	ev := learning_game.Event{
		Kind:    learning_game.EventKind(r.Event.Type),
		Text:    r.Event.Text,
		Payload: r.Event.Payload,
	}
	if r.Event.GroupID != nil {
		ev.GroupID = *r.Event.GroupID
	}
	return ev
}

// ButtonResponse is one inline button.
type ButtonResponse struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// TurnResponse is what the transport renders. Audio is base64 encoded WAV.
type TurnResponse struct {
	Feedback string             `json:"feedback,omitempty"`
	Text     string             `json:"text"`
	Audio    []byte             `json:"audio,omitempty"`
	Buttons  [][]ButtonResponse `json:"buttons"`
	Finished bool               `json:"finished"`
}

func newTurnResponse(p learning_game.RenderPayload) TurnResponse {
	rows := make([][]ButtonResponse, 0, len(p.Buttons))
	for _, row := range p.Buttons {
		out := make([]ButtonResponse, 0, len(row))
		for _, b := range row {
			out = append(out, ButtonResponse{Label: b.Label, Payload: b.Payload})
		}
		rows = append(rows, out)
	}
	return TurnResponse{
		Feedback: p.Feedback,
		Text:     p.Text,
		Audio:    p.Audio,
		Buttons:  rows,
		Finished: p.Finished,
	}
}

// ListenRequest defines the payload of POST /api/listen.
type ListenRequest struct {
	GroupID uuid.UUID   `json:"group_id" validate:"required"`
	WordIDs []uuid.UUID `json:"word_ids" validate:"required,min=1,dive,required"`
}

// ListenResponse carries a rendered clip. Audio is base64 encoded WAV.
type ListenResponse struct {
	Title   string `json:"title"`
	Caption string `json:"caption"`
	Audio   []byte `json:"audio"`
}
