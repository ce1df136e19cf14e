package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTurn_Start(t *testing.T) {
	t.Parallel()
	groupID := uuid.New()
	var got learning_game.TurnRequest
	game := gameFunc(func(_ context.Context, req learning_game.TurnRequest) (learning_game.RenderPayload, error) {
		got = req
		return learning_game.RenderPayload{
			Text:    "👇 ВЫБЕРИ верный перевод\n\ncat",
			Audio:   []byte{1, 2},
			Buttons: [][]learning_game.Button{{{Label: "кот", Payload: "a:x:y"}}},
		}, nil
	})
	env := newTestEnv(t, game, nil)

	rec := env.do(t, http.MethodPost, "/api/turns", map[string]any{
		"session_id": env.chatID,
		"event":      map[string]any{"type": "start", "group_id": groupID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, env.chatID, got.SessionID)
	assert.Equal(t, env.userID, got.UserID)
	assert.Equal(t, learning_game.EventStart, got.Event.Kind)
	assert.Equal(t, groupID, got.Event.GroupID)

	resp := decodeBody[TurnResponse](t, rec)
	assert.Equal(t, "👇 ВЫБЕРИ верный перевод\n\ncat", resp.Text)
	assert.Equal(t, []byte{1, 2}, resp.Audio)
	assert.Equal(t, [][]ButtonResponse{{{Label: "кот", Payload: "a:x:y"}}}, resp.Buttons)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestHandleTurn_RequestValidation(t *testing.T) {
	t.Parallel()
	game := gameFunc(func(context.Context, learning_game.TurnRequest) (learning_game.RenderPayload, error) {
		t.Error("game must not be called for invalid requests")
		return learning_game.RenderPayload{}, nil
	})
	env := newTestEnv(t, game, nil)

	tests := []struct {
		name string
		body any
		code int
	}{
		{"malformed", `{"session_id":`, http.StatusBadRequest},
		{"unknown field", `{"session_id":"chat-1","event":{"type":"finish"},"x":1}`, http.StatusBadRequest},
		{"unknown event", map[string]any{"session_id": "chat-1", "event": map[string]any{"type": "poke"}}, http.StatusBadRequest},
		{"start without group", map[string]any{"session_id": "chat-1", "event": map[string]any{"type": "start"}}, http.StatusBadRequest},
		{"empty text", map[string]any{"session_id": "chat-1", "event": map[string]any{"type": "text"}}, http.StatusBadRequest},
		{"button without payload", map[string]any{"session_id": "chat-1", "event": map[string]any{"type": "button"}}, http.StatusBadRequest},
		{"foreign session", map[string]any{"session_id": "chat-2", "event": map[string]any{"type": "finish"}}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodPost, "/api/turns", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec).Error)
		})
	}
}

func TestHandleTurn_ServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "invalid turn",
			err:     learning_game.ErrInvalidTurn,
			code:    http.StatusBadRequest,
			message: "Invalid turn",
		},
		{
			name:    "turn failure hides cause",
			err:     &learning_game.ServiceError{Operation: "next_question", Message: "x", Err: errors.New("pq: secret detail")},
			code:    http.StatusInternalServerError,
			message: "Failed to process the turn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			game := gameFunc(func(context.Context, learning_game.TurnRequest) (learning_game.RenderPayload, error) {
				return learning_game.RenderPayload{}, tt.err
			})
			env := newTestEnv(t, game, nil)
			rec := env.do(t, http.MethodPost, "/api/turns", map[string]any{
				"session_id": env.chatID,
				"event":      map[string]any{"type": "text", "text": "кот"},
			})
			assert.Equal(t, tt.code, rec.Code)
			body := errorBody(t, rec)
			assert.Equal(t, tt.message, body.Error)
			assert.NotContains(t, rec.Body.String(), "secret")
			assert.NotEmpty(t, body.TraceID)
		})
	}
}

func TestHandleTurn_RequiresAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, gameFunc(nil), nil)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer wrong"} {
		req := newRequest(t, http.MethodPost, "/api/turns", `{}`)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := serve(env.router, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}
