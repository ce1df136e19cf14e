package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/api/middleware"
	"github.com/phrazzld/lingua-bot/internal/api/shared"
	"github.com/phrazzld/lingua-bot/internal/service/auth"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
	"github.com/phrazzld/lingua-bot/internal/service/listen"
	"github.com/stretchr/testify/require"
)

const testToken = "valid-token"

type stubTokens struct {
	claims *auth.Claims
}

func (s *stubTokens) IssueToken(context.Context, uuid.UUID, string) (string, error) {
	return testToken, nil
}

func (s *stubTokens) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token != testToken {
		return nil, auth.ErrInvalidToken
	}
	return s.claims, nil
}

type gameFunc func(ctx context.Context, req learning_game.TurnRequest) (learning_game.RenderPayload, error)

func (f gameFunc) HandleTurn(ctx context.Context, req learning_game.TurnRequest) (learning_game.RenderPayload, error) {
	return f(ctx, req)
}

type mockListen struct {
	ListenWordFn  func(ctx context.Context, wordID uuid.UUID) (listen.Clip, error)
	ListenWordsFn func(ctx context.Context, userID, groupID uuid.UUID, wordIDs []uuid.UUID) (listen.Clip, error)
}

func (m *mockListen) ListenWord(ctx context.Context, wordID uuid.UUID) (listen.Clip, error) {
	return m.ListenWordFn(ctx, wordID)
}

func (m *mockListen) ListenWords(
	ctx context.Context,
	userID, groupID uuid.UUID,
	wordIDs []uuid.UUID,
) (listen.Clip, error) {
	return m.ListenWordsFn(ctx, userID, groupID, wordIDs)
}

type testEnv struct {
	router http.Handler
	userID uuid.UUID
	chatID string
}

func newTestEnv(t *testing.T, game learning_game.Service, ls listen.Service) *testEnv {
	t.Helper()
	env := &testEnv{userID: uuid.New(), chatID: "chat-1"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := &stubTokens{claims: &auth.Claims{UserID: env.userID, ChatID: env.chatID}}

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Get("/health", NewHealthHandler(nil).Health)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(tokens).Authenticate)
		if game != nil {
			r.Post("/api/turns", NewTurnHandler(game, log).HandleTurn)
		}
		if ls != nil {
			lh := NewListenHandler(ls, log)
			r.Post("/api/listen", lh.ListenWords)
			r.Get("/api/words/{id}/listen", lh.ListenWord)
		}
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec)
}

func newRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, bytes.NewBufferString(body))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
