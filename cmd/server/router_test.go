package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/config"
	"github.com/phrazzld/lingua-bot/internal/service/auth"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
	"github.com/phrazzld/lingua-bot/internal/service/listen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubGame struct{}

func (stubGame) HandleTurn(context.Context, learning_game.TurnRequest) (learning_game.RenderPayload, error) {
	return learning_game.RenderPayload{Text: learning_game.MsgFinished, Finished: true}, nil
}

type stubListen struct{}

func (stubListen) ListenWord(context.Context, uuid.UUID) (listen.Clip, error) {
	return listen.Clip{Title: "cat"}, nil
}

func (stubListen) ListenWords(context.Context, uuid.UUID, uuid.UUID, []uuid.UUID) (listen.Clip, error) {
	return listen.Clip{}, listen.ErrNoWords
}

func newTestApp(t *testing.T, origins ...string) *application {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, AllowedOrigins: origins},
		Auth:   config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60},
	}
	tokens, err := auth.NewTokenService(cfg.Auth, log)
	require.NoError(t, err)
	return &application{config: cfg, logger: log, tokens: tokens, game: stubGame{}, listen: stubListen{}}
}

func TestRouter(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	router := app.setupRouter()
	token, err := issueToken(t.Context(), app.tokens, uuid.New(), "chat-9")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/turns", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/turns",
		strings.NewReader(`{"session_id":"chat-9","event":{"type":"finish"}}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"finished":true`)

	req = httptest.NewRequest(http.MethodGet, "/api/words/"+uuid.NewString()+"/listen", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterCORS(t *testing.T) {
	t.Parallel()

	preflight := func(router http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/turns", nil)
		req.Header.Set("Origin", "https://bot.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight(newTestApp(t, "https://bot.example.com").setupRouter())
	assert.Equal(t, "https://bot.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight(newTestApp(t).setupRouter())
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMigrateCommandRejectsUnknownVerb(t *testing.T) {
	t.Parallel()
	root := newRootCommand()
	root.SetArgs([]string{"migrate", "sideways"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	assert.Error(t, root.Execute())
}
