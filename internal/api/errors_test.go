package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/lingua-bot/internal/api/shared"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/speech"
	"github.com/phrazzld/lingua-bot/internal/service/auth"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
	"github.com/phrazzld/lingua-bot/internal/service/listen"
	"github.com/phrazzld/lingua-bot/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{auth.ErrInvalidClaims, http.StatusUnauthorized},
		{errForeignSession, http.StatusForbidden},
		{fmt.Errorf("load: %w", store.ErrWordNotFound), http.StatusNotFound},
		{listen.ErrWordNotInGroup, http.StatusNotFound},
		{&listen.TooManyWordsError{Max: 1, Selected: 2}, http.StatusUnprocessableEntity},
		{listen.ErrNoWords, http.StatusBadRequest},
		{learning_game.ErrInvalidTurn, http.StatusBadRequest},
		{domain.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("tts: %w", speech.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksCause(t *testing.T) {
	t.Parallel()
	secret := errors.New(`pq: password authentication failed for user "admin"`)

	for _, err := range []error{
		secret,
		fmt.Errorf("wrapped: %w", secret),
		&learning_game.ServiceError{Operation: "apply_rating", Message: "db", Err: secret},
	} {
		msg := GetSafeErrorMessage(err)
		assert.NotContains(t, msg, "password")
		assert.NotContains(t, msg, "admin")
	}
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&TurnRequest{SessionID: "chat", Event: EventRequest{Type: "poke"}})
	assert.Equal(t, "Invalid type: invalid value", SanitizeValidationError(err))

	err = shared.ValidateRequest(&TurnRequest{SessionID: "chat", Event: EventRequest{Type: "start"}})
	assert.Equal(t, "Invalid group_id: required for start", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
