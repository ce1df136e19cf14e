package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingua-bot/internal/api/shared"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/speech"
	"github.com/phrazzld/lingua-bot/internal/service/auth"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
	"github.com/phrazzld/lingua-bot/internal/service/listen"
	"github.com/phrazzld/lingua-bot/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidClaims):
		return http.StatusUnauthorized

	case errors.Is(err, errForeignSession):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, listen.ErrWordNotInGroup):
		return http.StatusNotFound

	case errors.Is(err, listen.ErrTooManyWords):
		return http.StatusUnprocessableEntity

	case errors.Is(err, learning_game.ErrInvalidTurn),
		errors.Is(err, listen.ErrNoWords),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, speech.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var capErr *listen.TooManyWordsError
	if errors.As(err, &capErr) {
		return capErr.UserMessage()
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidClaims):
		return "Invalid token"
	case errors.Is(err, errForeignSession):
		return "Session does not belong to this token"
	case errors.Is(err, listen.ErrWordNotInGroup):
		return "Word is not in the group"
	case errors.Is(err, store.ErrNotFound):
		return "Word not found"
	case errors.Is(err, listen.ErrNoWords):
		return "Select at least one word"
	case errors.Is(err, learning_game.ErrInvalidTurn):
		return "Invalid turn"
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request"
	case errors.Is(err, speech.ErrUnavailable):
		return "Audio is temporarily unavailable"
	}

	var svcErr *learning_game.ServiceError
	if errors.As(err, &svcErr) {
		return "Failed to process the turn"
	}
	return "An unexpected error occurred"
}

// SanitizeValidationError turns validator output into a short message that
// names the field without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag()))
	}
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.msg
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and message for err. fallback replaces
// the generic message for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
