package generation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phrazzld/lingua-bot/internal/platform/llm"
)

// Common errors returned by the generation package
var (
	// ErrInvalidResponse is returned when the model output cannot be parsed or
	// does not satisfy the expected shape.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error calling language model")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyInput is returned when a required prompt field is blank.
	ErrEmptyInput = errors.New("empty input")
)

// mapProviderError classifies a provider failure while keeping the original
// error in the chain so callers can still reach the raw content.
func mapProviderError(err error) error {
	var (
		inv    *llm.ErrInvalidResponse
		maxTok *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &inv), errors.As(err, &maxTok):
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransientFailure, err)
	}
}

// RawResponse returns the model output attached to err, if any, for
// diagnostics.
func RawResponse(err error) json.RawMessage {
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return inv.Content
	}
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return maxTok.Content
	}
	return nil
}
