package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys set by this package.
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey holds the authenticated user ID
	UserIDContextKey ContextKey = "userID"

	// ChatIDContextKey holds the chat the token was issued for
	ChatIDContextKey ContextKey = "chatID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" if none is set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithIdentity stores the authenticated user and chat in the context.
func WithIdentity(ctx context.Context, userID uuid.UUID, chatID string) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, userID)
	return context.WithValue(ctx, ChatIDContextKey, chatID)
}

// Identity returns the authenticated user and chat. ok is false when the
// request did not pass the auth middleware.
func Identity(ctx context.Context) (userID uuid.UUID, chatID string, ok bool) {
	userID, _ = ctx.Value(UserIDContextKey).(uuid.UUID)
	chatID, _ = ctx.Value(ChatIDContextKey).(string)
	return userID, chatID, userID != uuid.Nil && chatID != ""
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}
