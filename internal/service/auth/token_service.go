package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService manages the bearer tokens of chat users.
type TokenService interface {
	// IssueToken creates a signed token for a user acting in a chat.
	IssueToken(ctx context.Context, userID uuid.UUID, chatID string) (string, error)

	// ValidateToken checks signature and lifetime and returns the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the validated contents of a token.
type Claims struct {
	UserID    uuid.UUID
	ChatID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
