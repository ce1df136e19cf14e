package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestService(t *testing.T, secret string, now func() time.Time) *hmacTokenService {
	t.Helper()
	svc, err := NewTokenService(config.AuthConfig{JWTSecret: secret, TokenLifetimeMinutes: 60}, nil)
	require.NoError(t, err)
	impl := svc.(*hmacTokenService)
	impl.timeFunc = now
	return impl
}

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, testSecret, func() time.Time { return fixed })
	userID := uuid.New()

	token, err := svc.IssueToken(context.Background(), userID, "chat-42")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "chat-42", claims.ChatID)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestIssueTokenRequiresIdentity(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testSecret, time.Now)

	_, err := svc.IssueToken(context.Background(), uuid.Nil, "chat")
	assert.ErrorIs(t, err, ErrInvalidClaims)
	_, err = svc.IssueToken(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuerSvc := newTestService(t, testSecret, func() time.Time { return fixed })
	token, err := issuerSvc.IssueToken(context.Background(), uuid.New(), "chat")
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		now     time.Time
		token   string
		wantErr error
	}{
		{"missing", testSecret, fixed, "", ErrMissingToken},
		{"malformed", testSecret, fixed, "not.a.jwt", ErrInvalidToken},
		{"wrong secret", "wrong-secret-that-is-long-enough-for-testing", fixed, token, ErrInvalidToken},
		{"expired", testSecret, fixed.Add(2 * time.Hour), token, ErrExpiredToken},
		{"not yet valid", testSecret, fixed.Add(-time.Hour), token, ErrTokenNotYetValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, tt.secret, func() time.Time { return tt.now })
			_, err := svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateTokenRejectsForeignIssuer(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testSecret, time.Now)

	claims := jwt.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()
	_, err := NewTokenService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60}, nil)
	assert.Error(t, err)
}
