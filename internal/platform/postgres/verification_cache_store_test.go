package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresVerificationCacheStore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	expires := now.Add(720 * time.Hour)

	t.Run("hit", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresVerificationCacheStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("WHERE key = $1 AND expires_at > $2")).
			WithArgs("k1", now).
			WillReturnRows(sqlmock.NewRows([]string{"key", "verdict", "explanation", "expires_at"}).
				AddRow("k1", true, "", expires))

		e, err := s.Get(context.Background(), "k1", now)
		require.NoError(t, err)
		assert.True(t, e.Verdict)
		assert.Equal(t, expires, e.ExpiresAt)
	})

	t.Run("miss or expired", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresVerificationCacheStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM verification_cache")).
			WillReturnRows(sqlmock.NewRows([]string{"key", "verdict", "explanation", "expires_at"}))

		_, err := s.Get(context.Background(), "k2", now)
		assert.ErrorIs(t, err, store.ErrVerificationNotFound)
	})

	t.Run("put upserts", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresVerificationCacheStore(db, discardLogger())

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (key) DO UPDATE")).
			WithArgs("k3", false, "Неверный перевод", expires).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Put(context.Background(), &domain.VerificationEntry{
			Key:         "k3",
			Verdict:     false,
			Explanation: "Неверный перевод",
			ExpiresAt:   expires,
		})
		assert.NoError(t, err)
	})

	t.Run("put requires key", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		s := NewPostgresVerificationCacheStore(db, discardLogger())
		assert.ErrorIs(t, s.Put(context.Background(), &domain.VerificationEntry{}), store.ErrInvalidEntity)
	})

	t.Run("delete expired reports count", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresVerificationCacheStore(db, discardLogger())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM verification_cache WHERE expires_at <= $1")).
			WithArgs(now).
			WillReturnResult(sqlmock.NewResult(0, 4))

		n, err := s.DeleteExpired(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})
}
