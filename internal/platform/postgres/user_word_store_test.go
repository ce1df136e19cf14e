package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userWordRowColumns = []string{"user_id", "word_id", "group_id", "rating", "is_chosen", "is_active", "updated_at"}

func TestPostgresUserWordStore_ApplyRatingDelta(t *testing.T) {
	t.Parallel()

	userID, wordID := uuid.New(), uuid.New()

	t.Run("returns clamped rating", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresUserWordStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("LEAST($3::double precision, GREATEST(0, rating + $4::double precision))")).
			WithArgs(userID, wordID, 100.0, 15.0, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(100.0))

		got, err := s.ApplyRatingDelta(context.Background(), userID, wordID, 15, 100)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got)
	})

	t.Run("missing progress", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresUserWordStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_words")).
			WillReturnRows(sqlmock.NewRows([]string{"rating"}))

		_, err := s.ApplyRatingDelta(context.Background(), userID, wordID, -10, 100)
		assert.ErrorIs(t, err, store.ErrUserWordNotFound)
	})
}

func TestPostgresUserWordStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("upserts valid progress", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresUserWordStore(db, discardLogger())

		uw, err := domain.NewUserWord(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		uw.IsChosen = true

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, word_id) DO UPDATE")).
			WithArgs(uw.UserID, uw.WordID, uw.GroupID, 0.0, true, true, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Save(context.Background(), uw))
	})

	t.Run("rejects out of range rating", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		s := NewPostgresUserWordStore(db, discardLogger())

		uw := &domain.UserWord{UserID: uuid.New(), WordID: uuid.New(), GroupID: uuid.New(), Rating: -1}
		assert.ErrorIs(t, s.Save(context.Background(), uw), store.ErrInvalidEntity)
	})
}

func TestPostgresUserWordStore_FindDue(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresUserWordStore(db, discardLogger())
	userID, groupID := uuid.New(), uuid.New()
	low, high := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY rating ASC, word_id")).
		WithArgs(userID, groupID, 10).
		WillReturnRows(sqlmock.NewRows(userWordRowColumns).
			AddRow(userID.String(), low.String(), groupID.String(), 0.0, true, true, now).
			AddRow(userID.String(), high.String(), groupID.String(), 42.5, true, true, now))

	due, err := s.FindDue(context.Background(), userID, groupID, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, low, due[0].WordID)
	assert.Equal(t, 42.5, due[1].Rating)
}

func TestPostgresUserWordStore_CountAndFind(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewPostgresUserWordStore(db, discardLogger())
	userID, groupID, wordID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_words")).
		WithArgs(userID, groupID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_words WHERE user_id = $1 AND word_id = $2")).
		WithArgs(userID, wordID).
		WillReturnRows(sqlmock.NewRows(userWordRowColumns))

	n, err := s.CountChosen(context.Background(), userID, groupID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = s.Find(context.Background(), userID, wordID)
	assert.ErrorIs(t, err, store.ErrUserWordNotFound)
}
