package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/lingua-bot/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		err    error
		wantIs error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk"}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "user_words_rating_check"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode, ColumnName: "value"}, store.ErrInvalidEntity},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapError(tc.err), tc.wantIs)
		})
	}

	assert.NoError(t, MapError(nil))
	other := errors.New("other")
	assert.Same(t, other, MapError(other))
}

func TestMapNotFound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, store.ErrWordNotFound, MapNotFound(sql.ErrNoRows, store.ErrWordNotFound))
	assert.ErrorIs(t, MapNotFound(&pgconn.PgError{Code: uniqueViolationCode}, store.ErrWordNotFound), store.ErrDuplicate)
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsForeignKeyViolation(errors.New("x")))
}

func TestIsMigrationCommand(t *testing.T) {
	t.Parallel()
	assert.True(t, isMigrationCommand("up"))
	assert.True(t, isMigrationCommand("status"))
	assert.False(t, isMigrationCommand("create"))
}
