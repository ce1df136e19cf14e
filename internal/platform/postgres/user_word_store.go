package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/store"
)

const userWordColumns = `user_id, word_id, group_id, rating, is_chosen, is_active, updated_at`

// PostgresUserWordStore implements store.UserWordStore.
type PostgresUserWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.UserWordStore = (*PostgresUserWordStore)(nil)

// NewPostgresUserWordStore creates a new PostgreSQL implementation of store.UserWordStore.
func NewPostgresUserWordStore(db store.DBTX, logger *slog.Logger) *PostgresUserWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_word_store")),
	}
}

// Find implements store.UserWordStore.
func (s *PostgresUserWordStore) Find(ctx context.Context, userID, wordID uuid.UUID) (*domain.UserWord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userWordColumns+` FROM user_words WHERE user_id = $1 AND word_id = $2`,
		userID, wordID)
	uw, err := scanUserWord(row)
	if err != nil {
		return nil, MapNotFound(err, store.ErrUserWordNotFound)
	}
	return uw, nil
}

// Save implements store.UserWordStore.
func (s *PostgresUserWordStore) Save(ctx context.Context, progress *domain.UserWord) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if progress.UpdatedAt.IsZero() {
		progress.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_words (`+userWordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, word_id) DO UPDATE
		SET group_id = EXCLUDED.group_id,
		    rating = EXCLUDED.rating,
		    is_chosen = EXCLUDED.is_chosen,
		    is_active = EXCLUDED.is_active,
		    updated_at = EXCLUDED.updated_at`,
		progress.UserID,
		progress.WordID,
		progress.GroupID,
		progress.Rating,
		progress.IsChosen,
		progress.IsActive,
		progress.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save user word",
			slog.String("user_id", progress.UserID.String()),
			slog.String("word_id", progress.WordID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// CountChosen implements store.UserWordStore.
func (s *PostgresUserWordStore) CountChosen(ctx context.Context, userID, groupID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_words
		WHERE user_id = $1 AND group_id = $2 AND is_chosen AND is_active`,
		userID, groupID,
	).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// FindDue implements store.UserWordStore.
func (s *PostgresUserWordStore) FindDue(
	ctx context.Context,
	userID, groupID uuid.UUID,
	limit int,
) ([]*domain.UserWord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userWordColumns+`
		FROM user_words
		WHERE user_id = $1 AND group_id = $2 AND is_chosen AND is_active
		ORDER BY rating ASC, word_id
		LIMIT $3`,
		userID, groupID, limit,
	)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.UserWord
	for rows.Next() {
		uw, err := scanUserWord(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, uw)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// ApplyRatingDelta implements store.UserWordStore. The clamp happens inside
// a single UPDATE so concurrent answers serialize on the row lock.
func (s *PostgresUserWordStore) ApplyRatingDelta(
	ctx context.Context,
	userID, wordID uuid.UUID,
	delta, ceiling float64,
) (float64, error) {
	var rating float64
	err := s.db.QueryRowContext(ctx, `
		UPDATE user_words
		SET rating = LEAST($3::double precision, GREATEST(0, rating + $4::double precision)),
		    updated_at = $5
		WHERE user_id = $1 AND word_id = $2
		RETURNING rating`,
		userID, wordID, ceiling, delta, time.Now().UTC(),
	).Scan(&rating)
	if err != nil {
		return 0, MapNotFound(err, store.ErrUserWordNotFound)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("rating updated",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.Float64("delta", delta),
		slog.Float64("rating", rating))
	return rating, nil
}

func scanUserWord(row rowScanner) (*domain.UserWord, error) {
	var uw domain.UserWord
	err := row.Scan(
		&uw.UserID,
		&uw.WordID,
		&uw.GroupID,
		&uw.Rating,
		&uw.IsChosen,
		&uw.IsActive,
		&uw.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan user word: %w", err)
	}
	return &uw, nil
}
