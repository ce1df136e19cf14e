package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/store"
)

// PostgresVerificationCacheStore implements store.VerificationCacheStore.
type PostgresVerificationCacheStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.VerificationCacheStore = (*PostgresVerificationCacheStore)(nil)

// NewPostgresVerificationCacheStore creates a new PostgreSQL verification cache.
func NewPostgresVerificationCacheStore(db store.DBTX, logger *slog.Logger) *PostgresVerificationCacheStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresVerificationCacheStore{
		db:     db,
		logger: logger.With(slog.String("component", "verification_cache_store")),
	}
}

// Get implements store.VerificationCacheStore.
func (s *PostgresVerificationCacheStore) Get(
	ctx context.Context,
	key string,
	now time.Time,
) (*domain.VerificationEntry, error) {
	var e domain.VerificationEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT key, verdict, explanation, expires_at
		FROM verification_cache
		WHERE key = $1 AND expires_at > $2`,
		key, now.UTC(),
	).Scan(&e.Key, &e.Verdict, &e.Explanation, &e.ExpiresAt)
	if err != nil {
		return nil, MapNotFound(err, store.ErrVerificationNotFound)
	}
	return &e, nil
}

// Put implements store.VerificationCacheStore.
func (s *PostgresVerificationCacheStore) Put(ctx context.Context, entry *domain.VerificationEntry) error {
	if entry == nil || entry.Key == "" {
		return fmt.Errorf("%w: verification entry requires a key", store.ErrInvalidEntity)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verification_cache (key, verdict, explanation, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET verdict = EXCLUDED.verdict,
		    explanation = EXCLUDED.explanation,
		    expires_at = EXCLUDED.expires_at`,
		entry.Key, entry.Verdict, entry.Explanation, entry.ExpiresAt.UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to cache verification",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// DeleteExpired implements store.VerificationCacheStore.
func (s *PostgresVerificationCacheStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM verification_cache WHERE expires_at <= $1`, before.UTC())
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
