package store

import (
	"context"
	"time"

	"github.com/phrazzld/lingua-bot/internal/domain"
)

// VerificationCacheStore keeps AI translation verdicts for a bounded time.
type VerificationCacheStore interface {
	// Get returns the entry for key if it has not expired at now.
	// Returns ErrVerificationNotFound on a miss or for an expired entry.
	Get(ctx context.Context, key string, now time.Time) (*domain.VerificationEntry, error)

	// Put writes the entry, replacing any existing one with the same key.
	Put(ctx context.Context, entry *domain.VerificationEntry) error

	// DeleteExpired removes entries that expired before the given instant and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
