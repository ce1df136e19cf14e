//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("LINGUA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LINGUA_TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, Migrate(ctx, db, "up", discardLogger()))
	return db
}

func seedWord(t *testing.T, db *sql.DB) (*domain.Word, *domain.UserWord) {
	t.Helper()
	ctx := context.Background()
	w := &domain.Word{ID: uuid.New(), GroupID: uuid.New(), Value: "cat", Translation: "кот"}
	_, err := db.ExecContext(ctx,
		`INSERT INTO words (id, group_id, value, translation) VALUES ($1, $2, $3, $4)`,
		w.ID, w.GroupID, w.Value, w.Translation)
	require.NoError(t, err)

	uw, err := domain.NewUserWord(uuid.New(), w.ID, w.GroupID)
	require.NoError(t, err)
	uw.IsChosen = true
	require.NoError(t, NewPostgresUserWordStore(db, discardLogger()).Save(ctx, uw))
	return w, uw
}

func TestIntegration_ApplyRatingDeltaConcurrent(t *testing.T) {
	db := openIntegrationDB(t)
	_, uw := seedWord(t, db)
	s := NewPostgresUserWordStore(db, discardLogger())

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyRatingDelta(context.Background(), uw.UserID, uw.WordID, 1, domain.MaxRating)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Find(context.Background(), uw.UserID, uw.WordID)
	require.NoError(t, err)
	assert.Equal(t, float64(n), got.Rating)

	rating, err := s.ApplyRatingDelta(context.Background(), uw.UserID, uw.WordID, 1000, domain.MaxRating)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRating, rating)

	rating, err = s.ApplyRatingDelta(context.Background(), uw.UserID, uw.WordID, -1000, domain.MaxRating)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)
}

func TestIntegration_WordEnrichmentRoundTrip(t *testing.T) {
	db := openIntegrationDB(t)
	w, _ := seedWord(t, db)
	s := NewPostgresWordStore(db, discardLogger())
	ctx := context.Background()

	ex, err := domain.NewExample("The cat sleeps.", "Кот спит.")
	require.NoError(t, err)
	require.NoError(t, s.SaveExamples(ctx, w.ID, []domain.Example{ex}))
	require.NoError(t, s.SaveWordAudio(ctx, w.ID, []byte("value-wav"), nil))
	require.NoError(t, s.SaveExampleAudio(ctx, ex.ID, []byte("ex-wav"), []byte("tr-wav")))

	got, err := s.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("value-wav"), got.ValueAudio)
	assert.Nil(t, got.TranslationAudio)
	require.Len(t, got.Examples, 1)
	assert.True(t, got.Examples[0].HasAudio())
}

func TestIntegration_VerificationCacheExpiry(t *testing.T) {
	db := openIntegrationDB(t)
	s := NewPostgresVerificationCacheStore(db, discardLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	key := uuid.NewString()

	require.NoError(t, s.Put(ctx, &domain.VerificationEntry{Key: key, Verdict: true, ExpiresAt: now.Add(time.Hour)}))
	_, err := s.Get(ctx, key, now)
	require.NoError(t, err)

	_, err = s.Get(ctx, key, now.Add(2*time.Hour))
	assert.Error(t, err)

	n, err := s.DeleteExpired(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
