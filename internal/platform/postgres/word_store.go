package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/store"
)

const (
	wordColumns    = `id, group_id, value, translation, value_audio, translation_audio, created_at, updated_at`
	exampleColumns = `id, word_id, value, translation, value_audio, translation_audio`
)

// PostgresWordStore implements store.WordStore.
// It holds a *sql.DB rather than a DBTX because appending examples runs in
// its own transaction.
type PostgresWordStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.WordStore = (*PostgresWordStore)(nil)

// NewPostgresWordStore creates a new PostgreSQL implementation of store.WordStore.
func NewPostgresWordStore(db *sql.DB, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// GetByID implements store.WordStore.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM words WHERE id = $1`, id)
	word, err := scanWord(row)
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("word not found", slog.String("word_id", id.String()))
		}
		return nil, MapNotFound(err, store.ErrWordNotFound)
	}

	examples, err := s.loadExamples(ctx, []string{id.String()})
	if err != nil {
		return nil, err
	}
	word.Examples = examples[word.ID]
	return word, nil
}

// GetByIDs implements store.WordStore.
func (s *PostgresWordStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wordColumns+` FROM words WHERE id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[uuid.UUID]*domain.Word, len(ids))
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, MapError(err)
		}
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	examples, err := s.loadExamples(ctx, keys)
	if err != nil {
		return nil, err
	}

	// Preserve the caller's order.
	words := make([]*domain.Word, 0, len(byID))
	for _, id := range ids {
		w, ok := byID[id]
		if !ok {
			continue
		}
		w.Examples = examples[id]
		words = append(words, w)
		delete(byID, id)
	}
	return words, nil
}

// SaveExamples implements store.WordStore.
func (s *PostgresWordStore) SaveExamples(
	ctx context.Context,
	wordID uuid.UUID,
	examples []domain.Example,
) error {
	if len(examples) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		// Locks the word row so concurrent enrichments append in sequence.
		var next int
		err := tx.QueryRowContext(ctx, `
			UPDATE words SET updated_at = $2 WHERE id = $1
			RETURNING (SELECT COALESCE(MAX(position) + 1, 0) FROM word_examples WHERE word_id = $1)`,
			wordID, time.Now().UTC(),
		).Scan(&next)
		if err != nil {
			return MapNotFound(err, store.ErrWordNotFound)
		}

		for i := range examples {
			if examples[i].ID == uuid.Nil {
				examples[i].ID = uuid.New()
			}
			ex := examples[i]
			_, err := tx.ExecContext(ctx, `
				INSERT INTO word_examples (id, word_id, value, translation, value_audio, translation_audio, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				ex.ID, wordID, ex.Value, ex.Translation, ex.ValueAudio, ex.TranslationAudio, next+i,
			)
			if err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save examples",
			slog.String("word_id", wordID.String()),
			slog.Int("count", len(examples)),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("examples saved",
		slog.String("word_id", wordID.String()),
		slog.Int("count", len(examples)))
	return nil
}

// SaveWordAudio implements store.WordStore.
func (s *PostgresWordStore) SaveWordAudio(
	ctx context.Context,
	wordID uuid.UUID,
	valueAudio, translationAudio []byte,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE words
		SET value_audio = COALESCE($2, value_audio),
		    translation_audio = COALESCE($3, translation_audio),
		    updated_at = $4
		WHERE id = $1`,
		wordID, valueAudio, translationAudio, time.Now().UTC(),
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrWordNotFound)
}

// SaveExampleAudio implements store.WordStore.
func (s *PostgresWordStore) SaveExampleAudio(
	ctx context.Context,
	exampleID uuid.UUID,
	valueAudio, translationAudio []byte,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE word_examples
		SET value_audio = COALESCE($2, value_audio),
		    translation_audio = COALESCE($3, translation_audio)
		WHERE id = $1`,
		exampleID, valueAudio, translationAudio,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrExampleNotFound)
}

func (s *PostgresWordStore) loadExamples(
	ctx context.Context,
	wordIDs []string,
) (map[uuid.UUID][]domain.Example, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exampleColumns+`
		FROM word_examples
		WHERE word_id = ANY($1::uuid[])
		ORDER BY word_id, position`,
		wordIDs,
	)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[uuid.UUID][]domain.Example)
	for rows.Next() {
		var (
			ex     domain.Example
			wordID uuid.UUID
		)
		if err := rows.Scan(&ex.ID, &wordID, &ex.Value, &ex.Translation, &ex.ValueAudio, &ex.TranslationAudio); err != nil {
			return nil, MapError(err)
		}
		out[wordID] = append(out[wordID], ex)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var w domain.Word
	err := row.Scan(
		&w.ID,
		&w.GroupID,
		&w.Value,
		&w.Translation,
		&w.ValueAudio,
		&w.TranslationAudio,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan word: %w", err)
	}
	return &w, nil
}
