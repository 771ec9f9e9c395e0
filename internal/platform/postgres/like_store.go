package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/logger"
	"github.com/phrazzld/medium-api/internal/redact"
	"github.com/phrazzld/medium-api/internal/store"
)

// PostgresLikeStore implements the store.LikeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLikeStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresLikeStore creates a new PostgreSQL implementation of the LikeStore interface.
func NewPostgresLikeStore(db *sql.DB, logger *slog.Logger) *PostgresLikeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLikeStore{
		db:     db,
		logger: logger.With(slog.String("component", "like_store")),
	}
}

// Ensure PostgresLikeStore implements store.LikeStore interface
var _ store.LikeStore = (*PostgresLikeStore)(nil)

// Toggle implements store.LikeStore.Toggle. The blog row is locked for the
// duration of the transaction, so toggles on one blog run one at a time and
// cannot interleave with its deletion.
func (s *PostgresLikeStore) Toggle(ctx context.Context, blogID, userID uuid.UUID) (*domain.LikeState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	like, err := domain.NewLike(blogID, userID)
	if err != nil {
		return nil, store.NewStoreError("like", "toggle", "invalid like", err)
	}

	var state domain.LikeState
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var (
			authorID  uuid.UUID
			published bool
		)
		err := tx.QueryRowContext(ctx,
			`SELECT author_id, published FROM blogs WHERE id = $1 FOR UPDATE`,
			blogID,
		).Scan(&authorID, &published)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrBlogNotFound
			}
			return MapError(err)
		}
		if !published && authorID != userID {
			return store.ErrBlogNotFound
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM likes WHERE blog_id = $1 AND user_id = $2`,
			blogID, userID)
		if err != nil {
			return MapError(err)
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if removed == 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO likes (id, blog_id, user_id, created_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (blog_id, user_id) DO NOTHING
			`, like.ID, like.BlogID, like.UserID, like.CreatedAt)
			if err != nil {
				return MapError(err)
			}
			state.Liked = true
		}

		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM likes WHERE blog_id = $1`, blogID,
		).Scan(&state.LikeCount)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrBlogNotFound
		}
		log.Error("failed to toggle like",
			slog.String("blog_id", blogID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("like", "toggle", "failed to toggle like", err)
	}

	log.Debug("like toggled",
		slog.String("blog_id", blogID.String()),
		slog.Bool("liked", state.Liked),
		slog.Int("like_count", state.LikeCount))
	return &state, nil
}
