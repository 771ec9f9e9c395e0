package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/logger"
	"github.com/phrazzld/medium-api/internal/redact"
	"github.com/phrazzld/medium-api/internal/store"
)

// PostgresBlogStore implements the store.BlogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBlogStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBlogStore creates a new PostgreSQL implementation of the BlogStore interface.
// It takes a *sql.DB rather than a DBTX because Delete opens its own transaction.
func NewPostgresBlogStore(db *sql.DB, logger *slog.Logger) *PostgresBlogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBlogStore{
		db:     db,
		logger: logger.With(slog.String("component", "blog_store")),
	}
}

// Ensure PostgresBlogStore implements store.BlogStore interface
var _ store.BlogStore = (*PostgresBlogStore)(nil)

// blogViewSelect selects a blog as seen by the viewer bound to $1.
const blogViewSelect = `
	SELECT b.id, b.title, b.content, b.author_id, b.published, b.created_at, b.updated_at,
		COALESCE(u.name, ''),
		(SELECT COUNT(*) FROM likes l WHERE l.blog_id = b.id),
		EXISTS (SELECT 1 FROM likes l WHERE l.blog_id = b.id AND l.user_id = $1)
	FROM blogs b
	JOIN users u ON u.id = b.author_id`

const visibleTo = `(b.published OR b.author_id = $1)`

const feedOrder = ` ORDER BY b.created_at DESC, b.id DESC`

// Create implements store.BlogStore.Create
func (s *PostgresBlogStore) Create(ctx context.Context, blog *domain.Blog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := blog.Validate(); err != nil {
		return store.NewStoreError("blog", "create", "invalid blog", fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blogs (id, title, content, author_id, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, blog.ID, blog.Title, blog.Content.String(), blog.AuthorID, blog.Published, blog.CreatedAt, blog.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("blog author does not exist", slog.String("author_id", blog.AuthorID.String()))
			return store.NewStoreError("blog", "create", "author does not exist", MapError(err))
		}
		log.Error("failed to insert blog",
			slog.String("blog_id", blog.ID.String()),
			slog.String("author_id", blog.AuthorID.String()),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("blog", "create", "failed to insert blog", MapError(err))
	}

	log.Debug("blog created",
		slog.String("blog_id", blog.ID.String()),
		slog.Bool("published", blog.Published))
	return nil
}

// Update implements store.BlogStore.Update
func (s *PostgresBlogStore) Update(
	ctx context.Context,
	id, authorID uuid.UUID,
	patch domain.BlogPatch,
) (*domain.Blog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var content sql.NullString
	if patch.Content != nil {
		content = sql.NullString{String: patch.Content.String(), Valid: true}
	}
	var title sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	var published sql.NullBool
	if patch.Published != nil {
		published = sql.NullBool{Bool: *patch.Published, Valid: true}
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE blogs
		SET title = COALESCE($3, title),
			content = COALESCE($4::jsonb, content),
			published = COALESCE($5, published),
			updated_at = date_trunc('microseconds', NOW())
		WHERE id = $1 AND author_id = $2
		RETURNING id, title, content, author_id, published, created_at, updated_at
	`, id, authorID, title, content, published)

	blog, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBlogNotFound
		}
		log.Error("failed to update blog",
			slog.String("blog_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("blog", "update", "failed to update blog", MapError(err))
	}

	log.Debug("blog updated", slog.String("blog_id", id.String()))
	return blog, nil
}

// Delete implements store.BlogStore.Delete
func (s *PostgresBlogStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM blogs WHERE id = $1 AND author_id = $2 FOR UPDATE`,
			id, authorID,
		).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrBlogNotFound
			}
			return MapError(err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE blog_id = $1`, id); err != nil {
			return MapError(err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
		if err != nil {
			return MapError(err)
		}
		return CheckRowsAffected(result, store.ErrBlogNotFound)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrBlogNotFound
		}
		log.Error("failed to delete blog",
			slog.String("blog_id", id.String()),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("blog", "delete", "failed to delete blog", err)
	}

	log.Debug("blog deleted", slog.String("blog_id", id.String()))
	return nil
}

// Get implements store.BlogStore.Get
func (s *PostgresBlogStore) Get(ctx context.Context, id, viewer uuid.UUID) (*domain.BlogView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		blogViewSelect+` WHERE b.id = $2 AND `+visibleTo,
		viewer, id)

	view, err := scanBlogView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBlogNotFound
		}
		log.Error("failed to get blog",
			slog.String("blog_id", id.String()),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("blog", "get", "failed to get blog", MapError(err))
	}
	return view, nil
}

// List implements store.BlogStore.List
func (s *PostgresBlogStore) List(ctx context.Context, viewer uuid.UUID, page store.Page) (*store.BlogPage, error) {
	if page.Limit <= 0 {
		return store.EmptyPage(page), nil
	}

	query := blogViewSelect + ` WHERE ` + visibleTo
	args := []any{viewer}
	if page.After != nil {
		query += ` AND (b.created_at, b.id) < ($2, $3)`
		args = append(args, page.After.CreatedAt, page.After.ID)
	}
	query += feedOrder + fmt.Sprintf(` LIMIT $%d`, len(args)+1)
	args = append(args, page.Limit+1)

	views, err := s.queryViews(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}

	result := &store.BlogPage{Blogs: views}
	if len(views) > page.Limit {
		result.Blogs = views[:page.Limit]
		result.NextCursor = store.CursorFor(&result.Blogs[page.Limit-1].Blog).Encode()
	}
	return result, nil
}

// ListDrafts implements store.BlogStore.ListDrafts
func (s *PostgresBlogStore) ListDrafts(ctx context.Context, authorID uuid.UUID) ([]*domain.BlogView, error) {
	return s.ListByAuthor(ctx, authorID, false)
}

// SearchByTitle implements store.BlogStore.SearchByTitle
func (s *PostgresBlogStore) SearchByTitle(
	ctx context.Context,
	query string,
	viewer uuid.UUID,
	limit int,
) ([]*domain.BlogView, error) {
	if limit <= 0 {
		return []*domain.BlogView{}, nil
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.queryViews(ctx, "search",
		blogViewSelect+` WHERE `+visibleTo+` AND b.title ILIKE $2 ESCAPE '\'`+feedOrder+` LIMIT $3`,
		viewer, pattern, limit)
}

// ListByAuthor implements store.BlogStore.ListByAuthor
func (s *PostgresBlogStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	published bool,
) ([]*domain.BlogView, error) {
	return s.queryViews(ctx, "list_by_author",
		blogViewSelect+` WHERE b.author_id = $2 AND b.published = $3`+feedOrder,
		uuid.Nil, authorID, published)
}

// CountLikesForAuthor implements store.BlogStore.CountLikesForAuthor
func (s *PostgresBlogStore) CountLikesForAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM likes l
		JOIN blogs b ON b.id = l.blog_id
		WHERE b.author_id = $1
	`, authorID).Scan(&count)
	if err != nil {
		log.Error("failed to count likes for author",
			slog.String("author_id", authorID.String()),
			slog.String("error", redact.Error(err)))
		return 0, store.NewStoreError("like", "count", "failed to count likes", MapError(err))
	}
	return count, nil
}

func (s *PostgresBlogStore) queryViews(ctx context.Context, op, query string, args ...any) ([]*domain.BlogView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query blogs",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("blog", op, "failed to query blogs", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	views := []*domain.BlogView{}
	for rows.Next() {
		view, err := scanBlogView(rows)
		if err != nil {
			log.Error("failed to scan blog row",
				slog.String("operation", op),
				slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError("blog", op, "failed to scan blog", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating blog rows",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("blog", op, "failed to read blogs", MapError(err))
	}
	return views, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(row scanner) (*domain.Blog, error) {
	var (
		blog    domain.Blog
		content []byte
	)
	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&content,
		&blog.AuthorID,
		&blog.Published,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeContent(content, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func scanBlogView(row scanner) (*domain.BlogView, error) {
	var (
		view    domain.BlogView
		content []byte
	)
	err := row.Scan(
		&view.ID,
		&view.Title,
		&content,
		&view.AuthorID,
		&view.Published,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Author.Name,
		&view.LikeCount,
		&view.ViewerLiked,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeContent(content, &view.Blog); err != nil {
		return nil, err
	}
	view.Author.ID = view.AuthorID
	return &view, nil
}

func decodeContent(raw []byte, blog *domain.Blog) error {
	blog.Content = domain.Content{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &blog.Content); err != nil {
			return fmt.Errorf("failed to decode content of blog %s: %w", blog.ID, err)
		}
	}
	blog.CreatedAt = blog.CreatedAt.UTC()
	blog.UpdatedAt = blog.UpdatedAt.UTC()
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
