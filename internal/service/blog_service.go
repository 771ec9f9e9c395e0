package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/logger"
	"github.com/phrazzld/medium-api/internal/store"
)

// DefaultSearchLimit is the number of search results returned when the
// caller does not ask for a specific count.
const DefaultSearchLimit = 20

// BlogService provides blog authoring and reading operations. A viewer of
// uuid.Nil is anonymous and sees only published posts.
type BlogService interface {
	// CreateBlog creates a post owned by authorID.
	CreateBlog(ctx context.Context, authorID uuid.UUID, title string, content domain.Content, published bool) (*domain.Blog, error)

	// UpdateBlog applies patch to a post owned by authorID.
	// Returns store.ErrBlogNotFound if authorID owns no such post.
	UpdateBlog(ctx context.Context, authorID, blogID uuid.UUID, patch domain.BlogPatch) (*domain.Blog, error)

	// DeleteBlog removes a post owned by authorID together with its likes.
	// Returns store.ErrBlogNotFound if authorID owns no such post.
	DeleteBlog(ctx context.Context, authorID, blogID uuid.UUID) error

	// GetBlog returns a post with its like state for viewer.
	// Returns store.ErrBlogNotFound if the post is absent or hidden from viewer.
	GetBlog(ctx context.Context, blogID, viewer uuid.UUID) (*domain.BlogView, error)

	// ListBlogs returns one page of the feed visible to viewer.
	ListBlogs(ctx context.Context, viewer uuid.UUID, page store.Page) (*store.BlogPage, error)

	// ListDrafts returns the unpublished posts of authorID.
	ListDrafts(ctx context.Context, authorID uuid.UUID) ([]*domain.BlogView, error)

	// SearchBlogs returns visible posts whose title contains query. A blank
	// query matches nothing; a non-positive limit means DefaultSearchLimit.
	SearchBlogs(ctx context.Context, query string, viewer uuid.UUID, limit int) ([]*domain.BlogView, error)
}

type blogServiceImpl struct {
	blogs  store.BlogStore
	logger *slog.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(blogs store.BlogStore, logger *slog.Logger) (BlogService, error) {
	if blogs == nil {
		return nil, missing("blogs")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &blogServiceImpl{
		blogs:  blogs,
		logger: logger.With(slog.String("component", "blog_service")),
	}, nil
}

func (s *blogServiceImpl) CreateBlog(
	ctx context.Context,
	authorID uuid.UUID,
	title string,
	content domain.Content,
	published bool,
) (*domain.Blog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	blog, err := domain.NewBlog(authorID, title, content, published)
	if err != nil {
		return nil, domain.NewValidationError("", err.Error(), err)
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, NewServiceError("blog", "create", "failed to save blog", err)
	}

	log.Info("blog created",
		slog.String("blog_id", blog.ID.String()),
		slog.String("author_id", authorID.String()),
		slog.Bool("published", published))
	return blog, nil
}

func (s *blogServiceImpl) UpdateBlog(
	ctx context.Context,
	authorID, blogID uuid.UUID,
	patch domain.BlogPatch,
) (*domain.Blog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	blog, err := s.blogs.Update(ctx, blogID, authorID, patch)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("update of missing or foreign blog",
				slog.String("blog_id", blogID.String()),
				slog.String("author_id", authorID.String()))
			return nil, err
		}
		return nil, NewServiceError("blog", "update", "failed to update blog", err)
	}

	log.Info("blog updated", slog.String("blog_id", blogID.String()))
	return blog, nil
}

func (s *blogServiceImpl) DeleteBlog(ctx context.Context, authorID, blogID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.blogs.Delete(ctx, blogID, authorID); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("delete of missing or foreign blog",
				slog.String("blog_id", blogID.String()),
				slog.String("author_id", authorID.String()))
			return err
		}
		return NewServiceError("blog", "delete", "failed to delete blog", err)
	}

	log.Info("blog deleted", slog.String("blog_id", blogID.String()))
	return nil
}

func (s *blogServiceImpl) GetBlog(ctx context.Context, blogID, viewer uuid.UUID) (*domain.BlogView, error) {
	view, err := s.blogs.Get(ctx, blogID, viewer)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("blog", "get", "failed to get blog", err)
	}
	return view, nil
}

func (s *blogServiceImpl) ListBlogs(ctx context.Context, viewer uuid.UUID, page store.Page) (*store.BlogPage, error) {
	page.Limit = store.ClampLimit(page.Limit)
	if page.Limit == 0 {
		return store.EmptyPage(page), nil
	}

	result, err := s.blogs.List(ctx, viewer, page)
	if err != nil {
		return nil, NewServiceError("blog", "list", "failed to list blogs", err)
	}
	return result, nil
}

func (s *blogServiceImpl) ListDrafts(ctx context.Context, authorID uuid.UUID) ([]*domain.BlogView, error) {
	drafts, err := s.blogs.ListDrafts(ctx, authorID)
	if err != nil {
		return nil, NewServiceError("blog", "drafts", "failed to list drafts", err)
	}
	return drafts, nil
}

func (s *blogServiceImpl) SearchBlogs(
	ctx context.Context,
	query string,
	viewer uuid.UUID,
	limit int,
) ([]*domain.BlogView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.BlogView{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = store.ClampLimit(limit)

	results, err := s.blogs.SearchByTitle(ctx, query, viewer, limit)
	if err != nil {
		return nil, NewServiceError("blog", "search", "failed to search blogs", err)
	}
	return results, nil
}
