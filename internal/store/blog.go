package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
)

// BlogStore defines the interface for blog persistence. Every viewer argument
// may be uuid.Nil for an anonymous caller; drafts are only returned to their
// author.
type BlogStore interface {
	// Create saves a new blog.
	Create(ctx context.Context, blog *domain.Blog) error

	// Update applies patch to the blog with the given id owned by authorID.
	// Returns ErrBlogNotFound if no such blog is owned by authorID.
	Update(ctx context.Context, id, authorID uuid.UUID, patch domain.BlogPatch) (*domain.Blog, error)

	// Delete removes the blog and all of its likes in one transaction.
	// Returns ErrBlogNotFound if no such blog is owned by authorID.
	Delete(ctx context.Context, id, authorID uuid.UUID) error

	// Get returns the blog with its like count and whether viewer liked it.
	// Returns ErrBlogNotFound if the blog is absent or not visible to viewer.
	Get(ctx context.Context, id, viewer uuid.UUID) (*domain.BlogView, error)

	// List returns the page of visible blogs, newest first.
	List(ctx context.Context, viewer uuid.UUID, page Page) (*BlogPage, error)

	// ListDrafts returns the unpublished blogs of authorID, newest first.
	ListDrafts(ctx context.Context, authorID uuid.UUID) ([]*domain.BlogView, error)

	// SearchByTitle returns up to limit visible blogs whose title contains
	// query, ignoring case.
	SearchByTitle(ctx context.Context, query string, viewer uuid.UUID, limit int) ([]*domain.BlogView, error)

	// ListByAuthor returns the blogs of authorID with the given published state, newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, published bool) ([]*domain.BlogView, error)

	// CountLikesForAuthor returns the number of likes across all blogs of authorID.
	CountLikesForAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}
