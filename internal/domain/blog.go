package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Blog validation errors
var (
	ErrBlogIDEmpty       = errors.New("blog ID cannot be empty")
	ErrBlogAuthorIDEmpty = errors.New("blog author ID cannot be empty")
)

// Blog is a post. Drafts (Published == false) are visible only to their author.
type Blog struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   Content   `json:"content"`
	AuthorID  uuid.UUID `json:"authorId"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBlog creates a Blog with a fresh ID. Timestamps are truncated to the
// microsecond precision PostgreSQL stores, so cursors survive a round trip.
func NewBlog(authorID uuid.UUID, title string, content Content, published bool) (*Blog, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if content == nil {
		content = Content{}
	}
	blog := &Blog{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := blog.Validate(); err != nil {
		return nil, err
	}

	return blog, nil
}

// Validate checks if the Blog has valid data.
func (b *Blog) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBlogIDEmpty
	}
	if b.AuthorID == uuid.Nil {
		return ErrBlogAuthorIDEmpty
	}
	return nil
}

// VisibleTo reports whether viewer may see the blog. uuid.Nil is the anonymous viewer.
func (b *Blog) VisibleTo(viewer uuid.UUID) bool {
	return b.Published || (viewer != uuid.Nil && b.AuthorID == viewer)
}

// BlogPatch holds the fields of an update. Nil fields keep their current value.
type BlogPatch struct {
	Title     *string
	Content   Content
	Published *bool
}

// Apply writes the patch onto b and bumps UpdatedAt.
func (b *Blog) Apply(p BlogPatch, now time.Time) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Content != nil {
		b.Content = p.Content
	}
	if p.Published != nil {
		b.Published = *p.Published
	}
	b.UpdatedAt = now.UTC().Truncate(time.Microsecond)
}

// Author is the public part of a User shown next to a post.
type Author struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BlogView is a Blog as seen by a particular viewer.
type BlogView struct {
	Blog
	Author      Author
	LikeCount   int
	ViewerLiked bool
}
