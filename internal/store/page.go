package store

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
)

// Feed page size limits.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Cursor marks a position in the feed order (created_at DESC, id DESC).
// The next page holds records strictly after it.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorFor returns the cursor positioned at blog.
func CursorFor(blog *domain.Blog) Cursor {
	return Cursor{CreatedAt: blog.CreatedAt, ID: blog.ID}
}

// Encode returns the opaque string form handed to clients.
func (c Cursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// After reports whether b sorts after the cursor in feed order.
func (c Cursor) After(b *domain.Blog) bool {
	if b.CreatedAt.Equal(c.CreatedAt) {
		return strings.Compare(b.ID.String(), c.ID.String()) < 0
	}
	return b.CreatedAt.Before(c.CreatedAt)
}

// DecodeCursor parses a cursor produced by Encode.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	blogID, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	return Cursor{CreatedAt: createdAt.UTC(), ID: blogID}, nil
}

// Page selects a slice of the feed. A nil After starts at the newest record.
type Page struct {
	After *Cursor
	Limit int
}

// NewPage builds a Page from the raw query values. An empty cursor starts at the
// top; the limit is clamped to MaxPageLimit.
func NewPage(cursor string, limit int) (Page, error) {
	page := Page{Limit: ClampLimit(limit)}
	if cursor == "" {
		return page, nil
	}
	c, err := DecodeCursor(cursor)
	if err != nil {
		return Page{}, err
	}
	page.After = &c
	return page, nil
}

// ClampLimit bounds a requested page size to [0, MaxPageLimit].
func ClampLimit(limit int) int {
	switch {
	case limit < 0:
		return 0
	case limit > MaxPageLimit:
		return MaxPageLimit
	}
	return limit
}

// BlogPage is one page of the feed. NextCursor is empty when there are no
// further records.
type BlogPage struct {
	Blogs      []*domain.BlogView
	NextCursor string
}

// EmptyPage answers a zero-limit request: no records, and the cursor the
// caller came with.
func EmptyPage(page Page) *BlogPage {
	p := &BlogPage{Blogs: []*domain.BlogView{}}
	if page.After != nil {
		p.NextCursor = page.After.Encode()
	}
	return p
}
