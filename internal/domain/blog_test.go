package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlog(t *testing.T) {
	author := uuid.New()

	blog, err := NewBlog(author, "Hello", nil, false)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, blog.ID)
	assert.Equal(t, author, blog.AuthorID)
	assert.False(t, blog.Published)
	assert.NotNil(t, blog.Content)
	assert.Equal(t, blog.CreatedAt, blog.CreatedAt.Truncate(time.Microsecond))

	_, err = NewBlog(uuid.Nil, "Hello", nil, false)
	assert.ErrorIs(t, err, ErrBlogAuthorIDEmpty)
}

func TestBlog_VisibleTo(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	other := uuid.New()

	tests := []struct {
		name      string
		published bool
		viewer    uuid.UUID
		want      bool
	}{
		{"published, anonymous", true, uuid.Nil, true},
		{"published, other user", true, other, true},
		{"draft, author", false, author, true},
		{"draft, other user", false, other, false},
		{"draft, anonymous", false, uuid.Nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := &Blog{ID: uuid.New(), AuthorID: author, Published: tc.published}
			assert.Equal(t, tc.want, b.VisibleTo(tc.viewer))
		})
	}
}

func TestBlog_Apply(t *testing.T) {
	b := &Blog{ID: uuid.New(), AuthorID: uuid.New(), Title: "old", Content: Content{{Insert: "a"}}, Published: true}
	title := "new"
	now := time.Now()

	b.Apply(BlogPatch{Title: &title}, now)

	assert.Equal(t, "new", b.Title)
	assert.Equal(t, Content{{Insert: "a"}}, b.Content, "nil content keeps the current body")
	assert.True(t, b.Published, "nil published keeps the current state")
	assert.Equal(t, now.UTC().Truncate(time.Microsecond), b.UpdatedAt)

	published := false
	b.Apply(BlogPatch{Published: &published, Content: Content{}}, now)
	assert.False(t, b.Published)
	assert.Equal(t, Content{}, b.Content)
}

func TestNewLike(t *testing.T) {
	like, err := NewLike(uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, like.ID)

	_, err = NewLike(uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrLikeBlogIDEmpty)
	_, err = NewLike(uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrLikeUserIDEmpty)
}
