//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/postgres"
	"github.com/phrazzld/medium-api/internal/store"
	"github.com/phrazzld/medium-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stores struct {
	users store.UserStore
	blogs store.BlogStore
	likes store.LikeStore
}

func setupStores(t *testing.T) (*sql.DB, stores) {
	t.Helper()
	db := testdb.GetTestDBWithT(t)
	return db, stores{
		users: postgres.NewPostgresUserStore(db, nil),
		blogs: postgres.NewPostgresBlogStore(db, nil),
		likes: postgres.NewPostgresLikeStore(db, nil),
	}
}

func createUser(t *testing.T, s stores, email, name string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password123", name)
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func createBlog(t *testing.T, s stores, author uuid.UUID, title string, published bool) *domain.Blog {
	t.Helper()
	blog, err := domain.NewBlog(author, title, domain.Content{{Insert: title}}, published)
	require.NoError(t, err)
	require.NoError(t, s.blogs.Create(context.Background(), blog))
	return blog
}

func TestUserStoreIntegration(t *testing.T) {
	_, s := setupStores(t)
	ctx := context.Background()

	user := createUser(t, s, "Ada@Example.com", "Ada")

	byEmail, err := s.users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Ada", byEmail.Name)
	assert.Equal(t, "hashed", byEmail.HashedPassword)

	byID, err := s.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.True(t, user.CreatedAt.Equal(byID.CreatedAt))

	dup, err := domain.NewUser("ada@example.com", "password123", "")
	require.NoError(t, err)
	dup.HashedPassword = "hashed"
	assert.ErrorIs(t, s.users.Create(ctx, dup), store.ErrEmailExists)

	_, err = s.users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreIntegration_RolledBack(t *testing.T) {
	db, s := setupStores(t)
	ctx := context.Background()

	user, err := domain.NewUser("grace@example.com", "password123", "Grace")
	require.NoError(t, err)
	user.HashedPassword = "hashed"

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		txUsers := postgres.NewPostgresUserStore(tx, nil)
		require.NoError(t, txUsers.Create(ctx, user))

		found, err := txUsers.GetByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	_, err = s.users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestBlogStoreIntegration_Visibility(t *testing.T) {
	_, s := setupStores(t)
	ctx := context.Background()

	author := createUser(t, s, "author@example.com", "Author")
	other := createUser(t, s, "other@example.com", "")
	draft := createBlog(t, s, author.ID, "Draft", false)
	post := createBlog(t, s, author.ID, "Post", true)

	_, err := s.blogs.Get(ctx, draft.ID, uuid.Nil)
	assert.ErrorIs(t, err, store.ErrBlogNotFound)
	_, err = s.blogs.Get(ctx, draft.ID, other.ID)
	assert.ErrorIs(t, err, store.ErrBlogNotFound)

	own, err := s.blogs.Get(ctx, draft.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Content{{Insert: "Draft"}}, own.Content)
	assert.Equal(t, "Author", own.Author.Name)

	page, err := s.blogs.List(ctx, uuid.Nil, store.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, post.ID, page.Blogs[0].ID)

	page, err = s.blogs.List(ctx, author.ID, store.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Blogs, 2)

	drafts, err := s.blogs.ListDrafts(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}

func TestBlogStoreIntegration_Pagination(t *testing.T) {
	_, s := setupStores(t)
	ctx := context.Background()

	author := createUser(t, s, "pager@example.com", "")
	want := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		blog := createBlog(t, s, author.ID, "post", true)
		want = append([]uuid.UUID{blog.ID}, want...)
		time.Sleep(time.Millisecond)
	}

	var got []uuid.UUID
	page := store.Page{Limit: 2}
	for {
		result, err := s.blogs.List(ctx, uuid.Nil, page)
		require.NoError(t, err)
		for _, b := range result.Blogs {
			got = append(got, b.ID)
		}
		if result.NextCursor == "" {
			break
		}
		page, err = store.NewPage(result.NextCursor, 2)
		require.NoError(t, err)
	}
	assert.Equal(t, want, got)
}

func TestBlogStoreIntegration_UpdateAndSearch(t *testing.T) {
	_, s := setupStores(t)
	ctx := context.Background()

	author := createUser(t, s, "writer@example.com", "")
	stranger := createUser(t, s, "stranger@example.com", "")
	blog := createBlog(t, s, author.ID, "Go Concurrency", false)

	title := "Go 100% Concurrency"
	published := true
	_, err := s.blogs.Update(ctx, blog.ID, stranger.ID, domain.BlogPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrBlogNotFound)

	updated, err := s.blogs.Update(ctx, blog.ID, author.ID, domain.BlogPatch{Title: &title, Published: &published})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.Published)
	assert.Equal(t, blog.Content, updated.Content)

	results, err := s.blogs.SearchByTitle(ctx, "100%", uuid.Nil, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = s.blogs.SearchByTitle(ctx, "1_0", uuid.Nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.blogs.SearchByTitle(ctx, "CONCURRENCY", uuid.Nil, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestLikeStoreIntegration(t *testing.T) {
	db, s := setupStores(t)
	ctx := context.Background()

	author := createUser(t, s, "liked@example.com", "")
	reader := createUser(t, s, "reader@example.com", "")
	blog := createBlog(t, s, author.ID, "Likeable", true)
	draft := createBlog(t, s, author.ID, "Hidden", false)

	state, err := s.likes.Toggle(ctx, blog.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{Liked: true, LikeCount: 1}, *state)

	state, err = s.likes.Toggle(ctx, blog.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{Liked: false, LikeCount: 0}, *state)

	_, err = s.likes.Toggle(ctx, draft.ID, reader.ID)
	assert.ErrorIs(t, err, store.ErrBlogNotFound)

	// An even number of concurrent toggles leaves the like absent.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.likes.Toggle(ctx, blog.ID, reader.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := s.blogs.Get(ctx, blog.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.LikeCount)
	assert.False(t, view.ViewerLiked)

	_, err = s.likes.Toggle(ctx, blog.ID, reader.ID)
	require.NoError(t, err)
	count, err := s.blogs.CountLikesForAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.blogs.Delete(ctx, blog.ID, author.ID))
	var remaining int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM likes WHERE blog_id = $1`, blog.ID).Scan(&remaining))
	assert.Zero(t, remaining)
	assert.ErrorIs(t, s.blogs.Delete(ctx, blog.ID, author.ID), store.ErrBlogNotFound)
}
