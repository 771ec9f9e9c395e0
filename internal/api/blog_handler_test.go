package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/api"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          any
		wantStatus    int
		wantContent   domain.Content
		wantPublished bool
		wantFields    []api.FieldError
	}{
		{
			name: "op list",
			body: map[string]any{
				"title":     "Ops",
				"content":   []map[string]any{{"insert": "bold", "attributes": map[string]any{"bold": true}}},
				"published": true,
			},
			wantStatus:    http.StatusCreated,
			wantContent:   domain.Content{{Insert: "bold", Attributes: map[string]any{"bold": true}}},
			wantPublished: true,
		},
		{
			name:        "stringified op list",
			body:        map[string]any{"title": "String", "content": `[{"insert":"hi"}]`},
			wantStatus:  http.StatusCreated,
			wantContent: domain.Content{{Insert: "hi"}},
		},
		{
			name:        "plain string becomes one op",
			body:        map[string]any{"title": "Plain", "content": "just text"},
			wantStatus:  http.StatusCreated,
			wantContent: domain.Content{{Insert: "just text"}},
		},
		{
			name:        "plain string starting with a bracket",
			body:        map[string]any{"title": "Bracket", "content": "[Draft] my thoughts on Go"},
			wantStatus:  http.StatusCreated,
			wantContent: domain.Content{{Insert: "[Draft] my thoughts on Go"}},
		},
		{
			name:        "empty title is allowed",
			body:        map[string]any{"title": "", "content": "x"},
			wantStatus:  http.StatusCreated,
			wantContent: domain.Content{{Insert: "x"}},
		},
		{
			name:       "missing title",
			body:       map[string]any{"content": "x"},
			wantStatus: http.StatusBadRequest,
			wantFields: []api.FieldError{{Field: "title", Reason: "is required"}},
		},
		{
			name:       "content of the wrong shape",
			body:       map[string]any{"title": "Bad", "content": 42},
			wantStatus: http.StatusBadRequest,
			wantFields: []api.FieldError{{Field: "content", Reason: "must be a list of rich-text operations or a string"}},
		},
		{
			name:       "published must be a boolean",
			body:       map[string]any{"title": "Bad", "content": "x", "published": "yes"},
			wantStatus: http.StatusBadRequest,
			wantFields: []api.FieldError{{Field: "published", Reason: "must be a boolean"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t)
			author := srv.signup("author@example.com", "Author")

			rec := srv.do(http.MethodPost, "/api/v1/blog", tc.body, author)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			if tc.wantStatus != http.StatusCreated {
				assert.Equal(t, tc.wantFields, decodeFields(t, rec))
				return
			}

			resp := decode[api.BlogMutationResponse](t, rec)
			assert.Equal(t, "Blog created", resp.Message)
			require.NotNil(t, resp.Blog)
			assert.Equal(t, author, resp.Blog.AuthorID)
			assert.Equal(t, tc.wantContent, resp.Blog.Content)
			assert.Equal(t, tc.wantPublished, resp.Blog.Published)
		})
	}

	t.Run("requires a token", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t)

		rec := srv.do(http.MethodPost, "/api/v1/blog", map[string]any{"title": "x", "content": "x"}, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpdateBlog(t *testing.T) {
	srv := newTestServer(t)
	author := srv.signup("author@example.com", "Author")
	blogID := srv.createBlog(author, "Draft", false)

	update := func(body map[string]any) *api.BlogMutationResponse {
		t.Helper()
		rec := srv.do(http.MethodPut, "/api/v1/blog", body, author)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[api.BlogMutationResponse](t, rec)
		return &resp
	}

	resp := update(map[string]any{"id": blogID.String(), "title": "Live", "content": "new", "published": true})
	assert.Equal(t, "Blog updated", resp.Message)
	assert.Equal(t, "Live", resp.Blog.Title)
	assert.Equal(t, domain.Content{{Insert: "new"}}, resp.Blog.Content)
	assert.True(t, resp.Blog.Published)

	// absent published keeps the current state
	resp = update(map[string]any{"id": blogID.String(), "title": "Live again", "content": "newer"})
	assert.True(t, resp.Blog.Published)

	t.Run("unknown and malformed ids", func(t *testing.T) {
		for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
			rec := srv.do(http.MethodPut, "/api/v1/blog",
				map[string]any{"id": id, "title": "x", "content": "x"}, author)
			assert.Equal(t, http.StatusNotFound, rec.Code, id)
			assert.Equal(t, "Blog not found or you don't have permission", decode[errorBody](t, rec).Message)
		}
	})

	t.Run("id is required", func(t *testing.T) {
		rec := srv.do(http.MethodPut, "/api/v1/blog", map[string]any{"title": "x", "content": "x"}, author)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []api.FieldError{{Field: "id", Reason: "is required"}}, decodeFields(t, rec))
	})
}

func TestDeleteBlog(t *testing.T) {
	srv := newTestServer(t)
	author := srv.signup("author@example.com", "Author")
	reader := srv.signup("reader@example.com", "Reader")
	blogID := srv.createBlog(author, "Doomed", true)
	path := "/api/v1/blog/" + blogID.String()

	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, path+"/like", nil, reader).Code)

	rec := srv.do(http.MethodDelete, path, nil, reader)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog not found or you don't have permission", decode[errorBody](t, rec).Message)

	rec = srv.do(http.MethodDelete, path, nil, author)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Blog deleted successfully"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, path, nil, author).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodPost, path+"/like", nil, reader).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodDelete, path, nil, author).Code)

	rec = srv.do(http.MethodGet, "/api/v1/user/"+author.String(), nil, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[api.ProfileResponse](t, rec).LikeCount, "likes go with the post")
}

func TestGetBlog(t *testing.T) {
	srv := newTestServer(t)
	author := srv.signup("author@example.com", "Author")
	draft := srv.createBlog(author, "Secret", false)

	rec := srv.do(http.MethodGet, "/api/v1/blog/"+draft.String(), nil, author)
	require.Equal(t, http.StatusOK, rec.Code)

	blog := decode[api.BlogDetailResponse](t, rec).Blog
	assert.Equal(t, draft, blog.ID)
	assert.Equal(t, author, blog.AuthorID)
	assert.Equal(t, "Author", blog.Author.Name)
	assert.Equal(t, `[{"insert":"Secret body"}]`, blog.Content)
	assert.False(t, blog.Published)

	for _, id := range []string{draft.String(), uuid.NewString(), "not-a-uuid"} {
		rec := srv.do(http.MethodGet, "/api/v1/blog/"+id, nil, uuid.Nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Equal(t, "Blog not found", decode[errorBody](t, rec).Message, id)
	}
}

func TestListDrafts(t *testing.T) {
	srv := newTestServer(t)
	author := srv.signup("author@example.com", "Author")
	other := srv.signup("other@example.com", "Other")
	draft := srv.createBlog(author, "Mine", false)
	srv.createBlog(author, "Public", true)
	srv.createBlog(other, "Theirs", false)

	rec := srv.do(http.MethodGet, "/api/v1/blog/drafts", nil, author)
	require.Equal(t, http.StatusOK, rec.Code)

	drafts := decode[api.DraftsResponse](t, rec).Drafts
	require.Len(t, drafts, 1)
	assert.Equal(t, draft, drafts[0].ID)
	assert.Equal(t, `[{"insert":"Mine body"}]`, drafts[0].Content)
	assert.Equal(t, author, drafts[0].Author.ID)

	rec = srv.do(http.MethodGet, "/api/v1/blog/drafts", nil, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchBlogs(t *testing.T) {
	srv := newTestServer(t)
	author := srv.signup("author@example.com", "Author")
	reader := srv.signup("reader@example.com", "Reader")
	golang := srv.createBlog(author, "Learning Go", true)
	draft := srv.createBlog(author, "Go drafts", false)
	srv.createBlog(author, "Rust notes", true)
	srv.createBlog(author, "100% done", true)

	search := func(query string, viewer uuid.UUID) []api.SearchResult {
		t.Helper()
		rec := srv.do(http.MethodGet, "/api/v1/blog/search?query="+url.QueryEscape(query), nil, viewer)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[api.SearchResponse](t, rec).Blogs
	}

	assert.Equal(t, []api.SearchResult{{ID: golang, Title: "Learning Go"}}, search("go", reader))
	assert.Equal(t, []api.SearchResult{{ID: draft, Title: "Go drafts"}, {ID: golang, Title: "Learning Go"}},
		search("GO", author))
	assert.Len(t, search("%", uuid.Nil), 1, "wildcards match literally")
	assert.Empty(t, search("", uuid.Nil))
	assert.Empty(t, search("   ", uuid.Nil))

	rec := srv.do(http.MethodGet, "/api/v1/blog/search?query=go&limit=abc", nil, uuid.Nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []api.FieldError{{Field: "limit", Reason: "must be a non-negative integer"}}, decodeFields(t, rec))

	rec = srv.do(http.MethodGet, "/api/v1/blog/search?query=o&limit=1", nil, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[api.SearchResponse](t, rec).Blogs, 1)
}

func TestListBlogsPagination(t *testing.T) {
	srv := newTestServer(t)
	author := srv.signup("author@example.com", "Author")
	first := srv.createBlog(author, "First", true)
	second := srv.createBlog(author, "Second", true)
	third := srv.createBlog(author, "Third", true)

	rec := srv.do(http.MethodGet, "/api/v1/blog/bulk?limit=2", nil, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[api.BlogFeedResponse](t, rec)
	assert.Equal(t, []uuid.UUID{third, second}, feedIDs(page.Blogs))
	require.NotEmpty(t, page.NextCursor)

	rec = srv.do(http.MethodGet, "/api/v1/blog/bulk?limit=2&cursor="+page.NextCursor, nil, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last := decode[api.BlogFeedResponse](t, rec)
	assert.Equal(t, []uuid.UUID{first}, feedIDs(last.Blogs))
	assert.Empty(t, last.NextCursor)

	t.Run("limit zero echoes the cursor", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/api/v1/blog/bulk?limit=0&cursor="+page.NextCursor, nil, uuid.Nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"blogs":[],"nextCursor":"`+page.NextCursor+`"}`, rec.Body.String())
	})

	t.Run("invalid cursor", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/api/v1/blog/bulk?cursor=garbage", nil, uuid.Nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []api.FieldError{{Field: "cursor", Reason: "is not a valid cursor"}}, decodeFields(t, rec))
	})

	t.Run("negative limit", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/api/v1/blog/bulk?limit=-1", nil, uuid.Nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRoutes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/", http.StatusOK, "Hello!"},
		{http.MethodGet, "/health", http.StatusOK, "OK"},
		{http.MethodGet, "/api/v1", http.StatusOK, "from api/v1"},
		{http.MethodGet, "/api/v1/user", http.StatusOK, "from api/v1/user"},
	}

	for _, tc := range tests {
		rec := srv.do(tc.method, tc.path, nil, uuid.Nil)
		assert.Equal(t, tc.wantStatus, rec.Code, tc.path)
		assert.Equal(t, tc.wantBody, rec.Body.String(), tc.path)
	}

	for _, path := range []string{"/nope", "/api/v1/nope", "/api/v2/blog/bulk"} {
		rec := srv.do(http.MethodGet, path, nil, uuid.Nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "route not found", decode[errorBody](t, rec).Message, path)
	}

	rec := srv.do(http.MethodPatch, "/api/v1/blog", nil, uuid.Nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, "/health", nil, uuid.Nil)
	assert.Len(t, rec.Header().Get("X-Trace-ID"), 32)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/blog", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}
