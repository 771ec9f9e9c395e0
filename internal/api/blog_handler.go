package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/medium-api/internal/api/shared"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/service"
	"github.com/phrazzld/medium-api/internal/store"
)

// BlogHandler handles blog and like requests.
type BlogHandler struct {
	blogs  service.BlogService
	likes  service.LikeService
	logger *slog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogs service.BlogService, likes service.LikeService, logger *slog.Logger) *BlogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BlogHandler")
	}

	return &BlogHandler{
		blogs:  blogs,
		likes:  likes,
		logger: logger.With(slog.String("component", "blog_handler")),
	}
}

// CreateBlog handles POST /blog.
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	authorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req BlogPostRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, decodeError(err), "")
		return
	}
	if err := validate(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	content, err := domain.ParseContent(req.Content)
	if err != nil {
		HandleAPIError(w, r, newFieldError("content", fieldReasonRichText, err), "")
		return
	}

	published := req.Published != nil && *req.Published
	blog, err := h.blogs.CreateBlog(r.Context(), authorID, *req.Title, content, published)
	if err != nil {
		HandleAPIError(w, r, err, "Error creating blog")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, BlogMutationResponse{
		Message: "Blog created",
		Blog:    blog,
	})
}

// UpdateBlog handles PUT /blog. Only the author may update a post.
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	authorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req BlogUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, decodeError(err), "")
		return
	}
	if err := validate(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	blogID, err := parseBlogID(req.ID)
	if err != nil {
		handleOwnedBlogError(w, r, err, "")
		return
	}

	content, err := domain.ParseContent(req.Content)
	if err != nil {
		HandleAPIError(w, r, newFieldError("content", fieldReasonRichText, err), "")
		return
	}

	blog, err := h.blogs.UpdateBlog(r.Context(), authorID, blogID, domain.BlogPatch{
		Title:     req.Title,
		Content:   content,
		Published: req.Published,
	})
	if err != nil {
		handleOwnedBlogError(w, r, err, "Error updating blog")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlogMutationResponse{
		Message: "Blog updated",
		Blog:    blog,
	})
}

// ListBlogs handles GET /blog/bulk, newest first.
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	q := FeedQuery{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  r.URL.Query().Get("limit"),
	}
	if err := validate(&q); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := store.NewPage(q.Cursor, parseLimit(q.Limit, store.DefaultPageLimit))
	if err != nil {
		HandleAPIError(w, r, newFieldError("cursor", "is not a valid cursor", err), "")
		return
	}

	result, err := h.blogs.ListBlogs(r.Context(), viewerFromRequest(r), page)
	if err != nil {
		HandleAPIError(w, r, err, "Error fetching blogs")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlogFeedResponse{
		Blogs:      toBlogListItems(result.Blogs),
		NextCursor: result.NextCursor,
	})
}

// ListDrafts handles GET /blog/drafts.
func (h *BlogHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	authorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	drafts, err := h.blogs.ListDrafts(r.Context(), authorID)
	if err != nil {
		HandleAPIError(w, r, err, "Error fetching drafts")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DraftsResponse{Drafts: toDraftItems(drafts)})
}

// SearchBlogs handles GET /blog/search. A blank query yields no results.
func (h *BlogHandler) SearchBlogs(w http.ResponseWriter, r *http.Request) {
	q := SearchQuery{
		Query: r.URL.Query().Get("query"),
		Limit: r.URL.Query().Get("limit"),
	}
	if err := validate(&q); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	results, err := h.blogs.SearchBlogs(r.Context(), q.Query, viewerFromRequest(r), parseLimit(q.Limit, 0))
	if err != nil {
		HandleAPIError(w, r, err, "Error searching blogs")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SearchResponse{Blogs: toSearchResults(results)})
}

// GetBlog handles GET /blog/{id}. Drafts are visible to their author only.
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	blogID, err := getPathUUID(r, "id", store.ErrBlogNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.blogs.GetBlog(r.Context(), blogID, viewerFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err, "Error fetching blog")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BlogDetailResponse{Blog: toBlogDetail(view)})
}

// ToggleLike handles POST /blog/{id}/like.
func (h *BlogHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	blogID, err := getPathUUID(r, "id", store.ErrBlogNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.likes.ToggleLike(r.Context(), blogID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Error toggling like")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// DeleteBlog handles DELETE /blog/{id}. Likes go with the post.
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	authorID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	blogID, err := getPathUUID(r, "id", store.ErrBlogNotFound)
	if err != nil {
		handleOwnedBlogError(w, r, err, "")
		return
	}

	if err := h.blogs.DeleteBlog(r.Context(), authorID, blogID); err != nil {
		handleOwnedBlogError(w, r, err, "Error deleting blog")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Blog deleted successfully"})
}
