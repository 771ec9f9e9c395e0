package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
)

// SignupRequest defines the payload for the user signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Name     string `json:"name"`
}

// SigninRequest defines the payload for the signin and login endpoints.
type SigninRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// BlogPostRequest defines the payload for creating a post. Content is kept
// raw so both the op list and its string encoding are accepted.
type BlogPostRequest struct {
	Title     *string         `json:"title"     validate:"required"`
	Content   json.RawMessage `json:"content"   validate:"required,richtext"`
	Published *bool           `json:"published"`
}

// BlogUpdateRequest defines the payload for updating a post. A nil
// Published keeps the current state.
type BlogUpdateRequest struct {
	ID        string          `json:"id"        validate:"required"`
	Title     *string         `json:"title"     validate:"required"`
	Content   json.RawMessage `json:"content"   validate:"required,richtext"`
	Published *bool           `json:"published"`
}

// FeedQuery holds the query parameters of the feed endpoint.
type FeedQuery struct {
	Cursor string `query:"cursor"`
	Limit  string `query:"limit"  validate:"omitempty,number"`
}

// SearchQuery holds the query parameters of the search endpoint.
type SearchQuery struct {
	Query string `query:"query"`
	Limit string `query:"limit" validate:"omitempty,number"`
}

// SignupResponse is returned after a successful signup.
type SignupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// TokenResponse is returned after a successful signin.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// MeResponse wraps the caller's own record.
type MeResponse struct {
	User UserResponse `json:"user"`
}

// ProfileResponse is the public profile of a user.
type ProfileResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Posts     []BlogListItem `json:"posts"`
	Drafts    []BlogListItem `json:"drafts"`
	LikeCount int            `json:"likeCount"`
}

// AuthorResponse identifies the author of a post.
type AuthorResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BlogListItem is a post as it appears in the feed and on profiles.
type BlogListItem struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Content   domain.Content `json:"content"`
	Author    AuthorResponse `json:"author"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"createdAt"`
	LikeCount int            `json:"likeCount"`
	UserLiked bool           `json:"userLiked"`
}

// BlogFeedResponse is one page of the feed.
type BlogFeedResponse struct {
	Blogs      []BlogListItem `json:"blogs"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// BlogDetail is a single post. Content is the JSON encoding of the op list.
type BlogDetail struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	AuthorID  uuid.UUID      `json:"authorId"`
	Author    AuthorResponse `json:"author"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	LikeCount int            `json:"likeCount"`
	UserLiked bool           `json:"userLiked"`
}

// BlogDetailResponse wraps a single post.
type BlogDetailResponse struct {
	Blog BlogDetail `json:"blog"`
}

// BlogMutationResponse is returned after a post is created or updated.
type BlogMutationResponse struct {
	Message string       `json:"message"`
	Blog    *domain.Blog `json:"blog"`
}

// DraftItem is an unpublished post. Content is stringified like BlogDetail.
type DraftItem struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// DraftsResponse lists the caller's drafts.
type DraftsResponse struct {
	Drafts []DraftItem `json:"drafts"`
}

// SearchResult is a title match.
type SearchResult struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// SearchResponse lists title matches.
type SearchResponse struct {
	Blogs []SearchResult `json:"blogs"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toAuthor(v *domain.BlogView) AuthorResponse {
	return AuthorResponse{ID: v.Author.ID, Name: v.Author.Name}
}

func toBlogListItems(views []*domain.BlogView) []BlogListItem {
	items := make([]BlogListItem, 0, len(views))
	for _, v := range views {
		items = append(items, BlogListItem{
			ID:        v.ID,
			Title:     v.Title,
			Content:   v.Content,
			Author:    toAuthor(v),
			Published: v.Published,
			CreatedAt: v.CreatedAt,
			LikeCount: v.LikeCount,
			UserLiked: v.ViewerLiked,
		})
	}
	return items
}

func toBlogDetail(v *domain.BlogView) BlogDetail {
	return BlogDetail{
		ID:        v.ID,
		Title:     v.Title,
		Content:   v.Content.String(),
		AuthorID:  v.AuthorID,
		Author:    toAuthor(v),
		Published: v.Published,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
		LikeCount: v.LikeCount,
		UserLiked: v.ViewerLiked,
	}
}

func toDraftItems(views []*domain.BlogView) []DraftItem {
	items := make([]DraftItem, 0, len(views))
	for _, v := range views {
		items = append(items, DraftItem{
			ID:        v.ID,
			Title:     v.Title,
			Content:   v.Content.String(),
			Author:    toAuthor(v),
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		})
	}
	return items
}

func toSearchResults(views []*domain.BlogView) []SearchResult {
	results := make([]SearchResult, 0, len(views))
	for _, v := range views {
		results = append(results, SearchResult{ID: v.ID, Title: v.Title})
	}
	return results
}
