package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLikeBlogIDEmpty = errors.New("like blog ID cannot be empty")
	ErrLikeUserIDEmpty = errors.New("like user ID cannot be empty")
)

// Like records that a user liked a blog. There is at most one per (blog, user).
type Like struct {
	ID        uuid.UUID
	BlogID    uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// NewLike creates a Like with a fresh ID.
func NewLike(blogID, userID uuid.UUID) (*Like, error) {
	if blogID == uuid.Nil {
		return nil, ErrLikeBlogIDEmpty
	}
	if userID == uuid.Nil {
		return nil, ErrLikeUserIDEmpty
	}
	return &Like{
		ID:        uuid.New(),
		BlogID:    blogID,
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

// LikeState is the outcome of a toggle: whether the user now likes the blog,
// and the blog's like count after the toggle.
type LikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
