package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
)

// LikeStore defines the interface for like persistence.
type LikeStore interface {
	// Toggle removes userID's like on blogID if present and adds it otherwise,
	// returning the resulting state. Concurrent toggles on the same blog are
	// serialized. Returns ErrBlogNotFound if the blog is absent or not visible
	// to userID.
	Toggle(ctx context.Context, blogID, userID uuid.UUID) (*domain.LikeState, error)
}
