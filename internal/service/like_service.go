package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/logger"
	"github.com/phrazzld/medium-api/internal/store"
)

// LikeService toggles likes.
type LikeService interface {
	// ToggleLike flips userID's like on blogID and returns the new state.
	// Returns store.ErrBlogNotFound if the blog is absent or hidden from userID.
	ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (*domain.LikeState, error)
}

type likeServiceImpl struct {
	likes  store.LikeStore
	logger *slog.Logger
}

// NewLikeService creates a new LikeService.
func NewLikeService(likes store.LikeStore, logger *slog.Logger) (LikeService, error) {
	if likes == nil {
		return nil, missing("likes")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &likeServiceImpl{
		likes:  likes,
		logger: logger.With(slog.String("component", "like_service")),
	}, nil
}

func (s *likeServiceImpl) ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (*domain.LikeState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := s.likes.Toggle(ctx, blogID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("like", "toggle", "failed to toggle like", err)
	}

	log.Debug("like toggled",
		slog.String("blog_id", blogID.String()),
		slog.String("user_id", userID.String()),
		slog.Bool("liked", state.Liked))
	return state, nil
}
