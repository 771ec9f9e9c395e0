package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockBlogStore mocks the store.BlogStore interface
type MockBlogStore struct {
	mock.Mock
}

var _ store.BlogStore = (*MockBlogStore)(nil)

func (m *MockBlogStore) Create(ctx context.Context, blog *domain.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogStore) Update(ctx context.Context, id, authorID uuid.UUID, patch domain.BlogPatch) (*domain.Blog, error) {
	args := m.Called(ctx, id, authorID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Blog), args.Error(1)
}

func (m *MockBlogStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	args := m.Called(ctx, id, authorID)
	return args.Error(0)
}

func (m *MockBlogStore) Get(ctx context.Context, id, viewer uuid.UUID) (*domain.BlogView, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlogView), args.Error(1)
}

func (m *MockBlogStore) List(ctx context.Context, viewer uuid.UUID, page store.Page) (*store.BlogPage, error) {
	args := m.Called(ctx, viewer, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.BlogPage), args.Error(1)
}

func (m *MockBlogStore) ListDrafts(ctx context.Context, authorID uuid.UUID) ([]*domain.BlogView, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BlogView), args.Error(1)
}

func (m *MockBlogStore) SearchByTitle(
	ctx context.Context,
	query string,
	viewer uuid.UUID,
	limit int,
) ([]*domain.BlogView, error) {
	args := m.Called(ctx, query, viewer, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BlogView), args.Error(1)
}

func (m *MockBlogStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, published bool) ([]*domain.BlogView, error) {
	args := m.Called(ctx, authorID, published)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BlogView), args.Error(1)
}

func (m *MockBlogStore) CountLikesForAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

// MockLikeStore mocks the store.LikeStore interface
type MockLikeStore struct {
	mock.Mock
}

var _ store.LikeStore = (*MockLikeStore)(nil)

func (m *MockLikeStore) Toggle(ctx context.Context, blogID, userID uuid.UUID) (*domain.LikeState, error) {
	args := m.Called(ctx, blogID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LikeState), args.Error(1)
}
