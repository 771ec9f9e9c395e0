// Package memstore is an in-memory implementation of the store interfaces.
// It backs the service and handler test suites and the "memory" database
// driver for local runs. State is lost when the process exits.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/store"
)

type likeKey struct {
	blogID uuid.UUID
	userID uuid.UUID
}

// Store holds users, blogs and likes behind a single lock, so every
// operation is atomic with respect to the others.
type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]domain.User
	emails      map[string]uuid.UUID
	blogs       map[uuid.UUID]domain.Blog
	likes       map[likeKey]domain.Like
	lastCreated time.Time
	now         func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:  make(map[uuid.UUID]domain.User),
		emails: make(map[string]uuid.UUID),
		blogs:  make(map[uuid.UUID]domain.Blog),
		likes:  make(map[likeKey]domain.Like),
		now:    time.Now,
	}
}

// Users returns the UserStore view of s.
func (s *Store) Users() store.UserStore { return userStore{s} }

// Blogs returns the BlogStore view of s.
func (s *Store) Blogs() store.BlogStore { return blogStore{s} }

// Likes returns the LikeStore view of s.
func (s *Store) Likes() store.LikeStore { return likeStore{s} }

type userStore struct{ s *Store }

func (u userStore) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "create", "hashed password required", store.ErrInvalidEntity)
	}

	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := s.emails[email]; taken {
		return store.ErrEmailExists
	}

	stored := *user
	stored.Email = email
	stored.Password = ""
	s.users[stored.ID] = stored
	s.emails[email] = stored.ID
	return nil
}

func (u userStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

func (u userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

type blogStore struct{ s *Store }

// Create stores blog. CreatedAt is nudged forward when needed so that feed
// order matches insertion order even when the clock does not advance.
func (b blogStore) Create(ctx context.Context, blog *domain.Blog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := blog.Validate(); err != nil {
		return store.NewStoreError("blog", "create", "invalid blog", err)
	}

	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[blog.AuthorID]; !ok {
		return store.NewStoreError("blog", "create", "author does not exist", store.ErrInvalidEntity)
	}

	if !blog.CreatedAt.After(s.lastCreated) {
		blog.CreatedAt = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = blog.CreatedAt

	stored := *blog
	stored.Content = blog.Content.Clone()
	s.blogs[stored.ID] = stored
	return nil
}

func (b blogStore) Update(ctx context.Context, id, authorID uuid.UUID, patch domain.BlogPatch) (*domain.Blog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok || blog.AuthorID != authorID {
		return nil, store.ErrBlogNotFound
	}
	blog.Apply(patch, s.now())
	stored := blog
	stored.Content = blog.Content.Clone()
	s.blogs[id] = stored
	return &blog, nil
}

func (b blogStore) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok || blog.AuthorID != authorID {
		return store.ErrBlogNotFound
	}
	for key := range s.likes {
		if key.blogID == id {
			delete(s.likes, key)
		}
	}
	delete(s.blogs, id)
	return nil
}

func (b blogStore) Get(ctx context.Context, id, viewer uuid.UUID) (*domain.BlogView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	blog, ok := s.blogs[id]
	if !ok || !blog.VisibleTo(viewer) {
		return nil, store.ErrBlogNotFound
	}
	return s.viewLocked(&blog, viewer), nil
}

func (b blogStore) List(ctx context.Context, viewer uuid.UUID, page store.Page) (*store.BlogPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page.Limit <= 0 {
		return store.EmptyPage(page), nil
	}

	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := s.filterLocked(func(blog *domain.Blog) bool {
		return blog.VisibleTo(viewer) && (page.After == nil || page.After.After(blog))
	})

	result := &store.BlogPage{Blogs: make([]*domain.BlogView, 0, min(len(visible), page.Limit))}
	for i, blog := range visible {
		if i == page.Limit {
			last := result.Blogs[len(result.Blogs)-1]
			result.NextCursor = store.CursorFor(&last.Blog).Encode()
			break
		}
		result.Blogs = append(result.Blogs, s.viewLocked(blog, viewer))
	}
	return result, nil
}

func (b blogStore) ListDrafts(ctx context.Context, authorID uuid.UUID) ([]*domain.BlogView, error) {
	return b.ListByAuthor(ctx, authorID, false)
}

func (b blogStore) SearchByTitle(ctx context.Context, query string, viewer uuid.UUID, limit int) ([]*domain.BlogView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	matches := s.filterLocked(func(blog *domain.Blog) bool {
		return blog.VisibleTo(viewer) && strings.Contains(strings.ToLower(blog.Title), needle)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return s.viewsLocked(matches, viewer), nil
}

func (b blogStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, published bool) ([]*domain.BlogView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	blogs := s.filterLocked(func(blog *domain.Blog) bool {
		return blog.AuthorID == authorID && blog.Published == published
	})
	return s.viewsLocked(blogs, uuid.Nil), nil
}

func (b blogStore) CountLikesForAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for key := range s.likes {
		if blog, ok := s.blogs[key.blogID]; ok && blog.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

type likeStore struct{ s *Store }

func (l likeStore) Toggle(ctx context.Context, blogID, userID uuid.UUID) (*domain.LikeState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[blogID]
	if !ok || !blog.VisibleTo(userID) {
		return nil, store.ErrBlogNotFound
	}

	key := likeKey{blogID: blogID, userID: userID}
	liked := false
	if _, exists := s.likes[key]; exists {
		delete(s.likes, key)
	} else {
		like, err := domain.NewLike(blogID, userID)
		if err != nil {
			return nil, store.NewStoreError("like", "toggle", "invalid like", err)
		}
		s.likes[key] = *like
		liked = true
	}

	return &domain.LikeState{Liked: liked, LikeCount: s.likeCountLocked(blogID)}, nil
}

// filterLocked returns the blogs matching keep in feed order.
func (s *Store) filterLocked(keep func(*domain.Blog) bool) []*domain.Blog {
	out := make([]*domain.Blog, 0)
	for id := range s.blogs {
		blog := s.blogs[id]
		if keep(&blog) {
			out = append(out, &blog)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) viewsLocked(blogs []*domain.Blog, viewer uuid.UUID) []*domain.BlogView {
	views := make([]*domain.BlogView, 0, len(blogs))
	for _, blog := range blogs {
		views = append(views, s.viewLocked(blog, viewer))
	}
	return views
}

func (s *Store) viewLocked(blog *domain.Blog, viewer uuid.UUID) *domain.BlogView {
	view := &domain.BlogView{
		Blog:      *blog,
		LikeCount: s.likeCountLocked(blog.ID),
	}
	view.Content = blog.Content.Clone()
	if author, ok := s.users[blog.AuthorID]; ok {
		view.Author = domain.Author{ID: author.ID, Name: author.Name}
	}
	if viewer != uuid.Nil {
		_, view.ViewerLiked = s.likes[likeKey{blogID: blog.ID, userID: viewer}]
	}
	return view
}

func (s *Store) likeCountLocked(blogID uuid.UUID) int {
	count := 0
	for key := range s.likes {
		if key.blogID == blogID {
			count++
		}
	}
	return count
}
