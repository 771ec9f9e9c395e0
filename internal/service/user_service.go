package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/logger"
	"github.com/phrazzld/medium-api/internal/service/auth"
	"github.com/phrazzld/medium-api/internal/store"
)

// UserService provides signup, signin and profile operations.
type UserService interface {
	// Register creates a user with a bcrypt-hashed password.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, email, password, name string) (*domain.User, error)

	// Authenticate returns the user whose email and password match.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// Profile returns the user with their published posts, the like total
	// across their posts, and their drafts when viewer is the user.
	Profile(ctx context.Context, userID, viewer uuid.UUID) (*domain.UserProfile, error)
}

type userServiceImpl struct {
	users  store.UserStore
	blogs  store.BlogStore
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	blogs store.BlogStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, missing("users")
	}
	if blogs == nil {
		return nil, missing("blogs")
	}
	if hasher == nil {
		return nil, missing("hasher")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:  users,
		blogs:  blogs,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password, name)
	if err != nil {
		return nil, userValidationError(err)
	}

	user.HashedPassword, err = s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
			return nil, err
		}
		return nil, NewServiceError("user", "register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("signin for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("user", "authenticate", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("signin with wrong password", slog.String("user_id", user.ID.String()))
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("user", "authenticate", "failed to verify password", err)
	}

	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("user", "get", "failed to retrieve user", err)
	}
	return user, nil
}

// Profile issues several reads without a shared snapshot; a post published
// between them may show up in one list and not the other.
func (s *userServiceImpl) Profile(ctx context.Context, userID, viewer uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{User: user, Drafts: []*domain.BlogView{}}

	profile.Posts, err = s.blogs.ListByAuthor(ctx, userID, true)
	if err != nil {
		return nil, NewServiceError("user", "profile", "failed to list posts", err)
	}

	if viewer == userID {
		profile.Drafts, err = s.blogs.ListByAuthor(ctx, userID, false)
		if err != nil {
			return nil, NewServiceError("user", "profile", "failed to list drafts", err)
		}
	}

	profile.LikeCount, err = s.blogs.CountLikesForAuthor(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user", "profile", "failed to count likes", err)
	}

	return profile, nil
}

func userValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyEmail), errors.Is(err, domain.ErrInvalidEmail):
		return domain.NewValidationError("email", "must be a valid email address", err)
	case errors.Is(err, domain.ErrPasswordTooShort):
		return domain.NewValidationError("password", "must be at least 6 characters", err)
	case errors.Is(err, domain.ErrPasswordTooLong):
		return domain.NewValidationError("password", "must be at most 72 bytes", err)
	case errors.Is(err, domain.ErrEmptyPassword):
		return domain.NewValidationError("password", "is required", err)
	}
	return domain.NewValidationError("", err.Error(), err)
}
