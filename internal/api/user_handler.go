package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/medium-api/internal/api/shared"
	"github.com/phrazzld/medium-api/internal/redact"
	"github.com/phrazzld/medium-api/internal/service"
	"github.com/phrazzld/medium-api/internal/service/auth"
	"github.com/phrazzld/medium-api/internal/store"
)

// UserHandler handles signup, signin and profile requests.
type UserHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "user_handler")),
	}
}

// Signup handles POST /user/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, decodeError(err), "")
		return
	}
	if err := validate(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, SignupResponse{
		Message: "user created",
		Token:   token,
	})
}

// Signin handles POST /user/signin and its /user/login alias.
func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	var req SigninRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, decodeError(err), "")
		return
	}
	if err := validate(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{Token: token})
}

// Me handles GET /user/me. The token may outlive its user, which is
// reported as not found.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := handlerLogger(r, h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{User: toUserResponse(user)})
}

// Profile handles GET /user/{id}. Drafts are listed only when the caller is
// the profile owner.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id", store.ErrUserNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	profile, err := h.users.Profile(r.Context(), userID, viewerFromRequest(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		ID:        profile.User.ID,
		Name:      profile.User.Name,
		Email:     profile.User.Email,
		Posts:     toBlogListItems(profile.Posts),
		Drafts:    toBlogListItems(profile.Drafts),
		LikeCount: profile.LikeCount,
	})
}
