package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/api/middleware"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/platform/logger"
	"github.com/phrazzld/medium-api/internal/store"
)

// getUserIDFromContext returns the user ID bound by the auth middleware.
// Anonymous requests yield uuid.Nil and false.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return middleware.GetUserID(r)
}

// viewerFromRequest returns the caller's ID, or uuid.Nil when anonymous.
func viewerFromRequest(r *http.Request) uuid.UUID {
	viewer, _ := getUserIDFromContext(r)
	return viewer
}

// requireUserID returns the authenticated caller. It writes a 401 and
// returns false when the route was mounted without Authenticate.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID parses a UUID path parameter. Ids are opaque to clients, so a
// malformed one is reported as notFound rather than as invalid input.
func getPathUUID(r *http.Request, paramName string, notFound error) (uuid.UUID, error) {
	return parseID(chi.URLParam(r, paramName), notFound)
}

func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func parseBlogID(raw string) (uuid.UUID, error) {
	return parseID(raw, store.ErrBlogNotFound)
}

// parseLimit converts an already validated limit parameter. An empty value
// yields fallback.
func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Too large for int; any clamp will do.
		return store.MaxPageLimit
	}
	return n
}

// handlerLogger returns the request-scoped logger, falling back to base.
func handlerLogger(r *http.Request, base *slog.Logger) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), base)
}
