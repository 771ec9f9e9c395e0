package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/medium-api/internal/api/shared"
	"github.com/phrazzld/medium-api/internal/domain"
	"github.com/phrazzld/medium-api/internal/redact"
	"github.com/phrazzld/medium-api/internal/service"
	"github.com/phrazzld/medium-api/internal/service/auth"
	"github.com/phrazzld/medium-api/internal/store"
)

// Client-facing messages.
const (
	msgInvalidInput       = "invalid input"
	msgUserExists         = "user already exists"
	msgEmailRegistered    = "email already registered"
	msgInvalidCredentials = "invalid credentials"
	msgBlogNotFound       = "Blog not found"
	msgBlogNotOwned       = "Blog not found or you don't have permission"
	msgUserNotFound       = "User not found"
	msgRouteNotFound      = "route not found"
	msgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidCursor),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidCursor),
		errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidInput

	case errors.Is(err, store.ErrEmailExists):
		return msgUserExists

	case errors.Is(err, service.ErrInvalidCredentials):
		return msgInvalidCredentials

	case errors.Is(err, auth.ErrExpiredToken):
		return "Unauthorized: Token expired"

	case errors.Is(err, auth.ErrMissingToken):
		return "Unauthorized: No token provided"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized: Invalid token"

	case errors.Is(err, store.ErrUserNotFound):
		return msgUserNotFound

	case errors.Is(err, store.ErrBlogNotFound):
		return msgBlogNotFound

	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the response for err. internalMessage is what the
// client sees when err maps to 500; the redacted error is attached only when
// error details are enabled for the request.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	status := MapErrorToStatusCode(err)

	switch {
	case status == http.StatusUnauthorized:
		shared.RespondWithError(w, r, status, GetSafeErrorMessage(err))

	case errors.Is(err, store.ErrEmailExists):
		shared.RespondWithErrorAndLog(w, r, status, msgUserExists, err, shared.WithDetail(msgEmailRegistered))

	case errors.Is(err, service.ErrInvalidCredentials):
		shared.RespondWithErrorAndLog(w, r, status, msgInvalidCredentials, err, shared.WithElevatedLogLevel())

	case status == http.StatusBadRequest:
		shared.RespondWithErrorAndLog(w, r, status, msgInvalidInput, err,
			shared.WithDetail(validationDetail(err)))

	case status == http.StatusInternalServerError:
		if internalMessage == "" {
			internalMessage = msgUnexpected
		}
		var opts []shared.ResponseOption
		if shared.ErrorDetailsEnabled(r.Context()) {
			opts = append(opts, shared.WithDetail(redact.Error(err)))
		}
		shared.RespondWithErrorAndLog(w, r, status, internalMessage, err, opts...)

	default:
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
	}
}

// handleOwnedBlogError answers update and delete failures, where a missing
// post and a post owned by someone else are reported the same way.
func handleOwnedBlogError(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	if errors.Is(err, store.ErrBlogNotFound) {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, msgBlogNotOwned, err)
		return
	}
	HandleAPIError(w, r, err, internalMessage)
}
