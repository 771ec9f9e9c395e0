package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/api/middleware"
	"github.com/phrazzld/medium-api/internal/api/shared"
	"github.com/phrazzld/medium-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUser writes the user ID bound to the request, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id, ok := middleware.GetUserID(r); ok {
		_, _ = w.Write([]byte(id.String()))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtSvc := auth.RequireTestJWTService(t)
	expiredSvc := auth.NewTestJWTService(t, auth.DefaultJWTConfig().JWTSecret, time.Minute,
		func() time.Time { return time.Now().Add(-time.Hour) })
	otherKey := auth.NewTestJWTService(t, "another-secret-that-is-32-chars-long!", time.Hour, time.Now)
	userID := uuid.New()

	h := middleware.NewAuthMiddleware(jwtSvc).Authenticate(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing header", header: "", wantStatus: 401, wantError: "Unauthorized: No token provided"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: 401, wantError: "Unauthorized: Invalid authorization format"},
		{name: "bearer without token", header: "Bearer ", wantStatus: 401, wantError: "Unauthorized: Invalid authorization format"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: 401, wantError: "Unauthorized: Invalid token"},
		{
			name:       "foreign signature",
			header:     auth.GenerateAuthHeaderForTestingT(t, otherKey, userID),
			wantStatus: 401,
			wantError:  "Unauthorized: Invalid token",
		},
		{
			name:       "expired",
			header:     auth.GenerateAuthHeaderForTestingT(t, expiredSvc, userID),
			wantStatus: 401,
			wantError:  "Unauthorized: Token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(h, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		rec := serve(h, auth.GenerateAuthHeaderForTestingT(t, jwtSvc, userID))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), rec.Body.String())
	})

	t.Run("lowercase scheme", func(t *testing.T) {
		t.Parallel()
		token, err := jwtSvc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		rec := serve(h, "bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthenticate_UnexpectedValidationError(t *testing.T) {
	t.Parallel()

	mock := &auth.MockJWTService{ValidationError: errors.New("keystore unavailable")}
	rec := serve(middleware.NewAuthMiddleware(mock).Authenticate(echoUser), "Bearer token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIdentify(t *testing.T) {
	t.Parallel()

	jwtSvc := auth.RequireTestJWTService(t)
	userID := uuid.New()
	h := middleware.NewAuthMiddleware(jwtSvc).Identify(echoUser)

	assert.Equal(t, "anonymous", serve(h, "").Body.String())
	assert.Equal(t, "anonymous", serve(h, "Bearer nonsense").Body.String())
	assert.Equal(t, "anonymous", serve(h, "Token abc").Body.String())

	rec := serve(h, auth.GenerateAuthHeaderForTestingT(t, jwtSvc, userID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestGetUserID_Anonymous(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.GetUserID(req)
	assert.False(t, ok)

	req = req.WithContext(shared.WithUserID(req.Context(), uuid.New()))
	_, ok = middleware.GetUserID(req)
	assert.True(t, ok)
}
