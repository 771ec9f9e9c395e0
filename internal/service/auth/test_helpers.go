package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultJWTConfig returns the JWT configuration used across test suites.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
		BcryptCost:           4,
	}
}

// NewTestJWTService creates a JWT service with an injected clock.
func NewTestJWTService(t *testing.T, secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	t.Helper()
	svc, err := newHMACJWTService(secret, lifetime, timeFunc)
	require.NoError(t, err)
	return svc
}

// RequireTestJWTService creates a JWT service from DefaultJWTConfig.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// GenerateAuthHeaderForTestingT returns "Bearer <token>" for userID signed by svc.
func GenerateAuthHeaderForTestingT(t *testing.T, svc JWTService, userID uuid.UUID) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err, "Failed to generate auth header")
	return "Bearer " + token
}
