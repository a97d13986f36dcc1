package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "workops", 24*time.Hour)

	userID := uuid.New()
	email := "test@example.com"

	t.Run("generates valid token", func(t *testing.T) {
		token, expiresAt, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("token carries issuer and subject", func(t *testing.T) {
		token, _, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "workops", claims.Issuer)
		assert.Equal(t, userID.String(), claims.Subject)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	userID := uuid.New()
	email := "test@example.com"

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", "workops", -time.Minute)

		token, _, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.Equal(t, auth.ErrExpiredToken, err)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", "workops", 24*time.Hour)

		token, _, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token + "tampered")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		jwtService1 := auth.NewJWTService("secret-1", "workops", 24*time.Hour)
		jwtService2 := auth.NewJWTService("secret-2", "workops", 24*time.Hour)

		token, _, err := jwtService1.GenerateToken(userID, email)
		require.NoError(t, err)

		_, err = jwtService2.ValidateToken(token)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects token from another issuer", func(t *testing.T) {
		other := auth.NewJWTService("test-secret", "someone-else", 24*time.Hour)
		jwtService := auth.NewJWTService("test-secret", "workops", 24*time.Hour)

		token, _, err := other.GenerateToken(userID, email)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("rejects malformed and empty tokens", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", "workops", 24*time.Hour)

		for _, raw := range []string{"not-a-valid-jwt", ""} {
			_, err := jwtService.ValidateToken(raw)
			assert.Equal(t, auth.ErrInvalidToken, err)
		}
	})
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, auth.CheckPassword("s3cret-pass", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
}
