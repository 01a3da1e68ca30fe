package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/config"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndParseAccessToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	userID := uuid.New()

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, "ADMIN")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	claims, err := jwtService.ParseAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.WithinDuration(t, time.Now(), claims.CheckedAt, 5*time.Second)
}

func TestJWTService_CheckedAtRoundTrips(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	userID := uuid.New()
	checkedAt := time.Now().Add(-10 * time.Minute).Truncate(time.Second)

	token, err := jwtService.GenerateAccessToken(userID, "USER", checkedAt)
	require.NoError(t, err)

	claims, err := jwtService.ParseAccessToken(token)
	require.NoError(t, err)
	assert.True(t, claims.CheckedAt.Equal(checkedAt))
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	token, _, err := jwtService.GenerateTokens(uuid.New(), "USER")
	require.NoError(t, err)

	_, err = jwtService.ParseAccessToken(token + "x")
	assert.Error(t, err)

	_, err = jwtService.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_RefreshTokenNotValidAsAccess(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	_, refreshToken, err := jwtService.GenerateTokens(uuid.New(), "USER")
	require.NoError(t, err)

	// Signed with a different secret, so the access parser must reject it.
	_, err = jwtService.ParseAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestJWTService_HashTokenIsStableAndOpaque(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	hash1 := jwtService.HashToken("some-refresh-token")
	hash2 := jwtService.HashToken("some-refresh-token")
	other := jwtService.HashToken("another-refresh-token")

	assert.Equal(t, hash1, hash2)
	assert.NotEqual(t, hash1, other)
	assert.NotContains(t, hash1, "some-refresh-token")
	assert.Len(t, hash1, 64)
}

func TestJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
