package service

import (
	"time"

	"github.com/google/uuid"
)

// AccessClaims are the verified contents of an access token.
type AccessClaims struct {
	UserID uuid.UUID // Subject of the token.
	Role   string    // Role claim as issued. Callers must re-validate against entity.Role.
	// CheckedAt records when the user's existence was last confirmed against
	// the persistent store. Session resolution re-queries the store once this
	// is older than the configured staleness window.
	CheckedAt time.Time
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a user.
	// The access token's store-check timestamp is set to now.
	GenerateTokens(userID uuid.UUID, role string) (accessToken string, refreshToken string, err error)

	// GenerateAccessToken creates an access token with an explicit store-check
	// timestamp. Used when reissuing a token after periodic revalidation.
	GenerateAccessToken(userID uuid.UUID, role string, checkedAt time.Time) (string, error)

	// ParseAccessToken validates an access token string and returns its claims.
	ParseAccessToken(tokenString string) (*AccessClaims, error)

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration

	// HashToken returns the digest under which a refresh token is persisted.
	// Raw refresh tokens are never stored.
	HashToken(token string) string
}
