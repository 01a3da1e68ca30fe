package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
)

// ResolveSessionOutput is the result of turning access-token claims into a
// request session.
type ResolveSessionOutput struct {
	Session *entity.Session

	// AccessToken is a reissued token carrying a fresh store-check timestamp.
	// Empty when the presented token is still fresh enough to keep.
	AccessToken string

	// SignedOut indicates the claims referenced a user that no longer exists
	// and the caller should clear the client's tokens.
	SignedOut bool
}

// SessionUsecase resolves the effective identity and role of a request.
type SessionUsecase interface {
	// Resolve maps access-token claims to a session. Nil claims resolve to an
	// anonymous GUEST session. Claims whose store check is older than the
	// configured interval are revalidated against the user store: a deleted
	// user yields an anonymous session with SignedOut set, a present user
	// yields a reissued token with the current role. Store failures degrade to
	// an anonymous session rather than failing the request.
	Resolve(ctx context.Context, claims *service.AccessClaims) (*ResolveSessionOutput, error)
}
