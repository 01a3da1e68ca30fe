package usecase

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
)

// FavoriteUsecase defines the per-user favorite operations.
type FavoriteUsecase interface {
	// Toggle flips the favorite mark of a product for the session's user and
	// returns the resulting state. Requires an authenticated USER session.
	Toggle(ctx context.Context, sess *entity.Session, productID uuid.UUID) (favorited bool, err error)

	// Status reports whether the session's user has favorited a product.
	// Non-USER sessions report false without error.
	Status(ctx context.Context, sess *entity.Session, productID uuid.UUID) (bool, error)

	// List returns the session user's favorited products with ratings.
	List(ctx context.Context, sess *entity.Session) ([]*ProductWithRating, error)
}
