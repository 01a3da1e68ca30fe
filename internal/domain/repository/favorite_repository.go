// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for favorite persistence.
var (
	// ErrFavoriteNotFound is returned when no favorite row exists for the pair.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrDuplicateFavorite is returned when the store's unique (user, product)
	// constraint rejects an insert. This is the losing side of a concurrent
	// toggle, not a programming error.
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

// FavoriteRepository defines the standard operations for favorite persistence.
type FavoriteRepository interface {
	// Create inserts a favorite row. The unique (user, product) index is the
	// real correctness guarantee; concurrent duplicates surface as
	// ErrDuplicateFavorite.
	Create(ctx context.Context, favorite *entity.Favorite) error

	// Delete removes the favorite row for the pair, or ErrFavoriteNotFound.
	Delete(ctx context.Context, userID, productID uuid.UUID) error

	// Exists reports whether the pair is currently favorited.
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// ListProductsByUser retrieves the favorited products of a user with
	// their detail graph, most recently favorited first.
	ListProductsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Product, error)
}
