// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is the join between a user and a product. Existence means
// "favorited"; rows are created and destroyed by toggle, never updated.
// The (UserID, ProductID) pair carries a unique constraint at the store
// level, which is the real guard against concurrent duplicate toggles.
type Favorite struct {
	ID        uuid.UUID // The unique identifier for the favorite row.
	UserID    uuid.UUID // The user who favorited the product.
	ProductID uuid.UUID // The favorited product.
	CreatedAt time.Time
}
