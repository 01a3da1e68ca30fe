// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Every product references exactly one category.
type Category struct {
	ID        uuid.UUID // The unique identifier for the category.
	Name      string    // Display name.
	Slug      string    // URL-safe identifier derived from Name.
	CreatedAt time.Time
	UpdatedAt time.Time
}
