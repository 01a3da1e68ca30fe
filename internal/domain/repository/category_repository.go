// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for category persistence.
var (
	// ErrCategoryNotFound is returned when a category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory is returned when a category slug already exists.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrCategoryInUse is returned when products still reference the category.
	ErrCategoryInUse = errors.New("category is referenced by products")
)

// CategoryRepository defines the standard operations for category persistence.
type CategoryRepository interface {
	// Create persists a new category. The store's unique index on slug
	// rejects duplicates with ErrDuplicateCategory.
	Create(ctx context.Context, category *entity.Category) error

	// List retrieves all categories, newest first.
	List(ctx context.Context) ([]*entity.Category, error)

	// FindBySlug retrieves a category by slug (case-insensitive), or ErrCategoryNotFound.
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)

	// Delete removes a category row. The store's foreign key rejects the
	// delete with ErrCategoryInUse while products still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}
