package usecase

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
)

// CreateCategoryInput defines the data required to create a category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2"`
}

// CategoryWithProducts pairs a category with its published products.
type CategoryWithProducts struct {
	Category *entity.Category
	Products []*ProductWithRating
}

// CategoryUsecase defines the catalog operations on categories.
type CategoryUsecase interface {
	// Create stores a new category with a collision-free slug. Names are
	// unique case-insensitively.
	Create(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)

	// List returns all categories, newest first.
	List(ctx context.Context) ([]*entity.Category, error)

	// GetBySlugWithProducts returns a category and its published products, or
	// nil when no such category exists.
	GetBySlugWithProducts(ctx context.Context, slug string) (*CategoryWithProducts, error)

	// Delete removes a category. A category still referenced by products
	// cannot be deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}
