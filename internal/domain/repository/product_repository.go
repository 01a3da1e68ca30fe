// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductOrder enumerates the sortable columns of a product listing.
type ProductOrder string

const (
	// ProductOrderCreatedAt sorts by creation time.
	ProductOrderCreatedAt ProductOrder = "createdAt"
	// ProductOrderPrice sorts by price.
	ProductOrderPrice ProductOrder = "price"
	// ProductOrderName sorts by name.
	ProductOrderName ProductOrder = "name"
)

// ListProductsQuery captures the filters of a product listing read.
type ListProductsQuery struct {
	// PublishedOnly restricts the listing to published products.
	PublishedOnly bool
	// Search is an optional case-insensitive substring match over name and description.
	Search string
	// Category is an optional case-insensitive exact match on category name or slug.
	Category string
	// Limit and Offset paginate the result. Zero Limit means no limit.
	Limit  int
	Offset int
	// OrderBy selects the sort column; empty defaults to creation time.
	OrderBy ProductOrder
	// Ascending flips the default descending sort direction.
	Ascending bool
}

// ProductRepository defines the standard operations for product persistence.
// Finders load the full detail graph: ordered images, category, and reviews
// with their images.
type ProductRepository interface {
	// Create persists a new product together with its ordered image set as a single creation.
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a product by ID, or ErrProductNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindBySlug retrieves a product by slug, or ErrProductNotFound.
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)

	// List retrieves products matching the query.
	List(ctx context.Context, query ListProductsQuery) ([]*entity.Product, error)

	// ListByCategorySlug retrieves published products whose category slug
	// matches case-insensitively.
	ListByCategorySlug(ctx context.Context, slug string) ([]*entity.Product, error)

	// SlugExists reports whether another product already claims the slug.
	// excludeID skips the product's own row during updates; pass uuid.Nil on create.
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// Update modifies the product row. When replaceImages is true the entire
	// prior image set is deleted and recreated from product.Images.
	Update(ctx context.Context, product *entity.Product, replaceImages bool) error

	// SetPublished flips the publish flag and returns the updated product.
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*entity.Product, error)

	// Delete removes the product row; images and reviews cascade locally.
	Delete(ctx context.Context, id uuid.UUID) error
}
