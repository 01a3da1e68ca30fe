package usecase

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
)

// ProductImageInput references an already-uploaded image in the external store.
type ProductImageInput struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId" validate:"required"`
}

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name          string              `json:"name" validate:"required,min=2"`
	Description   string              `json:"description" validate:"required"`
	Price         int64               `json:"price" validate:"required,gt=0"`
	DiscountPrice *int64              `json:"discountPrice" validate:"omitempty,gt=0"`
	CategoryID    uuid.UUID           `json:"categoryId" validate:"required"`
	Images        []ProductImageInput `json:"images" validate:"required,min=1,dive"`
}

// UpdateProductInput defines the data for a full product update. A nil Images
// slice keeps the stored image set; a non-nil slice replaces it wholesale.
type UpdateProductInput struct {
	Name          string              `json:"name" validate:"required,min=2"`
	Description   string              `json:"description" validate:"required"`
	Price         int64               `json:"price" validate:"required,gt=0"`
	DiscountPrice *int64              `json:"discountPrice" validate:"omitempty,gt=0"`
	CategoryID    uuid.UUID           `json:"categoryId" validate:"required"`
	Images        []ProductImageInput `json:"images" validate:"omitempty,min=1,dive"`

	// DeletedImagePublicIDs lists external-store objects the client removed
	// while editing. They are cleaned up best-effort after the update commits.
	DeletedImagePublicIDs []string `json:"deletedImagePublicIds"`
}

// ListProductsInput carries the paging, search and ordering parameters of a
// catalog listing.
type ListProductsInput struct {
	PublishedOnly bool
	Search        string
	Category      string
	Limit         int
	Offset        int
	OrderBy       string
	Descending    bool
}

// ProductWithRating pairs a product with its computed review aggregate.
type ProductWithRating struct {
	Product     *entity.Product
	AvgRating   float64
	ReviewCount int
}

// ProductUsecase defines the catalog read and write operations on products.
type ProductUsecase interface {
	// List returns products matching the query, each with its rating summary.
	List(ctx context.Context, input *ListProductsInput) ([]*ProductWithRating, error)

	// GetByID returns a product with ratings and loaded reviews, or nil when
	// no such product exists.
	GetByID(ctx context.Context, id uuid.UUID) (*ProductWithRating, error)

	// GetBySlug returns a product with ratings and loaded reviews, or nil when
	// no such product exists.
	GetBySlug(ctx context.Context, slug string) (*ProductWithRating, error)

	// Create stores a new unpublished product with a collision-free slug.
	Create(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// Update rewrites a product's fields, re-deriving the slug from the new
	// name, and optionally replaces its image set.
	Update(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)

	// SetPublished flips a product's storefront visibility.
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*entity.Product, error)

	// Delete removes a product and best-effort cleans up its external images,
	// including those of its reviews.
	Delete(ctx context.Context, id uuid.UUID) error
}
