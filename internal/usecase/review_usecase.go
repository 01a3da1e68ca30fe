package usecase

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
)

// ReviewImageInput references an already-uploaded review photo.
type ReviewImageInput struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId" validate:"required"`
}

// CreateReviewInput defines the data required to post a review.
type CreateReviewInput struct {
	Rating  int                `json:"rating" validate:"required,min=1,max=5"`
	Comment string             `json:"comment" validate:"required"`
	Images  []ReviewImageInput `json:"images" validate:"omitempty,dive"`
}

// UpdateReviewInput defines the data for a review update. A nil Images slice
// keeps the stored image set; a non-nil slice replaces it wholesale.
type UpdateReviewInput struct {
	Rating  int                `json:"rating" validate:"required,min=1,max=5"`
	Comment string             `json:"comment" validate:"required"`
	Images  []ReviewImageInput `json:"images" validate:"omitempty,dive"`

	DeletedImagePublicIDs []string `json:"deletedImagePublicIds"`
}

// ReviewUsecase defines the operations on product reviews.
type ReviewUsecase interface {
	// Create posts a review under a product.
	Create(ctx context.Context, productID uuid.UUID, input *CreateReviewInput) (*entity.Review, error)

	// Update rewrites a review and optionally replaces its image set.
	Update(ctx context.Context, productID, reviewID uuid.UUID, input *UpdateReviewInput) (*entity.Review, error)

	// Delete removes a review and best-effort cleans up its external images.
	Delete(ctx context.Context, productID, reviewID uuid.UUID) error

	// DeleteImages removes all images of a review, locally and externally,
	// keeping the review itself.
	DeleteImages(ctx context.Context, productID, reviewID uuid.UUID) error
}
