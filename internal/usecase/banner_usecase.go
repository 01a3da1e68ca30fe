package usecase

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/entity"
)

// BannerImageInput references an already-uploaded banner asset.
type BannerImageInput struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId" validate:"required"`
	AltText  string `json:"altText"`
}

// CreateBannerInput defines the data required to create a promotional banner.
type CreateBannerInput struct {
	Description string             `json:"description" validate:"required"`
	Images      []BannerImageInput `json:"images" validate:"required,min=1,dive"`
}

// UpdateBannerInput defines the data for a banner update. A nil Images slice
// keeps the stored image set; a non-nil slice replaces it wholesale.
type UpdateBannerInput struct {
	Description string             `json:"description" validate:"required"`
	Images      []BannerImageInput `json:"images" validate:"omitempty,min=1,dive"`

	DeletedImagePublicIDs []string `json:"deletedImagePublicIds"`
}

// BannerUsecase defines the operations on promotional banners.
type BannerUsecase interface {
	// List returns all banners, newest first.
	List(ctx context.Context) ([]*entity.Banner, error)

	// Create stores a new banner.
	Create(ctx context.Context, input *CreateBannerInput) (*entity.Banner, error)

	// Update rewrites a banner and optionally replaces its image set.
	Update(ctx context.Context, id uuid.UUID, input *UpdateBannerInput) (*entity.Banner, error)

	// Delete removes a banner and best-effort cleans up its external images.
	Delete(ctx context.Context, id uuid.UUID) error
}
