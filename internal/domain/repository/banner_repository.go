// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrBannerNotFound is returned when a banner does not exist.
var ErrBannerNotFound = errors.New("banner not found")

// BannerRepository defines the standard operations for banner persistence.
type BannerRepository interface {
	// Create persists a new banner together with its image set.
	Create(ctx context.Context, banner *entity.Banner) error

	// List retrieves all banners with their images, newest first.
	List(ctx context.Context) ([]*entity.Banner, error)

	// FindByID retrieves a banner with its images, or ErrBannerNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Banner, error)

	// Update modifies the banner row. When replaceImages is true the entire
	// prior image set is deleted and recreated from banner.Images.
	Update(ctx context.Context, banner *entity.Banner, replaceImages bool) error

	// Delete removes the banner row; its images cascade locally.
	Delete(ctx context.Context, id uuid.UUID) error
}
