// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review together with its image set.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a review with its images, or ErrReviewNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// Update modifies the review row. When replaceImages is true the entire
	// prior image set is deleted and recreated from review.Images.
	Update(ctx context.Context, review *entity.Review, replaceImages bool) error

	// Delete removes the review row; its images cascade locally.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteImages removes every image row of a review without touching the review itself.
	DeleteImages(ctx context.Context, reviewID uuid.UUID) error

	// RatingSummaries computes the average rating and review count grouped by
	// product for the given product ids. Products without reviews yield no row.
	RatingSummaries(ctx context.Context, productIDs []uuid.UUID) ([]*entity.RatingSummary, error)
}
