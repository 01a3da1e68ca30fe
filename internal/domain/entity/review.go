// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review belongs to exactly one product. Rating is constrained to 1..5.
type Review struct {
	ID        uuid.UUID      // The unique identifier for the review.
	ProductID uuid.UUID      // The reviewed product.
	Rating    int            // Star rating, 1 to 5.
	Comment   string         // Free-text comment.
	Images    []*ReviewImage // Attached images. Replaced wholesale on update.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewImage references one review image in the external store.
type ReviewImage struct {
	ID        uuid.UUID // The unique identifier for this image row.
	ReviewID  uuid.UUID // The owning review.
	URL       string    // Public URL served by the external image host.
	PublicID  string    // External-store identifier used for deletion.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImagePublicIDs collects the external identifiers of the review's images.
func (r *Review) ImagePublicIDs() []string {
	ids := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}

	return ids
}

// RatingSummary is the grouped aggregate of a product's reviews.
// Products with zero reviews have no summary row; readers report average 0.
type RatingSummary struct {
	ProductID uuid.UUID // The product the summary belongs to.
	Average   float64   // Arithmetic mean of all review ratings.
	Count     int       // Number of reviews contributing to the average.
}
