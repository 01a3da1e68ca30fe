// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Banner is a homepage carousel entry. Its image set follows the same
// delete-all-then-recreate update pattern as product images.
type Banner struct {
	ID          uuid.UUID      // The unique identifier for the banner.
	Description string         // Carousel caption.
	Images      []*BannerImage // Attached images.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BannerImage references one banner image in the external store.
type BannerImage struct {
	ID        uuid.UUID // The unique identifier for this image row.
	BannerID  uuid.UUID // The owning banner.
	URL       string    // Public URL served by the external image host.
	PublicID  string    // External-store identifier used for deletion.
	AltText   string    // Optional alternative text.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImagePublicIDs collects the external identifiers of the banner's images.
func (b *Banner) ImagePublicIDs() []string {
	ids := make([]string, 0, len(b.Images))
	for _, img := range b.Images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}

	return ids
}
