// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. Slug is unique and derived from Name with a
// numeric-suffix probe on collision. The aggregate rating is never stored on
// the product; it is computed from reviews on every read.
type Product struct {
	ID            uuid.UUID       // The unique identifier for the product.
	Name          string          // Display name.
	Slug          string          // URL-safe unique identifier derived from Name.
	Description   string          // Long-form description.
	Price         int64           // Price in the store's smallest currency unit.
	DiscountPrice *int64          // Optional discounted price. Nil when no discount applies.
	IsPublished   bool            // Only published products appear in public listings.
	CategoryID    uuid.UUID       // Required reference to the owning category.
	Category      *Category       // The owning category, when loaded.
	Images        []*ProductImage // Ordered image set. Replaced wholesale on update.
	Reviews       []*Review       // Reviews, when loaded.
	CreatedAt     time.Time       // Timestamp of creation.
	UpdatedAt     time.Time       // Timestamp of the last modification.
}

// ProductImage references one image in the external store. Image identity is
// not stable across product edits: a full update deletes and recreates the set.
type ProductImage struct {
	ID        uuid.UUID // The unique identifier for this image row.
	ProductID uuid.UUID // The owning product.
	URL       string    // Public URL served by the external image host.
	PublicID  string    // External-store identifier used for deletion.
	Order     int       // Explicit position within the product's image set.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ImagePublicIDs collects the external identifiers of the product's own
// images plus every nested review image. It must be called BEFORE the local
// record is deleted, while the associations can still be enumerated.
func (p *Product) ImagePublicIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}
	for _, review := range p.Reviews {
		for _, img := range review.Images {
			if img.PublicID != "" {
				ids = append(ids, img.PublicID)
			}
		}
	}

	return ids
}
