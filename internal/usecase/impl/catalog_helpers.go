package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"
)

// slugExistsFunc reports whether a slug is already claimed by a row other
// than excludeID.
type slugExistsFunc func(ctx context.Context, candidate string, excludeID uuid.UUID) (bool, error)

// uniqueSlug derives a URL-safe slug from name and probes numeric suffixes
// (-1, -2, ...) until an unclaimed one is found. excludeID skips the row
// being updated so renaming back to the same name is a no-op; pass uuid.Nil
// on create.
func uniqueSlug(ctx context.Context, exists slugExistsFunc, name string, excludeID uuid.UUID) (string, error) {
	base := slug.Make(name)
	candidate := base

	for suffix := 1; ; suffix++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", errors.Wrap(err, "failed to probe slug")
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// attachRatings joins products with their grouped review aggregates.
// Products without a summary row report an average of 0.
func attachRatings(products []*entity.Product, summaries []*entity.RatingSummary) []*usecase.ProductWithRating {
	byProduct := make(map[uuid.UUID]*entity.RatingSummary, len(summaries))
	for _, summary := range summaries {
		byProduct[summary.ProductID] = summary
	}

	result := make([]*usecase.ProductWithRating, 0, len(products))
	for _, product := range products {
		item := &usecase.ProductWithRating{Product: product}
		if summary, ok := byProduct[product.ID]; ok {
			item.AvgRating = summary.Average
			item.ReviewCount = summary.Count
		}
		result = append(result, item)
	}

	return result
}

// productIDs collects the ids of a product slice for a grouped rating query.
func productIDs(products []*entity.Product) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}

	return ids
}

// cleanupExternalImages deletes external-store objects in parallel, one
// goroutine per object. Failures are logged and swallowed: the local rows are
// already gone and an orphaned object is preferable to a failed request.
func cleanupExternalImages(ctx context.Context, store service.ImageStore, logger *slog.Logger, publicIDs []string) {
	if len(publicIDs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, publicID := range publicIDs {
		wg.Add(1)
		go func(publicID string) {
			defer wg.Done()
			if err := store.Delete(ctx, publicID); err != nil {
				logger.Warn("Failed to delete external image", slog.String("publicID", publicID), slog.Any("error", err))
			}
		}(publicID)
	}
	wg.Wait()
}

// publishCatalogEvent emits a cache-revalidation event. Publishing is
// best-effort: failures are logged, never propagated.
func publishCatalogEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, entityName, action string, entityID uuid.UUID, paths ...string) {
	event := &service.CatalogEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Entity:    entityName,
		Action:    action,
		EntityID:  entityID.String(),
		Paths:     paths,
	}

	if err := publisher.PublishCatalogEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish catalog event",
			slog.String("entity", entityName),
			slog.String("action", action),
			slog.Any("error", err))
	}
}
