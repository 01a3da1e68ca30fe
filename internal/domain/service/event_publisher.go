package service

import (
	"context"
)

// CatalogEvent signals that a catalog entity changed and any cached render of
// the listed paths should be revalidated. Best-effort: publishing failures
// never fail the mutation that produced the event.
type CatalogEvent struct {
	RequestID string   `json:"request_id,omitempty"` // For distributed tracing
	Entity    string   `json:"entity"`               // "product", "category", "review", "banner", "favorite"
	Action    string   `json:"action"`               // "created", "updated", "deleted"
	EntityID  string   `json:"entity_id"`
	Paths     []string `json:"paths,omitempty"` // Frontend paths whose caches are stale
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishCatalogEvent publishes a catalog change event for async processing
	PublishCatalogEvent(ctx context.Context, event *CatalogEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
