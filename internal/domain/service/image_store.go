package service

import "context"

// ImageStore abstracts the external image host. Image bytes live there keyed
// by a public identifier; relational rows only hold the reference. Uploads
// happen client-side against the host directly, so the server's only concern
// is deleting objects whose owning rows go away.
type ImageStore interface {
	// Delete removes one object by its public identifier.
	Delete(ctx context.Context, publicID string) error
}
