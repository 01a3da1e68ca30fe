// Package imagestore implements the external image host client. Image bytes
// are uploaded client-side; the server only ever deletes objects whose owning
// rows were removed.
package imagestore

import (
	"context"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"storefront/config"
	"storefront/internal/domain/service"
)

// minioStore is a service.ImageStore backed by an S3-compatible object store.
type minioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioStore builds the object-store client from configuration.
func NewMinioStore(cfg *config.Config, logger *slog.Logger) (service.ImageStore, error) {
	if cfg.ImageStore == nil || cfg.ImageStore.Endpoint == "" {
		// Without a configured store, deletions become logged no-ops. Useful
		// for local development and tests.
		logger.Warn("Image store not configured, external deletions disabled")

		return &noopStore{logger: logger}, nil
	}

	client, err := minio.New(cfg.ImageStore.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ImageStore.AccessKey, cfg.ImageStore.SecretKey, ""),
		Secure: cfg.ImageStore.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create image store client")
	}

	return &minioStore{
		client: client,
		bucket: cfg.ImageStore.Bucket,
		logger: logger,
	}, nil
}

// Delete removes one object by its public identifier.
func (m *minioStore) Delete(ctx context.Context, publicID string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "failed to remove object %q", publicID)
	}

	m.logger.Debug("External image deleted", slog.String("publicID", publicID), slog.String("bucket", m.bucket))

	return nil
}

// noopStore swallows deletions when no object store is configured.
type noopStore struct {
	logger *slog.Logger
}

func (n *noopStore) Delete(_ context.Context, publicID string) error {
	n.logger.Debug("Skipping external image deletion", slog.String("publicID", publicID))

	return nil
}
