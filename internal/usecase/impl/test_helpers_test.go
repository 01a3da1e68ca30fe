package impl

import (
	"io"
	"log/slog"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var mockOAuthUser = service.OAuthUser{
	ID:            "google-sub-123",
	Email:         "google@example.com",
	Name:          "Google User",
	Provider:      entity.ProviderTypeGoogle,
	EmailVerified: true,
}
