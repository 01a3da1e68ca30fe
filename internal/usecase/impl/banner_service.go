package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"
)

// bannerService implements the BannerUsecase interface.
type bannerService struct {
	bannerRepo repository.BannerRepository
	imageStore service.ImageStore
	publisher  service.EventPublisher
	logger     *slog.Logger
}

// BannerServiceParams holds dependencies for bannerService, injected by Fx.
type BannerServiceParams struct {
	fx.In

	BannerRepo repository.BannerRepository
	ImageStore service.ImageStore
	Publisher  service.EventPublisher
	Logger     *slog.Logger
}

// NewBannerService is the constructor for bannerService.
func NewBannerService(params BannerServiceParams) usecase.BannerUsecase {
	return &bannerService{
		bannerRepo: params.BannerRepo,
		imageStore: params.ImageStore,
		publisher:  params.Publisher,
		logger:     params.Logger,
	}
}

func (srv *bannerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns all banners, newest first.
func (srv *bannerService) List(ctx context.Context) ([]*entity.Banner, error) {
	banners, err := srv.bannerRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list banners", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list banners")
	}

	return banners, nil
}

// Create stores a new banner with its image set.
func (srv *bannerService) Create(ctx context.Context, input *usecase.CreateBannerInput) (*entity.Banner, error) {
	banner := &entity.Banner{
		Description: input.Description,
		Images:      buildBannerImages(input.Images),
	}

	if err := srv.bannerRepo.Create(ctx, banner); err != nil {
		srv.log(ctx).Error("Failed to create banner", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create banner")
	}

	srv.log(ctx).Info("Banner created", slog.Any("bannerID", banner.ID))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "banner", "created", banner.ID, "/")

	return banner, nil
}

// Update rewrites a banner. A non-nil image list replaces the stored set.
func (srv *bannerService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateBannerInput) (*entity.Banner, error) {
	banner, err := srv.bannerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBannerNotFound) {
			return nil, errors.Wrap(domainerrors.ErrBannerNotFound, "banner to update not found")
		}
		srv.log(ctx).Error("Failed to load banner", slog.Any("bannerID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load banner")
	}

	banner.Description = input.Description

	replaceImages := input.Images != nil
	if replaceImages {
		banner.Images = buildBannerImages(input.Images)
	}

	if err := srv.bannerRepo.Update(ctx, banner, replaceImages); err != nil {
		srv.log(ctx).Error("Failed to update banner", slog.Any("bannerID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update banner")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), input.DeletedImagePublicIDs)

	srv.log(ctx).Info("Banner updated", slog.Any("bannerID", id))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "banner", "updated", id, "/")

	return banner, nil
}

// Delete removes a banner and cleans up its external images. The identifiers
// are collected before the local delete.
func (srv *bannerService) Delete(ctx context.Context, id uuid.UUID) error {
	banner, err := srv.bannerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBannerNotFound) {
			return errors.Wrap(domainerrors.ErrBannerNotFound, "banner to delete not found")
		}
		srv.log(ctx).Error("Failed to load banner for deletion", slog.Any("bannerID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to load banner for deletion")
	}

	publicIDs := banner.ImagePublicIDs()

	if err := srv.bannerRepo.Delete(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete banner", slog.Any("bannerID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete banner")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), publicIDs)

	srv.log(ctx).Info("Banner deleted", slog.Any("bannerID", id), slog.Int("externalImages", len(publicIDs)))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "banner", "deleted", id, "/")

	return nil
}

func buildBannerImages(inputs []usecase.BannerImageInput) []*entity.BannerImage {
	images := make([]*entity.BannerImage, 0, len(inputs))
	for _, img := range inputs {
		images = append(images, &entity.BannerImage{
			URL:      img.URL,
			PublicID: img.PublicID,
			AltText:  img.AltText,
		})
	}

	return images
}
