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

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	imageStore  service.ImageStore
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	ImageStore  service.ImageStore
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		productRepo: params.ProductRepo,
		reviewRepo:  params.ReviewRepo,
		imageStore:  params.ImageStore,
		publisher:   params.Publisher,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create posts a review under an existing product.
func (srv *reviewService) Create(ctx context.Context, productID uuid.UUID, input *usecase.CreateReviewInput) (*entity.Review, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "reviewed product not found")
		}
		srv.log(ctx).Error("Failed to load product for review", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load product for review")
	}

	review := &entity.Review{
		ProductID: productID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Images:    buildReviewImages(input.Images),
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		srv.log(ctx).Error("Failed to create review", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Info("Review created", slog.Any("reviewID", review.ID), slog.Any("productID", productID))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "review", "created", review.ID, "/products/"+product.Slug)

	return review, nil
}

// Update rewrites a review. A non-nil image list replaces the stored set.
func (srv *reviewService) Update(ctx context.Context, productID, reviewID uuid.UUID, input *usecase.UpdateReviewInput) (*entity.Review, error) {
	review, err := srv.findOwnedReview(ctx, productID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = input.Rating
	review.Comment = input.Comment

	replaceImages := input.Images != nil
	if replaceImages {
		review.Images = buildReviewImages(input.Images)
	}

	if err := srv.reviewRepo.Update(ctx, review, replaceImages); err != nil {
		srv.log(ctx).Error("Failed to update review", slog.Any("reviewID", reviewID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update review")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), input.DeletedImagePublicIDs)

	srv.log(ctx).Info("Review updated", slog.Any("reviewID", reviewID))
	srv.publishForProduct(ctx, "updated", productID, reviewID)

	return review, nil
}

// Delete removes a review and cleans up its external images. The identifiers
// are collected before the local delete.
func (srv *reviewService) Delete(ctx context.Context, productID, reviewID uuid.UUID) error {
	review, err := srv.findOwnedReview(ctx, productID, reviewID)
	if err != nil {
		return err
	}

	publicIDs := review.ImagePublicIDs()

	if err := srv.reviewRepo.Delete(ctx, reviewID); err != nil {
		srv.log(ctx).Error("Failed to delete review", slog.Any("reviewID", reviewID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete review")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), publicIDs)

	srv.log(ctx).Info("Review deleted", slog.Any("reviewID", reviewID), slog.Int("externalImages", len(publicIDs)))
	srv.publishForProduct(ctx, "deleted", productID, reviewID)

	return nil
}

// DeleteImages strips a review of all its images, locally and externally,
// keeping the review text and rating.
func (srv *reviewService) DeleteImages(ctx context.Context, productID, reviewID uuid.UUID) error {
	review, err := srv.findOwnedReview(ctx, productID, reviewID)
	if err != nil {
		return err
	}

	publicIDs := review.ImagePublicIDs()

	if err := srv.reviewRepo.DeleteImages(ctx, reviewID); err != nil {
		srv.log(ctx).Error("Failed to delete review images", slog.Any("reviewID", reviewID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete review images")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), publicIDs)

	srv.log(ctx).Info("Review images deleted", slog.Any("reviewID", reviewID), slog.Int("externalImages", len(publicIDs)))
	srv.publishForProduct(ctx, "updated", productID, reviewID)

	return nil
}

// findOwnedReview loads a review and verifies it belongs to the product named
// in the request path. A review reached through the wrong product is treated
// as absent.
func (srv *reviewService) findOwnedReview(ctx context.Context, productID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, errors.Wrap(domainerrors.ErrReviewNotFound, "review not found")
		}
		srv.log(ctx).Error("Failed to load review", slog.Any("reviewID", reviewID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load review")
	}

	if review.ProductID != productID {
		return nil, errors.Wrap(domainerrors.ErrReviewNotFound, "review does not belong to product")
	}

	return review, nil
}

func (srv *reviewService) publishForProduct(ctx context.Context, action string, productID, reviewID uuid.UUID) {
	paths := []string{"/products"}
	if product, err := srv.productRepo.FindByID(ctx, productID); err == nil {
		paths = append(paths, "/products/"+product.Slug)
	}
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "review", action, reviewID, paths...)
}

func buildReviewImages(inputs []usecase.ReviewImageInput) []*entity.ReviewImage {
	images := make([]*entity.ReviewImage, 0, len(inputs))
	for _, img := range inputs {
		images = append(images, &entity.ReviewImage{
			URL:      img.URL,
			PublicID: img.PublicID,
		})
	}

	return images
}
