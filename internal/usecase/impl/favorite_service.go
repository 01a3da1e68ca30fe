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

// favoriteService implements the FavoriteUsecase interface.
type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
	reviewRepo   repository.ReviewRepository
	publisher    service.EventPublisher
	logger       *slog.Logger
}

// FavoriteServiceParams holds dependencies for favoriteService, injected by Fx.
type FavoriteServiceParams struct {
	fx.In

	FavoriteRepo repository.FavoriteRepository
	ProductRepo  repository.ProductRepository
	ReviewRepo   repository.ReviewRepository
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(params FavoriteServiceParams) usecase.FavoriteUsecase {
	return &favoriteService{
		favoriteRepo: params.FavoriteRepo,
		productRepo:  params.ProductRepo,
		reviewRepo:   params.ReviewRepo,
		publisher:    params.Publisher,
		logger:       params.Logger,
	}
}

func (srv *favoriteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireUser enforces that the session belongs to an authenticated regular
// user. Favorites are a storefront feature; administrators manage the catalog
// and do not carry favorite lists.
func (srv *favoriteService) requireUser(sess *entity.Session) error {
	if !sess.IsAuthenticated() {
		return errors.Wrap(domainerrors.ErrUnauthorized, "favorites require a signed-in user")
	}
	if sess.Role != entity.RoleUser {
		return errors.Wrap(domainerrors.ErrForbidden, "favorites are limited to regular users")
	}

	return nil
}

// Toggle flips the favorite mark of a product. The insert is attempted first
// and the unique (user, product) constraint decides the race: the loser's
// duplicate insert converts into a removal, exactly as if the taps had
// arrived in sequence.
func (srv *favoriteService) Toggle(ctx context.Context, sess *entity.Session, productID uuid.UUID) (bool, error) {
	if err := srv.requireUser(sess); err != nil {
		return false, err
	}

	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, errors.Wrap(domainerrors.ErrProductNotFound, "favorited product not found")
		}
		srv.log(ctx).Error("Failed to load product for favorite toggle", slog.Any("productID", productID), slog.Any("error", err))

		return false, errors.Wrap(err, "failed to load product for favorite toggle")
	}

	favorite := &entity.Favorite{
		UserID:    sess.UserID,
		ProductID: productID,
	}

	err := srv.favoriteRepo.Create(ctx, favorite)
	if err == nil {
		srv.log(ctx).Debug("Product favorited", slog.Any("userID", sess.UserID), slog.Any("productID", productID))
		publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "favorite", "created", productID, "/favorites")

		return true, nil
	}

	if !errors.Is(err, repository.ErrDuplicateFavorite) {
		srv.log(ctx).Error("Failed to create favorite", slog.Any("userID", sess.UserID), slog.Any("productID", productID), slog.Any("error", err))

		return false, errors.Wrap(err, "failed to create favorite")
	}

	// The row already existed, so this toggle turns the favorite off.
	if err := srv.favoriteRepo.Delete(ctx, sess.UserID, productID); err != nil {
		// A concurrent toggle may have removed it already; the end state is
		// still "not favorited".
		if !errors.Is(err, repository.ErrFavoriteNotFound) {
			srv.log(ctx).Error("Failed to delete favorite", slog.Any("userID", sess.UserID), slog.Any("productID", productID), slog.Any("error", err))

			return false, errors.Wrap(err, "failed to delete favorite")
		}
	}

	srv.log(ctx).Debug("Product unfavorited", slog.Any("userID", sess.UserID), slog.Any("productID", productID))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "favorite", "deleted", productID, "/favorites")

	return false, nil
}

// Status reports whether the session's user has favorited the product.
// Guests and administrators simply read false.
func (srv *favoriteService) Status(ctx context.Context, sess *entity.Session, productID uuid.UUID) (bool, error) {
	if srv.requireUser(sess) != nil {
		return false, nil
	}

	favorited, err := srv.favoriteRepo.Exists(ctx, sess.UserID, productID)
	if err != nil {
		srv.log(ctx).Error("Failed to check favorite status", slog.Any("userID", sess.UserID), slog.Any("productID", productID), slog.Any("error", err))

		return false, errors.Wrap(err, "failed to check favorite status")
	}

	return favorited, nil
}

// List returns the session user's favorited products with rating aggregates.
func (srv *favoriteService) List(ctx context.Context, sess *entity.Session) ([]*usecase.ProductWithRating, error) {
	if err := srv.requireUser(sess); err != nil {
		return nil, err
	}

	products, err := srv.favoriteRepo.ListProductsByUser(ctx, sess.UserID)
	if err != nil {
		srv.log(ctx).Error("Failed to list favorites", slog.Any("userID", sess.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list favorites")
	}

	if len(products) == 0 {
		return []*usecase.ProductWithRating{}, nil
	}

	summaries, err := srv.reviewRepo.RatingSummaries(ctx, productIDs(products))
	if err != nil {
		srv.log(ctx).Error("Failed to compute rating summaries", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to compute rating summaries")
	}

	return attachRatings(products, summaries), nil
}
