package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"
)

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	reviewRepo   repository.ReviewRepository
	publisher    service.EventPublisher
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for categoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	ReviewRepo   repository.ReviewRepository
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		reviewRepo:   params.ReviewRepo,
		publisher:    params.Publisher,
		logger:       params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create stores a new category. Uniqueness is case-insensitive: "Shoes" and
// "shoes" slugify to the same value and the second insert is rejected by the
// store's unique index.
func (srv *categoryService) Create(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	category := &entity.Category{
		Name: input.Name,
		Slug: slug.Make(input.Name),
	}

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateCategory) {
			return nil, errors.Wrap(domainerrors.ErrCategoryAlreadyExists, "category name already taken")
		}
		srv.log(ctx).Error("Failed to create category", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create category")
	}

	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("slug", category.Slug))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "category", "created", category.ID, "/", "/categories")

	return category, nil
}

// List returns all categories.
func (srv *categoryService) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list categories", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// GetBySlugWithProducts returns a category and its published products with
// ratings, or nil when no such category exists.
func (srv *categoryService) GetBySlugWithProducts(ctx context.Context, categorySlug string) (*usecase.CategoryWithProducts, error) {
	category, err := srv.categoryRepo.FindBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, nil
		}
		srv.log(ctx).Error("Failed to load category", slog.String("slug", categorySlug), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load category")
	}

	products, err := srv.productRepo.ListByCategorySlug(ctx, categorySlug)
	if err != nil {
		srv.log(ctx).Error("Failed to list category products", slog.String("slug", categorySlug), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list category products")
	}

	withRatings := []*usecase.ProductWithRating{}
	if len(products) > 0 {
		summaries, sumErr := srv.reviewRepo.RatingSummaries(ctx, productIDs(products))
		if sumErr != nil {
			srv.log(ctx).Error("Failed to compute rating summaries", slog.Any("error", sumErr))

			return nil, errors.Wrap(sumErr, "failed to compute rating summaries")
		}
		withRatings = attachRatings(products, summaries)
	}

	return &usecase.CategoryWithProducts{
		Category: category,
		Products: withRatings,
	}, nil
}

// Delete removes a category. A category still referenced by products is
// rejected with a conflict; callers must move or delete those products first.
func (srv *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := srv.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return errors.Wrap(domainerrors.ErrCategoryNotFound, "category to delete not found")
		}
		if errors.Is(err, repository.ErrCategoryInUse) {
			return errors.Wrap(domainerrors.ErrCategoryInUse, "category still referenced by products")
		}
		srv.log(ctx).Error("Failed to delete category", slog.Any("categoryID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete category")
	}

	srv.log(ctx).Info("Category deleted", slog.Any("categoryID", id))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "category", "deleted", id, "/", "/categories")

	return nil
}
