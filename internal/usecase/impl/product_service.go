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

// productService implements the ProductUsecase interface.
type productService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	imageStore  service.ImageStore
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for productService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	ImageStore  service.ImageStore
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		reviewRepo:  params.ReviewRepo,
		imageStore:  params.ImageStore,
		publisher:   params.Publisher,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns products matching the query with their rating aggregates.
func (srv *productService) List(ctx context.Context, input *usecase.ListProductsInput) ([]*usecase.ProductWithRating, error) {
	query := repository.ListProductsQuery{
		PublishedOnly: input.PublishedOnly,
		Search:        input.Search,
		Category:      input.Category,
		Limit:         input.Limit,
		Offset:        input.Offset,
		OrderBy:       repository.ProductOrder(input.OrderBy),
		Ascending:     !input.Descending,
	}
	if query.OrderBy == "" {
		query.OrderBy = repository.ProductOrderCreatedAt
		query.Ascending = false
	}

	products, err := srv.productRepo.List(ctx, query)
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list products")
	}

	return srv.withRatings(ctx, products)
}

// GetByID returns one product with ratings, or nil when absent.
func (srv *productService) GetByID(ctx context.Context, id uuid.UUID) (*usecase.ProductWithRating, error) {
	return srv.getOne(ctx, func(ctx context.Context) (*entity.Product, error) {
		return srv.productRepo.FindByID(ctx, id)
	})
}

// GetBySlug returns one product with ratings, or nil when absent.
func (srv *productService) GetBySlug(ctx context.Context, slug string) (*usecase.ProductWithRating, error) {
	return srv.getOne(ctx, func(ctx context.Context) (*entity.Product, error) {
		return srv.productRepo.FindBySlug(ctx, slug)
	})
}

func (srv *productService) getOne(ctx context.Context, find func(context.Context) (*entity.Product, error)) (*usecase.ProductWithRating, error) {
	product, err := find(ctx)
	if err != nil {
		// Absence is an expected outcome of a detail read, not an error.
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		srv.log(ctx).Error("Failed to load product", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load product")
	}

	withRatings, err := srv.withRatings(ctx, []*entity.Product{product})
	if err != nil {
		return nil, err
	}

	return withRatings[0], nil
}

func (srv *productService) withRatings(ctx context.Context, products []*entity.Product) ([]*usecase.ProductWithRating, error) {
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

// Create stores a new unpublished product with a collision-free slug.
func (srv *productService) Create(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	if len(input.Images) == 0 {
		return nil, errors.Wrap(domainerrors.ErrProductImageRequired, "product creation requires at least one image")
	}

	var created *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		productSlug, slugErr := uniqueSlug(ctx, productRepo.SlugExists, input.Name, uuid.Nil)
		if slugErr != nil {
			return slugErr
		}

		product := &entity.Product{
			Name:          input.Name,
			Slug:          productSlug,
			Description:   input.Description,
			Price:         input.Price,
			DiscountPrice: input.DiscountPrice,
			CategoryID:    input.CategoryID,
			Images:        buildProductImages(input.Images),
		}

		if createErr := productRepo.Create(ctx, product); createErr != nil {
			return errors.Wrap(createErr, "failed to create product")
		}
		created = product

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute product creation transaction", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute product creation transaction")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", created.ID), slog.String("slug", created.Slug))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "product", "created", created.ID, "/", "/products")

	return created, nil
}

// Update rewrites a product. The slug is re-derived from the new name, and a
// non-nil image list replaces the stored set wholesale. Objects the client
// removed while editing are cleaned up after the transaction commits.
func (srv *productService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		existing, findErr := productRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product to update not found")
			}

			return errors.Wrap(findErr, "failed to load product for update")
		}

		productSlug, slugErr := uniqueSlug(ctx, productRepo.SlugExists, input.Name, id)
		if slugErr != nil {
			return slugErr
		}

		existing.Name = input.Name
		existing.Slug = productSlug
		existing.Description = input.Description
		existing.Price = input.Price
		existing.DiscountPrice = input.DiscountPrice
		existing.CategoryID = input.CategoryID

		replaceImages := input.Images != nil
		if replaceImages {
			existing.Images = buildProductImages(input.Images)
		}

		if updateErr := productRepo.Update(ctx, existing, replaceImages); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update product")
		}
		updated = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute product update transaction", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute product update transaction")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), input.DeletedImagePublicIDs)

	srv.log(ctx).Info("Product updated", slog.Any("productID", updated.ID), slog.String("slug", updated.Slug))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "product", "updated", updated.ID, "/", "/products", "/products/"+updated.Slug)

	return updated, nil
}

// SetPublished flips a product's storefront visibility.
func (srv *productService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*entity.Product, error) {
	product, err := srv.productRepo.SetPublished(ctx, id, published)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product to publish not found")
		}
		srv.log(ctx).Error("Failed to set publish state", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to set publish state")
	}

	srv.log(ctx).Info("Product publish state changed", slog.Any("productID", id), slog.Bool("published", published))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "product", "updated", id, "/", "/products", "/products/"+product.Slug)

	return product, nil
}

// Delete removes a product and cleans up its external images, its reviews'
// images included. The identifiers are collected before the local delete,
// while the associations can still be read.
func (srv *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product to delete not found")
		}
		srv.log(ctx).Error("Failed to load product for deletion", slog.Any("productID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to load product for deletion")
	}

	publicIDs := product.ImagePublicIDs()

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete product", slog.Any("productID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete product")
	}

	cleanupExternalImages(ctx, srv.imageStore, srv.log(ctx), publicIDs)

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id), slog.Int("externalImages", len(publicIDs)))
	publishCatalogEvent(ctx, srv.publisher, srv.log(ctx), "product", "deleted", id, "/", "/products")

	return nil
}

// buildProductImages maps image inputs to rows, assigning positions by input
// order starting at zero.
func buildProductImages(inputs []usecase.ProductImageInput) []*entity.ProductImage {
	images := make([]*entity.ProductImage, 0, len(inputs))
	for i, img := range inputs {
		images = append(images, &entity.ProductImage{
			URL:      img.URL,
			PublicID: img.PublicID,
			Order:    i,
		})
	}

	return images
}
