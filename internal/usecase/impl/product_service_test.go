package impl

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"
)

type productServiceFixtures struct {
	service     usecase.ProductUsecase
	txManager   *mockRepo.MockTransactionManager
	productRepo *mockRepo.MockProductRepository
	reviewRepo  *mockRepo.MockReviewRepository
	imageStore  *mockSvc.MockImageStore
	publisher   *mockSvc.MockEventPublisher
}

func createTestProductService(t *testing.T) productServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	imageStore := mockSvc.NewMockImageStore(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewProductService(ProductServiceParams{
		TxManager:   txManager,
		ProductRepo: productRepo,
		ReviewRepo:  reviewRepo,
		ImageStore:  imageStore,
		Publisher:   publisher,
		Logger:      newDiscardLogger(),
	})

	return productServiceFixtures{
		service:     svc,
		txManager:   txManager,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		imageStore:  imageStore,
		publisher:   publisher,
	}
}

func TestProductService_Create_SlugCollisionProbed(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	input := &usecase.CreateProductInput{
		Name:        "Red Shirt",
		Description: "A very red shirt",
		Price:       1999,
		CategoryID:  uuid.New(),
		Images: []usecase.ProductImageInput{
			{URL: "https://img.example.com/a.jpg", PublicID: "img/a"},
			{URL: "https://img.example.com/b.jpg", PublicID: "img/b"},
		},
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			// "red-shirt" and "red-shirt-1" are taken; the probe lands on -2.
			mockProductRepo.EXPECT().SlugExists(ctx, "red-shirt", uuid.Nil).Return(true, nil)
			mockProductRepo.EXPECT().SlugExists(ctx, "red-shirt-1", uuid.Nil).Return(true, nil)
			mockProductRepo.EXPECT().SlugExists(ctx, "red-shirt-2", uuid.Nil).Return(false, nil)

			mockProductRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Product")).
				Run(func(ctx context.Context, product *entity.Product) {
					product.ID = uuid.New()
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	product, err := fx.service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "red-shirt-2", product.Slug)
	assert.False(t, product.IsPublished)
	require.Len(t, product.Images, 2)
	assert.Equal(t, 0, product.Images[0].Order)
	assert.Equal(t, 1, product.Images[1].Order)
}

func TestProductService_Create_RequiresImage(t *testing.T) {
	fx := createTestProductService(t)

	input := &usecase.CreateProductInput{
		Name:        "Imageless",
		Description: "no pictures",
		Price:       500,
		CategoryID:  uuid.New(),
	}

	product, err := fx.service.Create(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductImageRequired)
}

func TestProductService_GetBySlug_AbsentIsNil(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	fx.productRepo.EXPECT().
		FindBySlug(ctx, "no-such-product").
		Return(nil, repository.ErrProductNotFound)

	result, err := fx.service.GetBySlug(ctx, "no-such-product")

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestProductService_List_AttachesRatings(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	rated := &entity.Product{ID: uuid.New(), Name: "Rated"}
	unrated := &entity.Product{ID: uuid.New(), Name: "Unrated"}

	fx.productRepo.EXPECT().
		List(ctx, mock.AnythingOfType("repository.ListProductsQuery")).
		Return([]*entity.Product{rated, unrated}, nil)
	fx.reviewRepo.EXPECT().
		RatingSummaries(ctx, []uuid.UUID{rated.ID, unrated.ID}).
		Return([]*entity.RatingSummary{
			{ProductID: rated.ID, Average: 4.5, Count: 2},
		}, nil)

	result, err := fx.service.List(ctx, &usecase.ListProductsInput{PublishedOnly: true})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.InDelta(t, 4.5, result[0].AvgRating, 1e-9)
	assert.Equal(t, 2, result[0].ReviewCount)
	// No summary row means zero, never an error.
	assert.Zero(t, result[1].AvgRating)
	assert.Zero(t, result[1].ReviewCount)
}

func TestProductService_Update_KeepsImagesWhenNil(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	existing := &entity.Product{
		ID:     productID,
		Name:   "Old Name",
		Slug:   "old-name",
		Images: []*entity.ProductImage{{PublicID: "img/keep"}},
	}
	input := &usecase.UpdateProductInput{
		Name:        "New Name",
		Description: "updated",
		Price:       2999,
		CategoryID:  uuid.New(),
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockProductRepo.EXPECT().FindByID(ctx, productID).Return(existing, nil)
			mockProductRepo.EXPECT().SlugExists(ctx, "new-name", productID).Return(false, nil)
			mockProductRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Product"), false).
				Return(nil)

			return fn(mockFactory)
		})

	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	updated, err := fx.service.Update(ctx, productID, input)

	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "img/keep", updated.Images[0].PublicID)
}

func TestProductService_Delete_CleansUpAllExternalImages(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	product := &entity.Product{
		ID:   productID,
		Slug: "doomed",
		Images: []*entity.ProductImage{
			{PublicID: "img/p1"},
			{PublicID: "img/p2"},
		},
		Reviews: []*entity.Review{
			{Images: []*entity.ReviewImage{{PublicID: "img/r1"}}},
		},
	}

	fx.productRepo.EXPECT().FindByID(ctx, productID).Return(product, nil)
	fx.productRepo.EXPECT().Delete(ctx, productID).Return(nil)

	var mu sync.Mutex
	deleted := map[string]int{}
	fx.imageStore.EXPECT().
		Delete(ctx, mock.AnythingOfType("string")).
		RunAndReturn(func(ctx context.Context, publicID string) error {
			mu.Lock()
			deleted[publicID]++
			mu.Unlock()
			if publicID == "img/p2" {
				return errors.New("object store unavailable")
			}
			return nil
		})

	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	err := fx.service.Delete(ctx, productID)

	// One external failure must not fail the delete.
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"img/p1": 1, "img/p2": 1, "img/r1": 1}, deleted)
}

func TestProductService_Delete_AbsentProduct(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	err := fx.service.Delete(ctx, productID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}
