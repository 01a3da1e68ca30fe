package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
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

type categoryServiceFixtures struct {
	service      usecase.CategoryUsecase
	categoryRepo *mockRepo.MockCategoryRepository
	productRepo  *mockRepo.MockProductRepository
	reviewRepo   *mockRepo.MockReviewRepository
	publisher    *mockSvc.MockEventPublisher
}

func createTestCategoryService(t *testing.T) categoryServiceFixtures {
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewCategoryService(CategoryServiceParams{
		CategoryRepo: categoryRepo,
		ProductRepo:  productRepo,
		ReviewRepo:   reviewRepo,
		Publisher:    publisher,
		Logger:       newDiscardLogger(),
	})

	return categoryServiceFixtures{
		service:      svc,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		reviewRepo:   reviewRepo,
		publisher:    publisher,
	}
}

func TestCategoryService_Create_SlugFromName(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()

	fx.categoryRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Category")).
		Run(func(ctx context.Context, category *entity.Category) {
			category.ID = uuid.New()
		}).
		Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	category, err := fx.service.Create(ctx, &usecase.CreateCategoryInput{Name: "Home & Garden"})

	require.NoError(t, err)
	assert.Equal(t, "home-garden", category.Slug)
}

func TestCategoryService_Create_CaseInsensitiveDuplicate(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()

	// "SHOES" slugifies to the same value as an existing "shoes" and the
	// store's unique index rejects it.
	fx.categoryRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Category")).
		Return(repository.ErrDuplicateCategory)

	category, err := fx.service.Create(ctx, &usecase.CreateCategoryInput{Name: "SHOES"})

	require.Error(t, err)
	assert.Nil(t, category)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryAlreadyExists)
}

func TestCategoryService_GetBySlugWithProducts(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	category := &entity.Category{ID: uuid.New(), Name: "Shoes", Slug: "shoes"}
	product := &entity.Product{ID: uuid.New(), Name: "Runner", IsPublished: true}

	fx.categoryRepo.EXPECT().FindBySlug(ctx, "shoes").Return(category, nil)
	fx.productRepo.EXPECT().ListByCategorySlug(ctx, "shoes").Return([]*entity.Product{product}, nil)
	fx.reviewRepo.EXPECT().
		RatingSummaries(ctx, []uuid.UUID{product.ID}).
		Return([]*entity.RatingSummary{{ProductID: product.ID, Average: 3.5, Count: 4}}, nil)

	result, err := fx.service.GetBySlugWithProducts(ctx, "shoes")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, category, result.Category)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 4, result.Products[0].ReviewCount)
}

func TestCategoryService_GetBySlugWithProducts_AbsentIsNil(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	fx.categoryRepo.EXPECT().
		FindBySlug(ctx, "nope").
		Return(nil, repository.ErrCategoryNotFound)

	result, err := fx.service.GetBySlugWithProducts(ctx, "nope")

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCategoryService_Delete_StillReferencedIsConflict(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.categoryRepo.EXPECT().Delete(ctx, id).Return(repository.ErrCategoryInUse)

	err := fx.service.Delete(ctx, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryInUse)
}

func TestCategoryService_Delete_Absent(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.categoryRepo.EXPECT().Delete(ctx, id).Return(repository.ErrCategoryNotFound)

	err := fx.service.Delete(ctx, id)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}
