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

type reviewServiceFixtures struct {
	service     usecase.ReviewUsecase
	productRepo *mockRepo.MockProductRepository
	reviewRepo  *mockRepo.MockReviewRepository
	imageStore  *mockSvc.MockImageStore
	publisher   *mockSvc.MockEventPublisher
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	imageStore := mockSvc.NewMockImageStore(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewReviewService(ReviewServiceParams{
		ProductRepo: productRepo,
		ReviewRepo:  reviewRepo,
		ImageStore:  imageStore,
		Publisher:   publisher,
		Logger:      newDiscardLogger(),
	})

	return reviewServiceFixtures{
		service:     svc,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		imageStore:  imageStore,
		publisher:   publisher,
	}
}

func TestReviewService_Create_Success(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID, Slug: "reviewed"}, nil)
	fx.reviewRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Review")).
		Run(func(ctx context.Context, review *entity.Review) {
			review.ID = uuid.New()
		}).
		Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	review, err := fx.service.Create(ctx, productID, &usecase.CreateReviewInput{
		Rating:  5,
		Comment: "great",
		Images:  []usecase.ReviewImageInput{{URL: "https://img.example.com/r.jpg", PublicID: "img/r"}},
	})

	require.NoError(t, err)
	assert.Equal(t, productID, review.ProductID)
	require.Len(t, review.Images, 1)
}

func TestReviewService_Create_AbsentProduct(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	review, err := fx.service.Create(ctx, productID, &usecase.CreateReviewInput{Rating: 4, Comment: "x"})

	require.Error(t, err)
	assert.Nil(t, review)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestReviewService_Update_WrongProduct(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	reviewID := uuid.New()

	fx.reviewRepo.EXPECT().
		FindByID(ctx, reviewID).
		Return(&entity.Review{ID: reviewID, ProductID: uuid.New()}, nil)

	review, err := fx.service.Update(ctx, uuid.New(), reviewID, &usecase.UpdateReviewInput{Rating: 1, Comment: "y"})

	// A review reached through the wrong product reads as absent.
	require.Error(t, err)
	assert.Nil(t, review)
	assert.ErrorIs(t, err, domainerrors.ErrReviewNotFound)
}

func TestReviewService_Delete_CleansUpImages(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()
	reviewID := uuid.New()
	review := &entity.Review{
		ID:        reviewID,
		ProductID: productID,
		Images: []*entity.ReviewImage{
			{PublicID: "img/r1"},
			{PublicID: "img/r2"},
		},
	}

	fx.reviewRepo.EXPECT().FindByID(ctx, reviewID).Return(review, nil)
	fx.reviewRepo.EXPECT().Delete(ctx, reviewID).Return(nil)
	fx.imageStore.EXPECT().Delete(ctx, "img/r1").Return(nil)
	fx.imageStore.EXPECT().Delete(ctx, "img/r2").Return(nil)
	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID, Slug: "reviewed"}, nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	err := fx.service.Delete(ctx, productID, reviewID)

	require.NoError(t, err)
}

func TestReviewService_DeleteImages_KeepsReview(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()
	reviewID := uuid.New()
	review := &entity.Review{
		ID:        reviewID,
		ProductID: productID,
		Rating:    4,
		Images:    []*entity.ReviewImage{{PublicID: "img/only"}},
	}

	fx.reviewRepo.EXPECT().FindByID(ctx, reviewID).Return(review, nil)
	fx.reviewRepo.EXPECT().DeleteImages(ctx, reviewID).Return(nil)
	fx.imageStore.EXPECT().Delete(ctx, "img/only").Return(nil)
	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID, Slug: "reviewed"}, nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	err := fx.service.DeleteImages(ctx, productID, reviewID)

	require.NoError(t, err)
}
