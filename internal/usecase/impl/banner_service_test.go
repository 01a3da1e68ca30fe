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

type bannerServiceFixtures struct {
	service    usecase.BannerUsecase
	bannerRepo *mockRepo.MockBannerRepository
	imageStore *mockSvc.MockImageStore
	publisher  *mockSvc.MockEventPublisher
}

func createTestBannerService(t *testing.T) bannerServiceFixtures {
	bannerRepo := mockRepo.NewMockBannerRepository(t)
	imageStore := mockSvc.NewMockImageStore(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewBannerService(BannerServiceParams{
		BannerRepo: bannerRepo,
		ImageStore: imageStore,
		Publisher:  publisher,
		Logger:     newDiscardLogger(),
	})

	return bannerServiceFixtures{
		service:    svc,
		bannerRepo: bannerRepo,
		imageStore: imageStore,
		publisher:  publisher,
	}
}

func TestBannerService_Create(t *testing.T) {
	fx := createTestBannerService(t)

	ctx := context.Background()

	fx.bannerRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Banner")).
		Run(func(ctx context.Context, banner *entity.Banner) {
			banner.ID = uuid.New()
		}).
		Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	banner, err := fx.service.Create(ctx, &usecase.CreateBannerInput{
		Description: "Summer sale",
		Images: []usecase.BannerImageInput{
			{URL: "https://img.example.com/sale.jpg", PublicID: "banners/sale", AltText: "Sale"},
		},
	})

	require.NoError(t, err)
	require.Len(t, banner.Images, 1)
	assert.Equal(t, "banners/sale", banner.Images[0].PublicID)
}

func TestBannerService_Update_NilImagesKeepsStoredSet(t *testing.T) {
	fx := createTestBannerService(t)

	ctx := context.Background()
	id := uuid.New()
	stored := &entity.Banner{
		ID:          id,
		Description: "Old",
		Images:      []*entity.BannerImage{{URL: "https://img.example.com/a.jpg", PublicID: "banners/a"}},
	}

	fx.bannerRepo.EXPECT().FindByID(ctx, id).Return(stored, nil)
	fx.bannerRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Banner"), false).
		Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	banner, err := fx.service.Update(ctx, id, &usecase.UpdateBannerInput{Description: "New"})

	require.NoError(t, err)
	assert.Equal(t, "New", banner.Description)
	require.Len(t, banner.Images, 1)
	assert.Equal(t, "banners/a", banner.Images[0].PublicID)
}

func TestBannerService_Update_Absent(t *testing.T) {
	fx := createTestBannerService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.bannerRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrBannerNotFound)

	banner, err := fx.service.Update(ctx, id, &usecase.UpdateBannerInput{Description: "New"})

	require.Error(t, err)
	assert.Nil(t, banner)
	assert.ErrorIs(t, err, domainerrors.ErrBannerNotFound)
}

func TestBannerService_Delete_CleansExternalImages(t *testing.T) {
	fx := createTestBannerService(t)

	ctx := context.Background()
	id := uuid.New()
	stored := &entity.Banner{
		ID: id,
		Images: []*entity.BannerImage{
			{URL: "https://img.example.com/a.jpg", PublicID: "banners/a"},
			{URL: "https://img.example.com/b.jpg", PublicID: "banners/b"},
		},
	}

	fx.bannerRepo.EXPECT().FindByID(ctx, id).Return(stored, nil)
	fx.bannerRepo.EXPECT().Delete(ctx, id).Return(nil)
	fx.imageStore.EXPECT().Delete(mock.Anything, "banners/a").Return(nil)
	fx.imageStore.EXPECT().Delete(mock.Anything, "banners/b").Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	err := fx.service.Delete(ctx, id)

	require.NoError(t, err)
}

func TestBannerService_Delete_ImageCleanupFailureIsSwallowed(t *testing.T) {
	fx := createTestBannerService(t)

	ctx := context.Background()
	id := uuid.New()
	stored := &entity.Banner{
		ID:     id,
		Images: []*entity.BannerImage{{URL: "https://img.example.com/a.jpg", PublicID: "banners/a"}},
	}

	fx.bannerRepo.EXPECT().FindByID(ctx, id).Return(stored, nil)
	fx.bannerRepo.EXPECT().Delete(ctx, id).Return(nil)
	fx.imageStore.EXPECT().
		Delete(mock.Anything, "banners/a").
		Return(assert.AnError)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	err := fx.service.Delete(ctx, id)

	require.NoError(t, err)
}
