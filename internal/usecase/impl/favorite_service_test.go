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

type favoriteServiceFixtures struct {
	service      usecase.FavoriteUsecase
	favoriteRepo *mockRepo.MockFavoriteRepository
	productRepo  *mockRepo.MockProductRepository
	reviewRepo   *mockRepo.MockReviewRepository
	publisher    *mockSvc.MockEventPublisher
}

func createTestFavoriteService(t *testing.T) favoriteServiceFixtures {
	favoriteRepo := mockRepo.NewMockFavoriteRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewFavoriteService(FavoriteServiceParams{
		FavoriteRepo: favoriteRepo,
		ProductRepo:  productRepo,
		ReviewRepo:   reviewRepo,
		Publisher:    publisher,
		Logger:       newDiscardLogger(),
	})

	return favoriteServiceFixtures{
		service:      svc,
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
		reviewRepo:   reviewRepo,
		publisher:    publisher,
	}
}

func userSession() *entity.Session {
	return &entity.Session{UserID: uuid.New(), Role: entity.RoleUser}
}

func TestFavoriteService_Toggle_On(t *testing.T) {
	fx := createTestFavoriteService(t)

	ctx := context.Background()
	sess := userSession()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)
	fx.favoriteRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Favorite")).
		Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	favorited, err := fx.service.Toggle(ctx, sess, productID)

	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestFavoriteService_Toggle_OffOnDuplicate(t *testing.T) {
	fx := createTestFavoriteService(t)

	ctx := context.Background()
	sess := userSession()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)
	fx.favoriteRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Favorite")).
		Return(repository.ErrDuplicateFavorite)
	fx.favoriteRepo.EXPECT().
		Delete(ctx, sess.UserID, productID).
		Return(nil)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	favorited, err := fx.service.Toggle(ctx, sess, productID)

	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestFavoriteService_Toggle_ConcurrentDeleteRace(t *testing.T) {
	fx := createTestFavoriteService(t)

	ctx := context.Background()
	sess := userSession()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)
	fx.favoriteRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Favorite")).
		Return(repository.ErrDuplicateFavorite)
	// Another toggle removed the row first; the end state is still off.
	fx.favoriteRepo.EXPECT().
		Delete(ctx, sess.UserID, productID).
		Return(repository.ErrFavoriteNotFound)
	fx.publisher.EXPECT().
		PublishCatalogEvent(ctx, mock.AnythingOfType("*service.CatalogEvent")).
		Return(nil)

	favorited, err := fx.service.Toggle(ctx, sess, productID)

	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestFavoriteService_Toggle_GuestRejected(t *testing.T) {
	fx := createTestFavoriteService(t)

	favorited, err := fx.service.Toggle(context.Background(), entity.Anonymous(), uuid.New())

	require.Error(t, err)
	assert.False(t, favorited)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestFavoriteService_Toggle_AdminRejected(t *testing.T) {
	fx := createTestFavoriteService(t)

	sess := &entity.Session{UserID: uuid.New(), Role: entity.RoleAdmin}

	favorited, err := fx.service.Toggle(context.Background(), sess, uuid.New())

	require.Error(t, err)
	assert.False(t, favorited)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestFavoriteService_Toggle_AbsentProduct(t *testing.T) {
	fx := createTestFavoriteService(t)

	ctx := context.Background()
	sess := userSession()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	favorited, err := fx.service.Toggle(ctx, sess, productID)

	require.Error(t, err)
	assert.False(t, favorited)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestFavoriteService_Status_GuestReadsFalse(t *testing.T) {
	fx := createTestFavoriteService(t)

	favorited, err := fx.service.Status(context.Background(), entity.Anonymous(), uuid.New())

	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestFavoriteService_Status_User(t *testing.T) {
	fx := createTestFavoriteService(t)

	ctx := context.Background()
	sess := userSession()
	productID := uuid.New()

	fx.favoriteRepo.EXPECT().
		Exists(ctx, sess.UserID, productID).
		Return(true, nil)

	favorited, err := fx.service.Status(ctx, sess, productID)

	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestFavoriteService_List_WithRatings(t *testing.T) {
	fx := createTestFavoriteService(t)

	ctx := context.Background()
	sess := userSession()
	product := &entity.Product{ID: uuid.New(), Name: "Kept"}

	fx.favoriteRepo.EXPECT().
		ListProductsByUser(ctx, sess.UserID).
		Return([]*entity.Product{product}, nil)
	fx.reviewRepo.EXPECT().
		RatingSummaries(ctx, []uuid.UUID{product.ID}).
		Return([]*entity.RatingSummary{{ProductID: product.ID, Average: 4.0, Count: 3}}, nil)

	result, err := fx.service.List(ctx, sess)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.InDelta(t, 4.0, result[0].AvgRating, 1e-9)
	assert.Equal(t, 3, result[0].ReviewCount)
}
