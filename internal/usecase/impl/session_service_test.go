package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"
)

type sessionServiceFixtures struct {
	service          usecase.SessionUsecase
	userRepo         *mockRepo.MockUserRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	tokenService     *mockSvc.MockTokenService
}

func createTestSessionService(t *testing.T) sessionServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewSessionService(SessionServiceParams{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		TokenService:     tokenService,
		Config:           &config.Config{},
		Logger:           logger,
	})

	return sessionServiceFixtures{
		service:          svc,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokenService:     tokenService,
	}
}

func TestSessionService_Resolve_NoToken(t *testing.T) {
	fx := createTestSessionService(t)

	output, err := fx.service.Resolve(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, output.Session.IsAuthenticated())
	assert.Equal(t, entity.RoleGuest, output.Session.Role)
	assert.Empty(t, output.AccessToken)
	assert.False(t, output.SignedOut)
}

func TestSessionService_Resolve_FreshClaimsSkipStore(t *testing.T) {
	fx := createTestSessionService(t)

	claims := &service.AccessClaims{
		UserID:    uuid.New(),
		Role:      "ADMIN",
		CheckedAt: time.Now().Add(-time.Minute),
	}

	// No expectations on userRepo: a fresh token must not hit the store.
	output, err := fx.service.Resolve(context.Background(), claims)

	require.NoError(t, err)
	assert.Equal(t, claims.UserID, output.Session.UserID)
	assert.Equal(t, entity.RoleAdmin, output.Session.Role)
	assert.Empty(t, output.AccessToken)
}

func TestSessionService_Resolve_UnknownRoleDegradesToUser(t *testing.T) {
	fx := createTestSessionService(t)

	claims := &service.AccessClaims{
		UserID:    uuid.New(),
		Role:      "SUPERUSER",
		CheckedAt: time.Now(),
	}

	output, err := fx.service.Resolve(context.Background(), claims)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, output.Session.Role)
}

func TestSessionService_Resolve_StaleClaimsRevalidated(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	claims := &service.AccessClaims{
		UserID:    userID,
		Role:      "USER",
		CheckedAt: time.Now().Add(-10 * time.Minute),
	}

	// The stored role wins: the user was promoted since the token was minted.
	fx.userRepo.EXPECT().
		FindByID(ctx, userID).
		Return(&entity.User{ID: userID, Name: "Alma", Email: "alma@example.com", Role: entity.RoleAdmin}, nil)
	fx.tokenService.EXPECT().
		GenerateAccessToken(userID, "ADMIN", mock.AnythingOfType("time.Time")).
		Return("reissued-token", nil)

	output, err := fx.service.Resolve(ctx, claims)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, output.Session.Role)
	assert.Equal(t, "Alma", output.Session.Name)
	assert.Equal(t, "reissued-token", output.AccessToken)
	assert.False(t, output.SignedOut)
}

func TestSessionService_Resolve_DeletedUserSignedOut(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	claims := &service.AccessClaims{
		UserID:    userID,
		Role:      "USER",
		CheckedAt: time.Now().Add(-10 * time.Minute),
	}

	fx.userRepo.EXPECT().
		FindByID(ctx, userID).
		Return(nil, repository.ErrUserNotFound)
	fx.refreshTokenRepo.EXPECT().
		DeleteByUser(ctx, userID).
		Return(nil)

	output, err := fx.service.Resolve(ctx, claims)

	require.NoError(t, err)
	assert.True(t, output.SignedOut)
	assert.False(t, output.Session.IsAuthenticated())
	assert.Empty(t, output.AccessToken)
}

func TestSessionService_Resolve_StoreFailureDegrades(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	claims := &service.AccessClaims{
		UserID:    uuid.New(),
		Role:      "ADMIN",
		CheckedAt: time.Now().Add(-10 * time.Minute),
	}

	fx.userRepo.EXPECT().
		FindByID(ctx, claims.UserID).
		Return(nil, errors.New("connection refused"))

	output, err := fx.service.Resolve(ctx, claims)

	// A store outage must degrade the session, never fail the request.
	require.NoError(t, err)
	assert.False(t, output.Session.IsAuthenticated())
	assert.False(t, output.SignedOut)
}

func TestSessionService_Resolve_ReissueFailureKeepsSession(t *testing.T) {
	fx := createTestSessionService(t)

	ctx := context.Background()
	userID := uuid.New()
	claims := &service.AccessClaims{
		UserID:    userID,
		Role:      "USER",
		CheckedAt: time.Now().Add(-10 * time.Minute),
	}

	fx.userRepo.EXPECT().
		FindByID(ctx, userID).
		Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)
	fx.tokenService.EXPECT().
		GenerateAccessToken(userID, "USER", mock.AnythingOfType("time.Time")).
		Return("", errors.New("signing key unavailable"))

	output, err := fx.service.Resolve(ctx, claims)

	require.NoError(t, err)
	assert.True(t, output.Session.IsAuthenticated())
	assert.Empty(t, output.AccessToken)
}
