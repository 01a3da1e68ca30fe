package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	userRepo           repository.UserRepository
	refreshTokenRepo   repository.RefreshTokenRepository
	tokenService       service.TokenService
	revalidateInterval time.Duration
	logger             *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		userRepo:           params.UserRepo,
		refreshTokenRepo:   params.RefreshTokenRepo,
		tokenService:       params.TokenService,
		revalidateInterval: params.Config.RevalidateInterval(),
		logger:             params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve maps verified access-token claims to the request's effective
// session. It never fails the request: every abnormal path degrades to a
// less-privileged session instead of returning an error.
func (srv *sessionService) Resolve(ctx context.Context, claims *service.AccessClaims) (*usecase.ResolveSessionOutput, error) {
	// No token at all: a browsing guest.
	if claims == nil {
		return &usecase.ResolveSessionOutput{Session: &entity.Session{Role: entity.RoleGuest}}, nil
	}

	sess := &entity.Session{
		UserID: claims.UserID,
		Role:   entity.RoleFromString(claims.Role),
	}

	// Within the staleness window the claims are trusted as-is. The store is
	// not consulted, so a deleted user keeps a working session until the
	// window elapses, and the session carries only the id and role the claims
	// hold (no name or email). That is the accepted trade for not querying on
	// every request.
	if time.Since(claims.CheckedAt) < srv.revalidateInterval {
		return &usecase.ResolveSessionOutput{Session: sess}, nil
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return srv.signOutDeletedUser(ctx, claims), nil
		}

		// A store failure must not take down every request in flight. Degrade
		// to an anonymous session and let the next request retry.
		srv.log(ctx).Error("Session revalidation store lookup failed", slog.Any("userID", claims.UserID), slog.Any("error", err))

		return &usecase.ResolveSessionOutput{Session: entity.Anonymous()}, nil
	}

	// The stored role wins over whatever the token said.
	sess.Role = user.Role
	sess.Name = user.Name
	sess.Email = user.Email

	reissued, err := srv.tokenService.GenerateAccessToken(user.ID, user.Role.String(), time.Now())
	if err != nil {
		// The session itself is fine; only the timestamp refresh failed. Keep
		// serving with the stale token and reissue on a later request.
		srv.log(ctx).Warn("Failed to reissue access token after revalidation", slog.Any("userID", user.ID), slog.Any("error", err))

		return &usecase.ResolveSessionOutput{Session: sess}, nil
	}

	srv.log(ctx).Debug("Session revalidated", slog.Any("userID", user.ID), slog.String("role", user.Role.String()))

	return &usecase.ResolveSessionOutput{Session: sess, AccessToken: reissued}, nil
}

// signOutDeletedUser handles claims whose subject no longer exists: the
// caller's tokens must be cleared and any surviving refresh tokens revoked.
func (srv *sessionService) signOutDeletedUser(ctx context.Context, claims *service.AccessClaims) *usecase.ResolveSessionOutput {
	srv.log(ctx).Info("Signing out deleted user", slog.Any("userID", claims.UserID))

	if err := srv.refreshTokenRepo.DeleteByUser(ctx, claims.UserID); err != nil {
		srv.log(ctx).Warn("Failed to revoke refresh tokens of deleted user", slog.Any("userID", claims.UserID), slog.Any("error", err))
	}

	return &usecase.ResolveSessionOutput{
		Session:   entity.Anonymous(),
		SignedOut: true,
	}
}
