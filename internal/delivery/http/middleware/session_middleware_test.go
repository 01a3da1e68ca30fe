package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	mockSvc "storefront/internal/mocks/service"
	mockUC "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"
)

type sessionMiddlewareFixtures struct {
	router    *echo.Echo
	sessionUC *mockUC.MockSessionUsecase
	tokenSvc  *mockSvc.MockTokenService
}

// createTestSessionRouter wires the session middleware into an echo instance
// the way the server does: Resolve and PageGuard on every route, the JSON
// guards on the API group, and the app error handler translating guard
// errors into response envelopes.
func createTestSessionRouter(t *testing.T) sessionMiddlewareFixtures {
	sessionUC := mockUC.NewMockSessionUsecase(t)
	tokenSvc := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessionMW := NewSessionMiddleware(sessionUC, tokenSvc, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError
	e.Use(sessionMW.Resolve, sessionMW.PageGuard)

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/dashboard", ok)
	e.GET("/dashboard/products", ok)
	e.GET("/favorites", ok)
	e.GET("/", ok)

	api := e.Group("/api")
	api.GET("/admin", ok, sessionMW.RequireAdmin)
	api.GET("/private", ok, sessionMW.RequireAuthenticated)

	return sessionMiddlewareFixtures{
		router:    e,
		sessionUC: sessionUC,
		tokenSvc:  tokenSvc,
	}
}

// expectAnonymousResolve stubs the resolver for a request without any token.
func (f sessionMiddlewareFixtures) expectAnonymousResolve() {
	f.sessionUC.EXPECT().
		Resolve(mock.Anything, (*service.AccessClaims)(nil)).
		Return(&usecase.ResolveSessionOutput{Session: entity.Anonymous()}, nil)
}

// expectTokenResolve stubs token parsing and resolution for a bearer token.
func (f sessionMiddlewareFixtures) expectTokenResolve(token string, out *usecase.ResolveSessionOutput) {
	claims := &service.AccessClaims{UserID: out.Session.UserID, Role: string(out.Session.Role)}
	f.tokenSvc.EXPECT().ParseAccessToken(token).Return(claims, nil)
	f.sessionUC.EXPECT().Resolve(mock.Anything, claims).Return(out, nil)
}

func doRequest(f sessionMiddlewareFixtures, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestSessionMiddleware_PageGuard_GuestOnDashboardRedirects(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectAnonymousResolve()

	rec := doRequest(f, "/dashboard", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionMiddleware_PageGuard_UserOnDashboardRedirects(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectTokenResolve("user-token", &usecase.ResolveSessionOutput{
		Session: &entity.Session{UserID: uuid.New(), Role: entity.RoleUser},
	})

	rec := doRequest(f, "/dashboard/products", "user-token")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionMiddleware_PageGuard_AdminOnDashboardPasses(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectTokenResolve("admin-token", &usecase.ResolveSessionOutput{
		Session: &entity.Session{UserID: uuid.New(), Role: entity.RoleAdmin},
	})

	rec := doRequest(f, "/dashboard", "admin-token")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddleware_PageGuard_GuestOnFavoritesRedirects(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectAnonymousResolve()

	rec := doRequest(f, "/favorites", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionMiddleware_PageGuard_UserOnFavoritesPasses(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectTokenResolve("user-token", &usecase.ResolveSessionOutput{
		Session: &entity.Session{UserID: uuid.New(), Role: entity.RoleUser},
	})

	rec := doRequest(f, "/favorites", "user-token")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddleware_PageGuard_GuestOnPublicPagePasses(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectAnonymousResolve()

	rec := doRequest(f, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddleware_RequireAdmin_GuestGetsUnauthorized(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectAnonymousResolve()

	rec := doRequest(f, "/api/admin", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestSessionMiddleware_RequireAdmin_UserGetsForbidden(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectTokenResolve("user-token", &usecase.ResolveSessionOutput{
		Session: &entity.Session{UserID: uuid.New(), Role: entity.RoleUser},
	})

	rec := doRequest(f, "/api/admin", "user-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestSessionMiddleware_RequireAuthenticated_GuestGetsUnauthorized(t *testing.T) {
	f := createTestSessionRouter(t)
	f.expectAnonymousResolve()

	rec := doRequest(f, "/api/private", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestSessionMiddleware_Resolve_UnparseableTokenDegradesToAnonymous(t *testing.T) {
	f := createTestSessionRouter(t)

	f.tokenSvc.EXPECT().ParseAccessToken("garbage").Return(nil, assert.AnError)
	f.expectAnonymousResolve()

	rec := doRequest(f, "/dashboard", "garbage")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionMiddleware_Resolve_SignedOutClearsBothCookies(t *testing.T) {
	f := createTestSessionRouter(t)

	claims := &service.AccessClaims{UserID: uuid.New(), Role: string(entity.RoleUser)}
	f.tokenSvc.EXPECT().ParseAccessToken("stale-token").Return(claims, nil)
	f.sessionUC.EXPECT().
		Resolve(mock.Anything, claims).
		Return(&usecase.ResolveSessionOutput{Session: entity.Anonymous(), SignedOut: true}, nil)

	rec := doRequest(f, "/", "stale-token")

	assert.Equal(t, http.StatusOK, rec.Code)

	cleared := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == AccessTokenCookie || cookie.Name == RefreshTokenCookie {
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
			cleared[cookie.Name] = true
		}
	}
	require.True(t, cleared[AccessTokenCookie], "access token cookie not cleared")
	require.True(t, cleared[RefreshTokenCookie], "refresh token cookie not cleared")
}

func TestSessionMiddleware_Resolve_ReissuedTokenReplacesCookie(t *testing.T) {
	f := createTestSessionRouter(t)

	userID := uuid.New()
	f.expectTokenResolve("old-token", &usecase.ResolveSessionOutput{
		Session:     &entity.Session{UserID: userID, Role: entity.RoleUser},
		AccessToken: "fresh-token",
	})

	rec := doRequest(f, "/", "old-token")

	assert.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == AccessTokenCookie {
			assert.Equal(t, "fresh-token", cookie.Value)
			assert.True(t, cookie.HttpOnly)
			found = true
		}
	}
	require.True(t, found, "reissued access token cookie not set")
}
