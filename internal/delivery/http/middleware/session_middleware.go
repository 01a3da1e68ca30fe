package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	// AccessTokenCookie carries the access token for browser clients. API
	// clients may send the same token as a Bearer header instead.
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie carries the refresh token for browser clients.
	RefreshTokenCookie = "refresh_token"

	// loginPath is where page guards send callers lacking the required role.
	loginPath = "/login"
)

// SessionMiddleware resolves the caller's identity on every request. It never
// rejects a request by itself: a missing, invalid, or stale token simply
// resolves to a guest or anonymous session, and the route guards below decide
// what that session may do.
type SessionMiddleware struct {
	sessionUC usecase.SessionUsecase
	tokenSvc  service.TokenService
	logger    *slog.Logger
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(sessionUC usecase.SessionUsecase, tokenSvc service.TokenService, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessionUC: sessionUC,
		tokenSvc:  tokenSvc,
		logger:    logger,
	}
}

// Resolve parses the presented access token, resolves it to a session, and
// stores the session on the request. A token reissued by periodic
// revalidation replaces the client's cookie; a forced sign-out clears it.
func (m *SessionMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var claims *service.AccessClaims

		if token := m.extractToken(c); token != "" {
			parsed, err := m.tokenSvc.ParseAccessToken(token)
			if err != nil {
				// An unparseable token is treated the same as no token at
				// all, except the session degrades to anonymous rather than
				// guest. Nil claims with a marker role would overcomplicate
				// the resolver, so pass nil and let the guard deny access.
				m.logger.Debug("Discarding invalid access token", slog.String("error", err.Error()))
			} else {
				claims = parsed
			}
		}

		out, err := m.sessionUC.Resolve(c.Request().Context(), claims)
		if err != nil {
			return err
		}

		deliverycontext.SetSession(c, out.Session)

		if out.SignedOut {
			m.clearAuthCookies(c)
		} else if out.AccessToken != "" {
			m.setAccessCookie(c, out.AccessToken)
		}

		return next(c)
	}
}

// RequireAuthenticated rejects callers without a real identity. Used on API
// groups, so the denial is JSON rather than a redirect.
func (m *SessionMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !deliverycontext.GetSession(c).IsAuthenticated() {
			return domainerrors.ErrUnauthorized
		}

		return next(c)
	}
}

// RequireAdmin rejects callers that are not authenticated administrators.
func (m *SessionMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := deliverycontext.GetSession(c)
		if !sess.IsAuthenticated() {
			return domainerrors.ErrUnauthorized
		}
		if !sess.IsAdmin() {
			return domainerrors.ErrForbidden
		}

		return next(c)
	}
}

// PageGuard protects the browser-facing page prefixes. Admin pages under
// /dashboard require the ADMIN role and /favorites requires any authenticated
// user; everything else passes. Failures redirect to the login page instead
// of returning a JSON error.
func (m *SessionMiddleware) PageGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		sess := deliverycontext.GetSession(c)

		switch {
		case strings.HasPrefix(path, "/dashboard"):
			if !sess.IsAdmin() {
				return c.Redirect(http.StatusFound, loginPath)
			}
		case strings.HasPrefix(path, "/favorites"):
			if !sess.IsAuthenticated() {
				return c.Redirect(http.StatusFound, loginPath)
			}
		}

		return next(c)
	}
}

// extractToken prefers the Authorization header and falls back to the cookie.
func (m *SessionMiddleware) extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader && token != "" {
		return token
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil || cookie == nil {
		return ""
	}

	return cookie.Value
}

func (m *SessionMiddleware) setAccessCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies expires both auth cookies. Called when the resolver
// reports a forced sign-out for a deleted user.
func (m *SessionMiddleware) clearAuthCookies(c echo.Context) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
