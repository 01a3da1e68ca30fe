package context

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/domain/entity"
)

// SetSession stores the resolved session in echo.Context.
func SetSession(c echo.Context, sess *entity.Session) {
	c.Set(string(KeySession), sess)
}

// GetSession extracts the resolved session from echo.Context, falling back to
// an anonymous session when the resolver middleware did not run.
func GetSession(c echo.Context) *entity.Session {
	if sess, ok := c.Get(string(KeySession)).(*entity.Session); ok && sess != nil {
		return sess
	}

	return entity.Anonymous()
}
