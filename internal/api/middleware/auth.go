package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/coderbb/identity-api/internal/api/handler"
	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

// CookieAuth authenticates the request from the accessToken cookie: the
// token must verify against the access secret and resolve to an existing
// user, which is then injected into the echo context for handlers.
func CookieAuth(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie("accessToken")
			if err != nil || cookie.Value == "" {
				return domain.ErrUnauthorized
			}

			user, err := sessions.Identify(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}

			c.Set(handler.AuthenticatedUserKey, user)
			return next(c)
		}
	}
}
