package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/coderbb/identity-api/internal/core/domain"
)

// AuthenticatedUserKey is the echo context key under which the auth
// middleware stores the resolved user.
const AuthenticatedUserKey = "authenticatedUser"

// ctxUser extracts the authenticated user injected by the auth middleware.
// Its absence means the route was wired without the middleware; reject with
// 401 rather than panicking.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(AuthenticatedUserKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
