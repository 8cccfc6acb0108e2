package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	cookiePath         = "/api/v1"
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieSettings carries the environment-dependent attributes of the session
// cookies. Secure is disabled only in development.
type CookieSettings struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s CookieSettings) set(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cookiePath,
		Domain:   s.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s CookieSettings) clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     cookiePath,
		Domain:   s.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// cookieValue returns the named cookie's value, or "" when absent.
func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
