package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderbb/identity-api/internal/api/metrics"
	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

// SessionHandler serves login, logout, token refresh, and
// self-identification. Tokens travel both as httpOnly cookies and in the
// response body.
type SessionHandler struct {
	sessions ports.SessionService
	cookies  CookieSettings
}

func NewSessionHandler(sessions ports.SessionService, cookies CookieSettings) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies}
}

// Login authenticates a confirmed account and sets the access/refresh
// cookie pair.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, pair, err := h.sessions.Login(c.Request().Context(), req.EmailAddress, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	h.cookies.set(c, accessTokenCookie, pair.AccessToken, h.cookies.AccessTTL)
	h.cookies.set(c, refreshTokenCookie, pair.RefreshToken, h.cookies.RefreshTTL)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, map[string]string{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Refresh returns a usable access token. A still-present access cookie is
// returned unchanged; otherwise a stored, verifiable refresh cookie mints a
// fresh one. Anything else is unauthorized.
func (h *SessionHandler) Refresh(c echo.Context) error {
	if accessToken := cookieValue(c, accessTokenCookie); accessToken != "" {
		metrics.TokenRefreshesTotal.WithLabelValues("short_circuit").Inc()
		return respond(c, http.StatusOK, map[string]string{"accessToken": accessToken})
	}

	if refreshToken := cookieValue(c, refreshTokenCookie); refreshToken != "" {
		accessToken, err := h.sessions.Refresh(c.Request().Context(), refreshToken)
		if err == nil {
			h.cookies.set(c, accessTokenCookie, accessToken, h.cookies.AccessTTL)
			metrics.TokenRefreshesTotal.WithLabelValues("minted").Inc()
			return respond(c, http.StatusOK, map[string]string{"accessToken": accessToken})
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
	}

	metrics.TokenRefreshesTotal.WithLabelValues("unauthorized").Inc()
	return domain.ErrUnauthorized
}

// Logout deletes the refresh token record when present and always clears
// both cookies. Logging out twice is fine.
func (h *SessionHandler) Logout(c echo.Context) error {
	if refreshToken := cookieValue(c, refreshTokenCookie); refreshToken != "" {
		if err := h.sessions.Logout(c.Request().Context(), refreshToken); err != nil {
			return err
		}
	}

	h.cookies.clear(c, accessTokenCookie)
	h.cookies.clear(c, refreshTokenCookie)

	return respond(c, http.StatusOK, nil)
}

// SelfIdentification returns the authenticated user resolved by the auth
// middleware.
func (h *SessionHandler) SelfIdentification(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfirmationRequired):
		return "unconfirmed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
