package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coderbb/identity-api/internal/api/handler"
	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

type stubSessionService struct {
	identifyFn func(ctx context.Context, accessToken string) (*domain.User, error)
}

func (s *stubSessionService) Login(context.Context, string, string) (*domain.User, ports.SessionPair, error) {
	panic("not used")
}

func (s *stubSessionService) Refresh(context.Context, string) (string, error) {
	panic("not used")
}

func (s *stubSessionService) Logout(context.Context, string) error {
	panic("not used")
}

func (s *stubSessionService) Identify(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.identifyFn(ctx, accessToken)
}

func TestCookieAuth_ValidToken(t *testing.T) {
	e := echo.New()
	stub := &stubSessionService{
		identifyFn: func(ctx context.Context, accessToken string) (*domain.User, error) {
			if accessToken != "valid-token" {
				t.Fatalf("unexpected token: %s", accessToken)
			}
			return &domain.User{ID: "user_1", Name: "Alice"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "valid-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := CookieAuth(stub)
	h := mw(func(c echo.Context) error {
		called = true
		user, _ := c.Get(handler.AuthenticatedUserKey).(*domain.User)
		if user == nil || user.ID != "user_1" {
			t.Fatalf("authenticated user not injected")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestCookieAuth_MissingCookie(t *testing.T) {
	e := echo.New()
	stub := &stubSessionService{
		identifyFn: func(ctx context.Context, accessToken string) (*domain.User, error) {
			t.Fatalf("identify should not be called without a cookie")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	mw := CookieAuth(stub)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCookieAuth_InvalidToken(t *testing.T) {
	e := echo.New()
	stub := &stubSessionService{
		identifyFn: func(ctx context.Context, accessToken string) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "garbage"})
	c := e.NewContext(req, httptest.NewRecorder())

	mw := CookieAuth(stub)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
