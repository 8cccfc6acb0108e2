package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubAllower struct {
	allowFn func(ctx context.Context, id string) (bool, error)
}

func (s *stubAllower) Allow(ctx context.Context, id string) (bool, error) {
	return s.allowFn(ctx, id)
}

func newLimitedHandler(t *testing.T, allower Allower) (echo.HandlerFunc, *bool) {
	t.Helper()
	called := false
	mw := RateLimit(allower, zerolog.Nop())
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return h, &called
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	e := echo.New()
	h, called := newLimitedHandler(t, &stubAllower{
		allowFn: func(ctx context.Context, id string) (bool, error) { return true, nil },
	})

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !*called {
		t.Fatalf("next not called")
	}
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	e := echo.New()
	h, called := newLimitedHandler(t, &stubAllower{
		allowFn: func(ctx context.Context, id string) (bool, error) { return false, nil },
	})

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	err := h(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if *called {
		t.Fatalf("next must not be called when throttled")
	}
}

func TestRateLimit_FailsOpenOnBackendError(t *testing.T) {
	e := echo.New()
	h, called := newLimitedHandler(t, &stubAllower{
		allowFn: func(ctx context.Context, id string) (bool, error) {
			return false, errors.New("redis down")
		},
	})

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !*called {
		t.Fatalf("limiter failure must not block the request")
	}
}
