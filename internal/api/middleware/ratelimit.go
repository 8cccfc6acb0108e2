package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coderbb/identity-api/internal/api/metrics"
)

const rateLimitedMessage = "Too many requests! Please try again after some time"

// Allower is the admission check contract the rate limiter satisfies.
type Allower interface {
	Allow(ctx context.Context, id string) (bool, error)
}

// RateLimit throttles requests per client IP before they reach a handler.
// A failing limiter backend fails open with a logged warning.
func RateLimit(limiter Allower, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("rate limit check failed, allowing request")
				return next(c)
			}

			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, rateLimitedMessage)
			}

			return next(c)
		}
	}
}
