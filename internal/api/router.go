package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderbb/identity-api/internal/api/handler"
	"github.com/coderbb/identity-api/internal/api/middleware"
	"github.com/coderbb/identity-api/internal/core/ports"
	"github.com/coderbb/identity-api/internal/core/service"
	"github.com/coderbb/identity-api/internal/infrastructure/config"
	"github.com/coderbb/identity-api/internal/infrastructure/crypto"
	mongostore "github.com/coderbb/identity-api/internal/infrastructure/db/mongo"
	redisstore "github.com/coderbb/identity-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	users := mongostore.NewUserRepository(db)
	tokens := mongostore.NewRefreshTokenRepository(db)
	hasher := crypto.NewBcryptHasher()
	accessCodec := crypto.NewJWTCodec(cfg.AccessToken.Secret)
	refreshCodec := crypto.NewJWTCodec(cfg.RefreshToken.Secret)

	accounts := service.NewAccountService(users, hasher, notifier, cfg.FrontendURL, log)
	sessions := service.NewSessionService(users, tokens, hasher, accessCodec, refreshCodec, cfg.AccessToken.TTL, cfg.RefreshToken.TTL, log)
	passwords := service.NewPasswordService(users, hasher, notifier, cfg.FrontendURL, 0, log)

	domainName, err := cfg.CookieDomain()
	if err != nil {
		return nil, err
	}
	cookies := handler.CookieSettings{
		Domain:     domainName,
		Secure:     !cfg.IsDevelopment(),
		AccessTTL:  cfg.AccessToken.TTL,
		RefreshTTL: cfg.RefreshToken.TTL,
	}

	accountHandler := handler.NewAccountHandler(accounts)
	sessionHandler := handler.NewSessionHandler(sessions, cookies)
	passwordHandler := handler.NewPasswordHandler(passwords)
	healthHandler := handler.NewHealthHandler(cfg.Env)
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	authRequired := middleware.CookieAuth(sessions)
	rateLimited := middleware.RateLimit(
		redisstore.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window),
		log,
	)

	// --- Routes ---
	v1 := e.Group("/api/v1")

	v1.GET("/self", healthHandler.Self)
	v1.GET("/health", healthHandler.Health)
	v1.GET("/health/ready", readinessHandler.Readiness)

	v1.POST("/register", accountHandler.Register, rateLimited)
	v1.PUT("/confirmation/:token", accountHandler.Confirm, rateLimited)

	v1.POST("/login", sessionHandler.Login, rateLimited)
	v1.POST("/refresh-token", sessionHandler.Refresh, rateLimited)
	v1.GET("/self-identification", sessionHandler.SelfIdentification, authRequired)
	v1.PUT("/logout", sessionHandler.Logout, authRequired)

	v1.PUT("/forgot-password", passwordHandler.Forgot, rateLimited)
	v1.PUT("/reset-password/:token", passwordHandler.Reset, rateLimited)
	v1.PUT("/change-password", passwordHandler.Change, authRequired)

	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
