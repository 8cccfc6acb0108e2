package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvDevelopment = "development"

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	ServerURL   string `env:"SERVER_URL,   default=http://localhost:8080"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`

	AccessToken  TokenConfig `env:", prefix=ACCESS_TOKEN_"`
	RefreshToken TokenConfig `env:", prefix=REFRESH_TOKEN_"`

	Email     EmailConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// TokenConfig holds the signing secret and validity window of one token
// family. Access and refresh tokens use distinct secrets.
type TokenConfig struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL"`
}

type EmailConfig struct {
	APIKey string `env:"EMAIL_API_KEY"`
	From   string `env:"EMAIL_FROM, default=Coder BB <onboarding@resend.dev>"`
}

type RateLimitConfig struct {
	Max    int64         `env:"RATE_LIMIT_MAX,    default=60"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// applies the token TTL defaults (1 hour access, 365 day refresh).
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.AccessToken.TTL <= 0 {
		cfg.AccessToken.TTL = time.Hour
	}
	if cfg.RefreshToken.TTL <= 0 {
		cfg.RefreshToken.TTL = 365 * 24 * time.Hour
	}

	return &cfg, nil
}

// IsDevelopment reports whether the process runs in the development
// environment, which disables the Secure cookie flag.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// CookieDomain returns the host portion of the configured server URL, used
// to scope the session cookies.
func (c *Config) CookieDomain() (string, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	return u.Hostname(), nil
}
