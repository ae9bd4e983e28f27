// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"task_backend/internal/platform/db"
	"task_backend/internal/platform/redis"
)

// devJWTSecret is used only when APP_ENV=development and JWT_SECRET is unset.
const devJWTSecret = "dev-insecure-jwt-secret"

// ErrMissingJWTSecret is returned outside development when JWT_SECRET is empty.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Config はアプリケーション設定を保持します。
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	DB               db.Config
	DBConnectTimeout time.Duration
	RunMigrations    bool

	JWTSecret    string
	JWTExpiresIn time.Duration

	Redis redis.Config

	// 0で無効
	RateLimitAuthPerMinute int

	CORSAllowedOrigins string // comma-separated
	// 空の場合はRemoteAddrのみを信頼
	TrustedProxies string // comma-separated IPs or CIDRs

	HTTPLogEnabled  bool
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean, using default", "key", key, "error", err, "default", def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid int, using default", "key", key, "error", err, "default", def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration, using default", "key", key, "error", err, "default", def)
			return def
		}
		return d
	}
	return def
}

// Load は環境変数から設定を読み込みます。
// 本番環境でJWT_SECRETが未設定の場合はErrMissingJWTSecretを返します。
func Load() (*Config, error) {
	cfg := &Config{
		AppName: getenv("APP_NAME", "task_backend"),
		Env:     getenv("APP_ENV", "production"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DB:               db.LoadConfigFromEnv(),
		DBConnectTimeout: getdur("DB_CONNECT_TIMEOUT", 60*time.Second),
		RunMigrations:    getbool("RUN_MIGRATIONS", false),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: getdur("JWT_EXPIRES_IN", 7*24*time.Hour),

		Redis: redis.Config{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
		},

		RateLimitAuthPerMinute: getint("RATE_LIMIT_AUTH_PER_MINUTE", 20),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),
		TrustedProxies:     getenv("TRUSTED_PROXIES", ""),

		HTTPLogEnabled:  getbool("HTTP_LOG_ENABLED", true),
		ShutdownTimeout: getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, ErrMissingJWTSecret
		}
		// 開発中の注意喚起
		slog.Warn("JWT_SECRET is not set. Using an insecure development secret.")
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// TrustedProxyList returns the trusted proxies, or nil when none are set.
func (c *Config) TrustedProxyList() []string {
	res := splitList(c.TrustedProxies)
	if len(res) == 0 {
		return nil
	}
	return res
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
