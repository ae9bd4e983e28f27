package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"task_backend/internal/app/di"
	"task_backend/internal/app/router"
	"task_backend/internal/platform/config"
	"task_backend/internal/platform/db"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/platform/logger"
	infraredis "task_backend/internal/platform/redis"
)

func main() {
	// .envがあれば読み込む
	_ = godotenv.Load()

	bootLog := logger.New(os.Stdout, "task_backend", os.Getenv("APP_ENV"))
	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.New(os.Stdout, cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(cfg.DB, cfg.DBConnectTimeout)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	if cfg.RunMigrations {
		m, err := db.NewMigrator(gdb)
		if err != nil {
			return err
		}
		if err := m.Up(ctx); err != nil {
			return err
		}
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without shared rate limits.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:        di.NewAuthHandler(gdb, cfg.JWTSecret, cfg.JWTExpiresIn),
		Tasks:       di.NewTaskHandler(gdb),
		Verifier:    jwtmw.NewVerifier(cfg.JWTSecret),
		AuthLimiter: di.NewAuthRateLimiter(rdb, cfg.RateLimitAuthPerMinute),
		CORSOrigins: cfg.CORSOrigins(),
		AccessLog:   cfg.HTTPLogEnabled,

		TrustedProxies: cfg.TrustedProxyList(),
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server exited properly")
	return nil
}
