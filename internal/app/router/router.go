// Package router はHTTPルーティングを構築します。
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "task_backend/internal/feature/auth/transport/handler"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	"task_backend/internal/platform/http/handler"
	"task_backend/internal/platform/http/middleware"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/ratelimiter"
)

// Deps はルーターが必要とするハンドラーとミドルウェアの依存です。
type Deps struct {
	Auth     *authhandler.AuthHandler
	Tasks    *taskhandler.TaskHandler
	Verifier jwtmw.TokenVerifier

	// nilの場合はレート制限なし
	AuthLimiter ratelimiter.Limiter

	// 空の場合はすべてのオリジンを許可
	CORSOrigins []string
	AccessLog   bool

	// X-Forwarded-Forを信頼するプロキシ。nilの場合はRemoteAddrのみ
	TrustedProxies []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		slog.Warn("invalid trusted proxies, trusting none", "proxies", d.TrustedProxies, "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))
	if d.AccessLog {
		r.Use(middleware.AccessLog())
	}

	// 認証不要
	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)

	authGroup := r.Group("/auth")
	{
		limited := authGroup.Group("", middleware.RateLimit(d.AuthLimiter, middleware.KeyByIP()))
		// 新規ユーザー登録
		limited.POST("/signup", d.Auth.Signup)
		// ログイン（JWT 発行）
		limited.POST("/login", d.Auth.Login)

		authGroup.GET("/profile", jwtmw.AuthRequired(d.Verifier), d.Auth.Profile)
	}

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	tasks := r.Group("/tasks", jwtmw.AuthRequired(d.Verifier))
	{
		tasks.POST("", d.Tasks.Create)
		tasks.GET("", d.Tasks.List)
		tasks.GET("/:id", d.Tasks.Get)
		tasks.PUT("/:id", d.Tasks.Update)
		tasks.PATCH("/:id/toggle", d.Tasks.Toggle)
		tasks.DELETE("/:id", d.Tasks.Delete)
	}

	return r
}
