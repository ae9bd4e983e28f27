package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task_backend/internal/api"
	"task_backend/internal/shared/ratelimiter"
)

// KeyFunc はリクエストからレート制限のキーを作ります。
type KeyFunc func(c *gin.Context) string

// KeyByIP はクライアントIPをキーにします。
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		return ip
	}
}

// RateLimit はlimiterでリクエストを制限します。超過時は429を返します。
// limiterのエラー時は制限せずに通します。
func RateLimit(limiter ratelimiter.Limiter, keyFn KeyFunc) gin.HandlerFunc {
	if limiter == nil || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), keyFn(c))
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err, "path", c.FullPath())
			c.Next()
			return
		}

		resetSec := int(math.Ceil(res.ResetIn.Seconds()))
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if !res.Allowed {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.Header("Retry-After", strconv.Itoa(resetSec))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "Too many requests"})
			return
		}
		c.Next()
	}
}
