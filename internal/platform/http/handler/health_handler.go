// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/api"
)

// Health は /health を処理します。認証不要で、キャッシュを防止します。
// HEADはボディなしの200を返します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}
