// Package middleware はルーター共通のGinミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID はリクエストIDを運ぶヘッダーです。
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID はGinコンテキスト上のキーです。
	ContextRequestID = "request_id"

	maxRequestIDLen = 128
)

// RequestID はクライアントのX-Request-IDを引き継ぎ、なければ生成してレスポンスにも付与します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
