// Package respond writes JSON error responses for the apperror taxonomy.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/api"
	"task_backend/internal/platform/http/middleware"
	"task_backend/internal/shared/apperror"
)

// InternalMessage is the only message clients see for unexpected failures.
const InternalMessage = "Internal server error"

// Error maps err to a status and writes {"error": msg}.
// Errors outside the taxonomy are logged and reported as 500 without details.
func Error(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := kind.HTTPStatus()

	if kind == apperror.KindInternal {
		slog.Error("request failed",
			"kind", kind.String(),
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.ContextRequestID),
		)
		c.AbortWithStatusJSON(status, api.ErrorResponse{Error: InternalMessage})
		return
	}

	slog.Debug("request rejected",
		"kind", kind.String(),
		"status", status,
		"path", c.FullPath(),
		"request_id", c.GetString(middleware.ContextRequestID),
	)

	msg := err.Error()
	var ae *apperror.Error
	if apperror.As(err, &ae) {
		msg = ae.Message
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: msg})
}

// InvalidBody writes 400 {"error": "Invalid request body"} for JSON that cannot be decoded.
func InvalidBody(c *gin.Context, err error) {
	slog.Warn("invalid request body", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
}
