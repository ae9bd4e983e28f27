package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task_backend/internal/api"
)

const (
	// ContextUserID is the gin context key holding the caller's user ID.
	ContextUserID = "userID"
	// ContextEmail is the gin context key holding the caller's email.
	ContextEmail = "userEmail"
)

// TokenVerifier decodes and validates a bearer token.
type TokenVerifier interface {
	Verify(tokenStr string) (*Claims, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
// The Authorization header may carry the token bare or prefixed with "Bearer ".
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "No token provided"})
			return
		}

		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			slog.Debug("token rejected", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid token"})
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			slog.Debug("token subject is not a user id", "sub", claims.Subject, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated caller's ID set by AuthRequired.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 6 && strings.EqualFold(header[:6], "Bearer") &&
		(len(header) == 6 || header[6] == ' ') {
		header = header[6:]
	}
	return strings.TrimSpace(header)
}
