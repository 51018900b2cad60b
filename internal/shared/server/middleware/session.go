package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/shared/server/respond"
)

const sessionIDKey = "sessionId"

// Session requires an X-Session-Id header on every request and stores it
// in context. Sessions are anonymous; the ID only scopes documents and
// diagnoses to the caller that uploaded them.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		sessionID := strings.TrimSpace(c.GetHeader("X-Session-Id"))
		if sessionID == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeValidationError, "Missing X-Session-Id header", nil)
			return
		}
		if len(sessionID) > 128 {
			respond.Error(c, http.StatusUnauthorized, respond.CodeValidationError, "Invalid X-Session-Id header", nil)
			return
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
