package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/model"
	"study-scheduler/pkg/response"
)

const (
	userIDHeader      = "X-User-ID"
	internalKeyHeader = "X-Internal-Key"

	scopeContextKey = "scope"
)

// UserScope requires a caller identity on the request and stores it as a
// model.Scope for the handlers downstream.
func (m Middleware) UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			m.l.Warnf(c.Request.Context(), "middleware.UserScope: missing %s header", userIDHeader)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(scopeContextKey, model.Scope{UserID: userID})
		c.Next()
	}
}

// InternalAuth guards operational endpoints with the shared internal key.
// An unset key disables those endpoints entirely.
func (m Middleware) InternalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey == "" {
			response.Forbidden(c)
			c.Abort()
			return
		}

		key := c.GetHeader(internalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.internalKey)) != 1 {
			m.l.Warnf(c.Request.Context(), "middleware.InternalAuth: bad internal key from %s", c.ClientIP())
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetScope returns the caller scope set by UserScope, or a zero Scope if
// the middleware did not run.
func GetScope(c *gin.Context) model.Scope {
	v, ok := c.Get(scopeContextKey)
	if !ok {
		return model.Scope{}
	}
	sc, ok := v.(model.Scope)
	if !ok {
		return model.Scope{}
	}
	return sc
}
