package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"study-scheduler/pkg/response"
)

// RateLimit throttles requests per client. Authenticated clients are
// keyed by user id, anonymous ones by remote IP. Limiters live in an
// LRU cache so an unbounded client population cannot grow memory.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.perMin <= 0 {
			c.Next()
			return
		}

		client := c.GetHeader(userIDHeader)
		if client == "" {
			client = c.ClientIP()
		}

		lim, ok := m.limiters.Get(client)
		if !ok {
			lim = rate.NewLimiter(rate.Limit(m.perMin)/60, m.perMin)
			m.limiters.Add(client, lim)
		}

		if !lim.Allow() {
			m.l.Warnf(c.Request.Context(), "middleware.RateLimit: client %s throttled", client)
			c.JSON(http.StatusTooManyRequests, response.Resp{
				ErrorCode: http.StatusTooManyRequests,
				Message:   "Too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
