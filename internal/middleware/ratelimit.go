package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/logger"
)

// RateLimit rejects requests beyond rps sustained with the given burst,
// shared across all clients.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.For("http").Warnw("rate limit exceeded",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
			)
			abortWithError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
