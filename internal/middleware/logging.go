package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/logger"
	"bookkeeper/internal/uuid"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// RequestLogging returns a Gin middleware that logs each request with a
// request ID, method, route, status code, latency, and client IP using Zap.
// A valid X-Request-ID from the caller is reused.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.FromHeader(c.GetHeader(requestIDHeader))
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if subject := Subject(c); subject != "" {
			fields = append(fields, "subject", subject)
		}
		logger.For("http").Infow("request", fields...)
	}
}

// RequestID returns the id assigned by RequestLogging.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
