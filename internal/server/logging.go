package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"shawedgym/internal/logger"
)

// RequestLoggingMiddleware logs one line per request. Server errors are
// logged at error level.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		entry := logger.With(
			"request_id", RequestID(c),
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if status >= 500 {
			entry.Error("HTTP request")
			return
		}
		entry.Info("HTTP request")
	}
}
