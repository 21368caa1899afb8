package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"journalgrader/internal/logger"
)

// RequestLogger logs one line per request after the handler chain runs.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			reqLog.Error("Request failed", kv...)
		case status >= 400:
			reqLog.Warn("Request rejected", kv...)
		default:
			reqLog.Info("Request", kv...)
		}
	}
}
