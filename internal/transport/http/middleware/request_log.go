package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/pkg/logger"
)

// RequestLog writes one line per request after it has been served.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.L.Errorw("request", fields...)
		case c.Writer.Status() >= 400:
			logger.L.Warnw("request", fields...)
		default:
			logger.L.Infow("request", fields...)
		}
	}
}
