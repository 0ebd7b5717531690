package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"pdfqa/internal/metrics"
	"pdfqa/internal/transport/http/response"
)

// RateLimit applies a token bucket per client IP. rps <= 0 disables it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	var limiters sync.Map // client ip -> *rate.Limiter
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "unknown"
		}
		v, _ := limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(rps), burst))
		if !v.(*rate.Limiter).Allow() {
			metrics.RateLimitRejected.Inc()
			c.Header("Retry-After", "1")
			response.Error(c, http.StatusTooManyRequests, response.MsgRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
