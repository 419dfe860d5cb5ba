package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/checkout/internal/port/outbound"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"
)

// RateLimitKeyFunc derives the bucket a request is counted in.
type RateLimitKeyFunc func(*gin.Context) string

// ByClientIP counts requests per client IP.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByRouteAndIP counts requests per route pattern and client IP.
func ByRouteAndIP(c *gin.Context) string {
	return "route:" + c.Request.Method + ":" + c.FullPath() + ":" + c.ClientIP()
}

// RateLimit returns a middleware that allows limit requests per window in
// each bucket. A nil limiter disables the check.
func RateLimit(limiter outbound.RateLimiterPort, limit int, window time.Duration, key RateLimitKeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ByClientIP
	}

	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		bucket := key(c)

		allowed, err := limiter.Allow(ctx, bucket, limit, window)
		if err != nil {
			// Fail open when the limiter backend is unavailable.
			c.Next()
			return
		}

		c.Header(RateLimitLimit, strconv.Itoa(limit))
		if remaining, err := limiter.GetRemaining(ctx, bucket, limit, window); err == nil {
			c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		}

		if !allowed {
			c.Header(RetryAfter, strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests, please try again later",
				},
			})
			return
		}

		c.Next()
	}
}
