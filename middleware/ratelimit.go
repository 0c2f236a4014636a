package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/clinic-booking/config"
	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRateLimit  = 60
	defaultRateWindow = time.Minute
	rateLimitTimeout  = 500 * time.Millisecond
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimiter creates a rate limiting middleware keyed by route and client
// IP. Every hit pushes the window expiry forward. Requests are allowed when Redis is unavailable.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		key := rateLimitKey(endpoint, clientIP)

		ctx, cancel := context.WithTimeout(c.Request.Context(), rateLimitTimeout)
		allowed, err := checkRateLimit(ctx, key, cfg.Limit, cfg.Window)
		cancel()
		if err != nil {
			util.LogAuditEvent(util.AuditEvent{
				EventType: util.EventSuspiciousActivity,
				IP:        clientIP,
				RequestID: GetRequestID(c),
				Message:   fmt.Sprintf("Rate limit check failed: %v", err),
			})
			c.Next()
			return
		}

		if !allowed {
			util.LogAuditEvent(util.AuditEvent{
				EventType: util.EventRateLimitExceeded,
				IP:        clientIP,
				RequestID: GetRequestID(c),
				Message:   fmt.Sprintf("Rate limit exceeded for %s", endpoint),
				Details:   map[string]interface{}{"endpoint": endpoint, "limit": cfg.Limit},
			})

			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: fmt.Errorf("rate limit exceeded"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(endpoint, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// checkRateLimit returns true if the request identified by key is within limit.
func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true, nil
	}

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}
