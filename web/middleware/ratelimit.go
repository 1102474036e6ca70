package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/solo-blog/console/caching"
	"github.com/solo-blog/console/logger"
	"github.com/solo-blog/console/web/entity"
	"github.com/solo-blog/console/web/locale"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	Requests int           // allowed requests per key and window
	Window   time.Duration // counting window
	KeyFunc  func(c *gin.Context) string
	Skip     func(c *gin.Context) bool // requests that are never limited
}

// DefaultRateLimitConfig allows 10 requests per minute per client IP.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware rejects a key's requests with 429 once it made more than
// config.Requests calls within config.Window on the same path.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	counters := caching.NewCache(config.Window, 2*config.Window)

	return func(c *gin.Context) {
		if config.Skip != nil && config.Skip(c) {
			c.Next()
			return
		}

		key := "ratelimit:" + config.KeyFunc(c) + ":" + c.Request.URL.Path
		count := counters.Incr(key, config.Window)

		remaining := config.Requests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > config.Requests {
			logger.FromContext(c.Request.Context()).Warningf("rate limit exceeded for %s on %s (count: %d)", config.KeyFunc(c), c.Request.URL.Path, count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{
				Sc:  false,
				Msg: locale.I18n(c, "tooManyRequestsLabel"),
			})
			return
		}
		c.Next()
	}
}
