package middleware

import (
	"time"

	"github.com/solo-blog/console/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestLogger binds a logger.Entry tagged with the request id to the request
// context and logs each request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := logger.NewEntry(requestID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), entry))

		start := time.Now()
		c.Next()

		entry.Debugf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
