package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shoplyft/plan-service/internal/pkg/cuid2"
)

// RequestIDHeader carries the request ID on responses and inbound requests.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID assigns each request a unique ID, honoring one supplied by the
// caller. The ID is echoed on the response and exposed for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = cuid2.GeneratePrefixedId("req")
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the ID assigned to the current request, if any.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
