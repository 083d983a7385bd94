package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the context key for the per-request correlation id
const RequestIDKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with a correlation id so log lines
// from one request can be tied together. A client-supplied X-Request-ID is
// honored; otherwise a short id is generated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = newRequestID()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}

// newRequestID returns the first 8 chars of a UUID, short enough to read in
// log output
func newRequestID() string {
	return uuid.New().String()[:8]
}

// GetRequestID retrieves the request ID from context
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}
