package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wso2/consent-extension-api/internal/system/constants"
)

const correlationIDContextKey = "correlation_id"

// CorrelationIDMiddleware propagates an inbound correlation identifier or
// mints a fresh one, and echoes it on the response.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(correlationIDContextKey, correlationID)
		c.Header(constants.CorrelationIDHeaderName, correlationID)
		c.Next()
	}
}

// CorrelationIDFromContext returns the correlation ID set by the middleware.
func CorrelationIDFromContext(c *gin.Context) string {
	if id, exists := c.Get(correlationIDContextKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

func extractCorrelationID(c *gin.Context) string {
	headers := []string{constants.CorrelationIDHeaderName, "X-Request-ID", "X-Trace-ID"}
	for _, header := range headers {
		if id := c.GetHeader(header); id != "" {
			return id
		}
	}
	return ""
}
