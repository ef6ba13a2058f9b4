package middleware

import (
	"time"

	"financial-advisor/api/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogging tags every request with an id (reusing the caller's when
// one is supplied) and logs method, path, status and latency.
func RequestLogging(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Writer.Header().Set(RequestIDHeader, requestID)

	c.Next()

	logger.Get().Info("request",
		zap.String("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		zap.String("client_ip", c.ClientIP()),
	)
}
