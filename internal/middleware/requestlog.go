package middleware

import (
	"time" // Latency measurement

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the context key holding the request id
const RequestIDKey = "requestID"

// RequestLogger tags each request with an id and writes one access log line
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if accountID, ok := c.Get(AccountIDKey); ok {
			entry = entry.WithField("account_id", accountID)
		}
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request")
		case c.Writer.Status() >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
