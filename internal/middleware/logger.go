package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString("requestID")
}

// Logger writes one line per request. Errors attached to the context are
// logged with it.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if uid := GetUserID(c); uid != uuid.Nil {
			attrs = append(attrs, "user_id", uid, "role", GetUserRole(c))
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("request failed", append(attrs, "error", c.Errors.String())...)
		case c.Writer.Status() >= 500:
			log.Error("request failed", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}
