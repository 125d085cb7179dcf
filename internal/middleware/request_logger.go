package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

type RequestLogger struct {
	log *logger.Logger
}

func NewRequestLogger(log *logger.Logger) *RequestLogger {
	return &RequestLogger{log: log.With("middleware", "RequestLogger")}
}

// Handler tags every request with an ID and logs method, path, status and
// latency once the handler chain finishes.
func (m *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		m.log.Info("request handled",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
