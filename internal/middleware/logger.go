package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medease/medease-api/pkg/logger"
)

// RequestLogger logs one line per request, levelled by response status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		evt := log.ZL.Info()
		switch {
		case status >= 500:
			evt = log.ZL.Error()
		case status >= 400:
			evt = log.ZL.Warn()
		}

		evt.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
