package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger writes one log line per request. The level follows the
// status: 5xx error, 4xx warn, otherwise info. Handlers can reach a logger
// carrying the correlation ID through zerolog.Ctx(c.Request.Context()).
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := base.With().Str("correlation_id", GetCorrelationID(c)).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var e *zerolog.Event
		switch {
		case status >= 500:
			e = reqLogger.Error()
		case status >= 400:
			e = reqLogger.Warn()
		default:
			e = reqLogger.Info()
		}
		if len(c.Errors) > 0 {
			e = e.Str("errors", c.Errors.String())
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			e = e.Str("user_id", userID)
		}

		e.Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Str("client_ip", c.ClientIP()).
			Msg("API")
	}
}
