package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorLogger logs the errors handlers attached to the context. A string
// meta value is logged as the error code.
func ErrorLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			ev := logger.Error().
				Err(e.Err).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Int("status", c.Writer.Status())

			if code, ok := e.Meta.(string); ok {
				ev = ev.Str("code", code)
			}
			ev.Msg("request failed")
		}
	}
}
