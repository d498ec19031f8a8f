package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logging logs HTTP requests with structured fields
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log after request
		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		// The callback query string carries the authorization code;
		// keep it out of the logs
		if raw != "" && path != "/oauth-callback" {
			path = path + "?" + raw
		}

		logger.Info("HTTP request",
			"component", "api",
			"request_id", c.GetString(RequestIDKey),
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency.String(),
			"client_ip", clientIP,
			"error", errorMessage,
		)
	}
}
