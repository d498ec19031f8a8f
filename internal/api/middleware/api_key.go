package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKey verifies the X-Relay-Key header when a key is configured.
// With an empty key the middleware is a no-op, matching the original
// open single-tenant deployment.
func APIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		providedKey := c.GetHeader("X-Relay-Key")
		if providedKey != apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "UNAUTHORIZED",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
