package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSAllowedHeaders lists the request headers cross-origin callers may send
// beyond the CORS safelisted ones.
const CORSAllowedHeaders = "Authorization, Content-Type, X-Request-Id, X-Owner-Id"

// CORSMiddleware allows any origin. The widget runs on arbitrary third-party
// pages and owner calls carry bearer tokens, never cookies.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", CORSAllowedHeaders)
		h.Set("Access-Control-Expose-Headers", "X-Request-Id, Retry-After")
		h.Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
