package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/middlewares"
)

// preflight is reached only when the CORS middleware did not answer first.
func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func registerStatusRoutes(router gin.IRoutes, handler *handlers.StatusHandler) {
	router.GET("/bots/:uuid/status", handler.Get)
	router.OPTIONS("/bots/:uuid/status", preflight)
}

func registerNavigationEventRoutes(router gin.IRoutes, handler *handlers.NavigationHandler, limitPerMinute int) {
	router.POST("/navigation/events", middlewares.RateLimitMiddleware(float64(limitPerMinute)), handler.Record)
	router.OPTIONS("/navigation/events", preflight)
}
