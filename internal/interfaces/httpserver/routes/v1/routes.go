package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers            *handlers.Provider
	navigationRateLimit int
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider, navigationRateLimit int) *Routes {
	return &Routes{
		handlers:            handlerProvider,
		navigationRateLimit: navigationRateLimit,
	}
}

// RegisterPublic attaches the unauthenticated v1 routes. They answer any origin.
func (r *Routes) RegisterPublic(engine *gin.Engine) {
	group := engine.Group("/v1", middlewares.CORSMiddleware())
	registerStatusRoutes(group, r.handlers.Status)
	registerNavigationEventRoutes(group, r.handlers.Navigation, r.navigationRateLimit)

	if r.handlers.Widget != nil {
		group.GET("/widget/config", r.handlers.Widget.Config)
	}
}

// Register attaches the owner v1 routes under /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	registerBotRoutes(group, r.handlers.Bot)

	if r.handlers.Navigation != nil {
		group.GET("/bots/:uuid/navigation-events", r.handlers.Navigation.List)
	}

	// Document routes (optional - only if handler is provided)
	if r.handlers.Document != nil {
		registerDocumentRoutes(group, r.handlers.Document)
	}
}
