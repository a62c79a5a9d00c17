package routes

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	v1 "jan-server/services/voicebot-api/internal/interfaces/httpserver/routes/v1"
)

// Provider coordinates all route registrations.
type Provider struct {
	V1     *v1.Routes
	Widget *WidgetRoutes
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider, navigationRateLimit int) *Provider {
	return &Provider{
		V1:     v1.NewRoutes(handlerProvider, navigationRateLimit),
		Widget: &WidgetRoutes{handler: handlerProvider.Widget},
	}
}

// RegisterPublic attaches the routes embedded pages call. They must be
// registered before the auth middleware is installed.
func (p *Provider) RegisterPublic(engine *gin.Engine) {
	p.Widget.Register(engine)
	p.V1.RegisterPublic(engine)
}

// Register attaches the owner routes.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine)
}

// WidgetRoutes serves the widget bundle under /widget.
type WidgetRoutes struct {
	handler *handlers.WidgetHandler
}

func (r *WidgetRoutes) Register(engine *gin.Engine) {
	if r.handler == nil {
		return
	}
	group := engine.Group("/widget")
	group.GET("/voicebot.js", r.handler.Loader)
	group.GET("/"+handlers.WidgetWasmFile, r.handler.Wasm)
	group.GET("/"+handlers.WidgetRuntimeFile, r.handler.Runtime)
}
