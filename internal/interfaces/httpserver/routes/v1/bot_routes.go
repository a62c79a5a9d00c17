package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
)

func registerBotRoutes(router gin.IRoutes, handler *handlers.BotHandler) {
	router.POST("/bots", handler.Create)
	router.GET("/bots", handler.List)
	router.GET("/bots/:uuid", handler.Get)
	router.DELETE("/bots/:uuid", handler.Delete)
	router.POST("/bots/:uuid/activate", handler.Activate)
	router.POST("/bots/:uuid/deactivate", handler.Deactivate)
	router.PATCH("/bots/:uuid/assistant", handler.SetAssistant)
	router.GET("/bots/:uuid/embed", handler.Embed)
}

func registerDocumentRoutes(router gin.IRoutes, handler *handlers.DocumentHandler) {
	router.POST("/bots/:uuid/documents", handler.Upload)
	router.GET("/bots/:uuid/documents", handler.List)
	router.GET("/bots/:uuid/documents/:document_id/content", handler.Content)
}
