package routes

import (
	"net/http"

	"agelink_backend/internal/handlers"
	"agelink_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every HTTP and WebSocket route.
func RegisterRoutes(
	router *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		appHandlers.Entry.RegisterRoutes(api)
		appHandlers.Auth.RegisterRoutes(api)
		appHandlers.Profile.RegisterRoutes(api)
		appHandlers.Application.RegisterRoutes(api)
		appHandlers.Relationship.RegisterRoutes(api)
		appHandlers.Chat.RegisterRoutes(api)
		appHandlers.Notification.RegisterRoutes(api)
	}

	wsGroup := router.Group("/ws")
	{
		wsHandler.RegisterRoutes(wsGroup)
	}
}
