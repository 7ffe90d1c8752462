package ws

import (
	"net/http"

	"agelink_backend/internal/logger"
	"agelink_backend/internal/middleware"
	"agelink_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth happens in middleware; origin is not restricted.
		return true
	},
}

type Handler struct {
	manager     *Manager
	chatService services.ChatService
}

func NewHandler(manager *Manager, chatService services.ChatService) *Handler {
	return &Handler{
		manager:     manager,
		chatService: chatService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/chat", middleware.AuthMiddleware(), h.ServeWS)
}

func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("ws upgrade failed", "user_id", userID)
		return
	}

	client := &Client{
		UserID:      userID,
		Conn:        conn,
		Send:        make(chan any, 256),
		manager:     h.manager,
		chatService: h.chatService,
	}

	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}
