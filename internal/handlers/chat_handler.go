package handlers

import (
	"net/http"

	"agelink_backend/internal/middleware"
	"agelink_backend/internal/services"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatAccessService services.ChatAccessService
	chatService       services.ChatService
}

func NewChatHandler(
	base *BaseHandler,
	chatAccessService services.ChatAccessService,
	chatService services.ChatService,
) *ChatHandler {
	return &ChatHandler{
		BaseHandler:       base,
		chatAccessService: chatAccessService,
		chatService:       chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chats := r.Group("/chat")
	chats.Use(middleware.AuthMiddleware())
	{
		chats.GET("", h.Resolve)
		chats.GET("/dialogs/:id", h.GetDialog)
		chats.GET("/dialogs/:id/messages", h.GetMessages)
		chats.POST("/dialogs/:id/messages", h.SendMessage)
		chats.POST("/dialogs/:id/read", h.MarkRead)
	}
}

// Resolve maps the chat entry request to a conversation surface. Optional
// query params applicationId and relationshipId select an explicit target;
// with neither, the surface follows the user's current pairing stage.
func (h *ChatHandler) Resolve(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	surface, err := h.chatAccessService.ResolveAccess(
		userID,
		c.Query("applicationId"),
		c.Query("relationshipId"),
	)
	if err != nil {
		// An unreachable explicit target still gets the typed error, plus a
		// hint that the client should land on the conversation list instead
		// of a blank state.
		if appErr, ok := apperrors.AsAppError(err); ok &&
			(appErr.Code == apperrors.CodeNotFound || appErr.Code == apperrors.CodeForbidden) {
			c.JSON(appErr.HTTPCode, gin.H{"error": appErr, "fallback": "list"})
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, surface)
}

func (h *ChatHandler) GetDialog(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	dialog, err := h.chatService.GetDialog(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dialog": dialog})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	messages, err := h.chatService.GetMessages(userID, c.Param("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessagesResponse{
		Messages: messages,
		Total:    len(messages),
	})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	message, err := h.chatService.SendMessage(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.MarkRead(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Read"})
}
