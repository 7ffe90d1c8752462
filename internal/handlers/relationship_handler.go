package handlers

import (
	"net/http"

	"agelink_backend/internal/middleware"
	"agelink_backend/internal/services"
	"agelink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RelationshipHandler struct {
	*BaseHandler
	relationshipService services.RelationshipService
}

func NewRelationshipHandler(base *BaseHandler, relationshipService services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		BaseHandler:         base,
		relationshipService: relationshipService,
	}
}

func (h *RelationshipHandler) RegisterRoutes(r *gin.RouterGroup) {
	rels := r.Group("/relationships")
	rels.Use(middleware.AuthMiddleware())
	{
		rels.GET("/my", h.GetMy)
		rels.GET("/:id", h.Get)
		rels.POST("/:id/withdraw", h.Withdraw)
	}
}

func (h *RelationshipHandler) GetMy(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	rel, err := h.relationshipService.GetMyRelationship(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RelationshipResponse{Relationship: rel})
}

func (h *RelationshipHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	rel, err := h.relationshipService.GetRelationship(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RelationshipResponse{Relationship: rel})
}

// Withdraw ends the relationship and opens the cooling-off window. Retrying
// a withdrawal that already happened returns the original record.
func (h *RelationshipHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	withdrawal, err := h.relationshipService.Withdraw(c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithdrawalResponse{Withdrawal: withdrawal})
}
