package handlers

import (
	"net/http"
	"strings"

	"agelink_backend/internal/auth"
	"agelink_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	*BaseHandler
	gateService services.GateService
}

func NewEntryHandler(base *BaseHandler, gateService services.GateService) *EntryHandler {
	return &EntryHandler{
		BaseHandler: base,
		gateService: gateService,
	}
}

func (h *EntryHandler) RegisterRoutes(r *gin.RouterGroup) {
	// No auth middleware: an absent or expired token is a valid input here
	// and routes to the login screen instead of a 401.
	r.GET("/entry", h.Resolve)
}

// Resolve answers "where does this user land on cold start". The verdict is
// computed fresh on every call; clients must not cache it across launches.
func (h *EntryHandler) Resolve(c *gin.Context) {
	var claims *auth.Claims

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		parsed, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err == nil {
			claims = parsed
		}
	}

	route, err := h.gateService.ResolveEntryRoute(claims)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}
