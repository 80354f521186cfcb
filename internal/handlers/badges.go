package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListBadges returns the badges of the current user
// @Summary List my badges
// @Tags badges
// @Produce json
// @Success 200 {array} badges.UserBadge
// @Security BearerAuth
// @Router /api/badges [get]
func (h *Handler) ListBadges(c *gin.Context) {
	list, err := h.Badges.List(c.Request.Context(), actor(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
