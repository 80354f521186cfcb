package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the login body
type LoginRequest struct {
	Username string `json:"username" binding:"required" jsonschema:"required"`
	Password string `json:"password" binding:"required" jsonschema:"required"`
}

// Login authenticates a user and returns a session token
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} auth.Session
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.Logger.Info().Str("username", req.Username).Msg("Login failed")
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
