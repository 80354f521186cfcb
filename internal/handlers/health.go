package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string                 `json:"status"`
	Storage  string                 `json:"storage"`
	Database string                 `json:"database"`
	Pool     *database.PoolSnapshot `json:"pool,omitempty"`
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:   "ok",
		Storage:  "ok",
		Database: "not configured",
	}

	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Database = "disconnected"
		} else {
			response.Database = "connected"
		}
		response.Pool = database.Snapshot()
	}

	if err := h.Store.Ping(c.Request.Context()); err != nil {
		response.Status = "degraded"
		response.Storage = "unavailable"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
