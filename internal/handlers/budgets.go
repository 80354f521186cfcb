package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/budgets"
	"github.com/presupuestos/budget-service/internal/types"
)

// ListBudgetsRequest represents query parameters for listing quotes
type ListBudgetsRequest struct {
	Etapa      string `form:"etapa" binding:"omitempty,oneof=Confirmación 'Primer Seguimiento' 'Seguimiento Final' Vencido"`
	Estado     string `form:"estado" binding:"omitempty,oneof=Pendiente Aprobado Rechazado Vencido"`
	Prioridad  string `form:"prioridad" binding:"omitempty,oneof=Alta Media Baja"`
	Finalizado *bool  `form:"finalizado"`
	Q          string `form:"q"`
}

// FinalizeRequest is the finalize body
type FinalizeRequest struct {
	Estado types.Status `json:"estado" binding:"required,oneof=Aprobado Rechazado Vencido" jsonschema:"required,enum=Aprobado,enum=Rechazado,enum=Vencido"`
}

// ListBudgets returns the stored quotes
// @Summary List quotes
// @Tags budgets
// @Produce json
// @Param etapa query string false "Filter by follow-up stage"
// @Param estado query string false "Filter by status" Enums(Pendiente, Aprobado, Rechazado, Vencido)
// @Param prioridad query string false "Filter by priority" Enums(Alta, Media, Baja)
// @Param finalizado query bool false "Filter by finalized flag"
// @Param q query string false "Search by ID or company"
// @Success 200 {array} types.Quote
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/budgets [get]
func (h *Handler) ListBudgets(c *gin.Context) {
	var req ListBudgetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	quotes, err := h.Budgets.List(c.Request.Context(), budgets.Filter{
		Stage:      types.Stage(req.Etapa),
		Estado:     types.Status(req.Estado),
		Prioridad:  types.Priority(req.Prioridad),
		Finalizado: req.Finalizado,
		Query:      req.Q,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// BudgetStats returns aggregate counts
// @Summary Quote statistics
// @Tags budgets
// @Produce json
// @Success 200 {object} budgets.Stats
// @Security BearerAuth
// @Router /api/budgets/stats [get]
func (h *Handler) BudgetStats(c *gin.Context) {
	stats, err := h.Budgets.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetBudget returns one quote
// @Summary Get quote
// @Tags budgets
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} types.Quote
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/budgets/{id} [get]
func (h *Handler) GetBudget(c *gin.Context) {
	q, err := h.Budgets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// PatchBudget updates the user-owned fields of a quote
// @Summary Update quote
// @Description Only notas, completado, estado and contacto can be changed
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param body body budgets.Patch true "Fields to change"
// @Success 200 {object} types.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/budgets/{id} [patch]
func (h *Handler) PatchBudget(c *gin.Context) {
	var patch budgets.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	q, err := h.Budgets.Update(c.Request.Context(), c.Param("id"), patch, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// FinalizeBudget closes a quote with a final status
// @Summary Finalize quote
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param body body FinalizeRequest true "Final status"
// @Success 200 {object} types.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/budgets/{id}/finalize [post]
func (h *Handler) FinalizeBudget(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	q, err := h.Budgets.Finalize(c.Request.Context(), c.Param("id"), req.Estado, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
