package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/types"
)

// ListContacts returns every stored contact
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Success 200 {array} storage.ContactRecord
// @Security BearerAuth
// @Router /api/contacts [get]
func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.Budgets.ListContacts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// UpdateContact replaces the editable fields of a contact
// @Summary Update contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param body body types.Contact true "Contact"
// @Success 200 {object} storage.ContactRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/contacts/{id} [put]
func (h *Handler) UpdateContact(c *gin.Context) {
	var contact types.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		bindError(c, err)
		return
	}

	rec, err := h.Budgets.UpdateContact(c.Request.Context(), c.Param("id"), contact)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
