package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/reports"
)

// GenerateReportRequest represents query parameters for a report
type GenerateReportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx pdf"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// GenerateReport renders a report as a file download
// @Summary Generate report
// @Tags reports
// @Produce octet-stream
// @Param type path string true "Report type" Enums(seguimiento, vencidos, resumen)
// @Param format query string false "Output format" Enums(csv, xlsx, pdf) default(csv)
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/reports/{type} [get]
func (h *Handler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Format == "" {
		req.Format = string(reports.FormatCSV)
	}

	var dateRange reports.DateRange
	if req.From != "" {
		dateRange.From, _ = time.Parse(time.DateOnly, req.From)
	}
	if req.To != "" {
		dateRange.To, _ = time.Parse(time.DateOnly, req.To)
	}

	handle, err := h.Reports.Generate(c.Request.Context(), reports.Type(c.Param("type")), dateRange, reports.Format(req.Format))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, handle.Filename))
	c.Header("X-Report-Id", handle.ID)
	c.Data(http.StatusOK, handle.ContentType, handle.Content)
}
