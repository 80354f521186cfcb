package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/types"
)

// ImportForm holds the multipart import options
type ImportForm struct {
	CompareWithPrevious bool `form:"compareWithPrevious"`
	AutoFinalizeMissing bool `form:"autoFinalizeMissing"`
}

// ImportRequest is the JSON import body carrying the export as text
type ImportRequest struct {
	CsvData  string              `json:"csvData" binding:"required"`
	Filename string              `json:"filename,omitempty"`
	Options  types.ImportOptions `json:"options"`
}

// ListImportLogsRequest represents query parameters for listing import logs
type ListImportLogsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Import imports an uploaded quote export
// @Summary Import a CSV export
// @Description Parses, classifies and reconciles a quote export against the stored quotes.
// @Description Accepts a multipart upload (CSV or XLSX) or a JSON body with the CSV text.
// @Tags import
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "CSV or XLSX export"
// @Param compareWithPrevious formData bool false "Compare with stored quotes"
// @Param autoFinalizeMissing formData bool false "Finalize stored quotes missing from the file"
// @Success 200 {object} importer.Summary
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	if c.ContentType() == gin.MIMEJSON {
		h.importJSON(c)
		return
	}

	var form ImportForm
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
			return
		}
		bindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.runImport(c, fileHeader.Filename, content, types.ImportOptions{
		CompareWithPrevious: form.CompareWithPrevious,
		AutoFinalizeMissing: form.AutoFinalizeMissing,
	})
}

func (h *Handler) importJSON(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
			return
		}
		bindError(c, err)
		return
	}
	if req.Filename == "" {
		req.Filename = "import.csv"
	}
	h.runImport(c, req.Filename, []byte(req.CsvData), req.Options)
}

func (h *Handler) runImport(c *gin.Context, filename string, content []byte, opts types.ImportOptions) {
	a := actor(c)
	summary, err := h.Importer.Import(c.Request.Context(), importer.Request{
		Filename: filename,
		Content:  content,
		Options:  opts,
		Source:   types.SourceUpload,
		UserID:   a.UserID,
		Username: a.Username,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ImportDemo imports the server-side demo export
// @Summary Import the demo export
// @Tags import
// @Accept json
// @Produce json
// @Param body body types.ImportOptions false "Import options"
// @Success 200 {object} importer.Summary
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/import/demo [post]
func (h *Handler) ImportDemo(c *gin.Context) {
	var opts types.ImportOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			bindError(c, err)
			return
		}
	}

	a := actor(c)
	summary, err := h.Importer.ImportDemo(c.Request.Context(), opts, a.UserID, a.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListImportLogs returns the most recent imports
// @Summary List import logs
// @Tags import
// @Produce json
// @Param limit query int false "Number of items to return" default(50) minimum(1) maximum(500)
// @Success 200 {array} types.ImportLog
// @Security BearerAuth
// @Router /api/import/logs [get]
func (h *Handler) ListImportLogs(c *gin.Context) {
	var req ListImportLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	logs, err := h.Importer.Logs(c.Request.Context(), req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
