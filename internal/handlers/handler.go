// Package handlers implements the HTTP API
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/budgets"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/middleware"
	"github.com/presupuestos/budget-service/internal/parsers/csv"
	"github.com/presupuestos/budget-service/internal/reports"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
)

// Handler holds the services behind the HTTP API
type Handler struct {
	Importer       *importer.Service
	Budgets        *budgets.Service
	Auth           *auth.Service
	Reports        *reports.Generator
	Badges         *badges.Engine
	Store          storage.Store
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

// ErrorResponse is the error body of every failed request
type ErrorResponse struct {
	Error  string       `json:"error" jsonschema:"required"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError describes one failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Register mounts the API routes
func (h *Handler) Register(router *gin.Engine, loginLimiter *middleware.IPRateLimiter) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	api.POST("/auth/login", middleware.RateLimitMiddleware(loginLimiter), h.Login)

	protected := api.Group("")
	protected.Use(middleware.SessionMiddleware(h.Auth))
	writers := middleware.RequireRole(types.RoleAdmin, types.RoleVendedor)
	{
		protected.POST("/import", writers, h.Import)
		protected.POST("/import/demo", writers, h.ImportDemo)
		protected.GET("/import/logs", h.ListImportLogs)

		protected.GET("/budgets", h.ListBudgets)
		protected.GET("/budgets/stats", h.BudgetStats)
		protected.GET("/budgets/:id", h.GetBudget)
		protected.PATCH("/budgets/:id", writers, h.PatchBudget)
		protected.POST("/budgets/:id/finalize", writers, h.FinalizeBudget)

		protected.GET("/contacts", h.ListContacts)
		protected.PUT("/contacts/:id", writers, h.UpdateContact)

		protected.GET("/reports/:type", h.GenerateReport)
		protected.GET("/badges", h.ListBadges)
	}
}

// actor returns the acting user of the request
func actor(c *gin.Context) budgets.Actor {
	if s := middleware.CurrentSession(c); s != nil {
		return budgets.Actor{UserID: s.UserID, Username: s.Username}
	}
	return budgets.Actor{}
}

// bindError writes a 400 with field-level details when the binding failed validation
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   jsonFieldName(fe),
				Tag:     fe.Tag(),
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
}

func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// respondError maps service errors to HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	var parseErr *csv.ParseError
	switch {
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: parseErr.Error()})
	case errors.Is(err, importer.ErrEmptyUpload):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty file"})
	case errors.Is(err, budgets.ErrInvalidPatch), errors.Is(err, reports.ErrUnsupported), errors.Is(err, badges.ErrUnknownBadge):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, budgets.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	default:
		h.Logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
