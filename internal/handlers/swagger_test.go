package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/presupuestos/budget-service/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func newSwaggerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

func TestSwaggerRouteRegistration(t *testing.T) {
	router := newSwaggerRouter()

	found := false
	for _, route := range router.Routes() {
		if route.Path == "/docs/*any" && route.Method == http.MethodGet {
			found = true
			break
		}
	}
	assert.True(t, found, "swagger route should be registered")
}

func TestSwaggerServesAPIDocument(t *testing.T) {
	router := newSwaggerRouter()

	req := httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Budget Service API", doc.Info.Title)

	// every mounted route must be documented
	for _, path := range []string{
		"/health",
		"/api/auth/login",
		"/api/import",
		"/api/import/demo",
		"/api/import/logs",
		"/api/budgets",
		"/api/budgets/stats",
		"/api/budgets/{id}",
		"/api/budgets/{id}/finalize",
		"/api/contacts",
		"/api/contacts/{id}",
		"/api/reports/{type}",
		"/api/badges",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
