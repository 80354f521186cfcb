package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T, roles ...types.Role) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := auth.NewService(storage.NewMemoryStore(), "secret", time.Hour)
	router := gin.New()
	router.GET("/private",
		SessionMiddleware(svc),
		RequireRole(roles...),
		func(c *gin.Context) {
			c.String(http.StatusOK, CurrentSession(c).Username)
		},
	)
	return router, svc
}

func login(t *testing.T, svc *auth.Service, username string, role types.Role) string {
	t.Helper()
	ctx := context.Background()
	_, err := svc.EnsureUser(ctx, username, "pw", role)
	require.NoError(t, err)
	session, err := svc.Login(ctx, username, "pw")
	require.NoError(t, err)
	return session.Token
}

func TestSessionMiddleware(t *testing.T) {
	router, svc := newProtectedRouter(t, types.RoleVendedor)
	vendedor := login(t, svc, "vera", types.RoleVendedor)
	lector := login(t, svc, "luis", types.RoleLector)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "forbidden role", header: "Bearer " + lector, status: http.StatusForbidden},
		{name: "allowed", header: "Bearer " + vendedor, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewIPRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	router := gin.New()
	router.POST("/login", RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	limiter.Reset()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
