package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/budgets"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/middleware"
	"github.com/presupuestos/budget-service/internal/reports"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportCSV = "ID;Empresa;FechaCreacion;NroItem;Cantidad;Codigo_Producto;Descripcion;Fabricante;NetoItems_USD;Descuento;Validez;Nombre_Contacto;Direccion\n" +
	"P-100;Acme SA;01/03/2024 10:30;1;2;AB-1;Bomba;Grundfos;1.000,00;0;30;Juan Pérez;juan@acme.com\n" +
	"P-200;Beta SRL;20/02/2024 08:00;1;1;CD-2;Motor;WEG;500,50;0;10;;\n"

type testAPI struct {
	router *gin.Engine
	store  *storage.MemoryStore
	tokens map[types.Role]string
}

func newTestAPI(t *testing.T, opts ...importer.Option) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	logger := zerolog.Nop()
	badgeEngine := badges.NewEngine(store, logger)
	authSvc := auth.NewService(store, "test-secret", time.Hour)
	now := func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

	h := &Handler{
		Importer:       importer.NewService(store, logger, append([]importer.Option{importer.WithBadges(badgeEngine), importer.WithClock(now)}, opts...)...),
		Budgets:        budgets.NewService(store, badgeEngine, logger),
		Auth:           authSvc,
		Reports:        reports.NewGenerator(store, logger),
		Badges:         badgeEngine,
		Store:          store,
		Logger:         logger,
		MaxUploadBytes: 1 << 20,
	}

	router := gin.New()
	h.Register(router, middleware.NewIPRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 100, BurstSize: 100}))

	api := &testAPI{router: router, store: store, tokens: map[types.Role]string{}}
	for _, role := range []types.Role{types.RoleAdmin, types.RoleVendedor, types.RoleLector} {
		username := string(role) + "-user"
		_, err := authSvc.EnsureUser(context.Background(), username, "pw", role)
		require.NoError(t, err)
		session, err := authSvc.Login(context.Background(), username, "pw")
		require.NoError(t, err)
		api.tokens[role] = session.Token
	}
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, role types.Role, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[role])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) upload(t *testing.T, role types.Role, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[role])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Storage)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	t.Run("success", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "admin-user", Password: "pw"})
		require.Equal(t, http.StatusOK, w.Code)
		session := decode[auth.Session](t, w)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, types.RoleAdmin, session.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "admin-user", Password: "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin-user"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "validation failed", resp.Error)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "password", resp.Fields[0].Field)
		assert.Equal(t, "required", resp.Fields[0].Tag)
	})
}

func TestImport(t *testing.T) {
	api := newTestAPI(t)

	t.Run("requires session", func(t *testing.T) {
		w := api.upload(t, "", "a.csv", exportCSV, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reader forbidden", func(t *testing.T) {
		w := api.upload(t, types.RoleLector, "a.csv", exportCSV, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		w := api.upload(t, types.RoleVendedor, "", "", map[string]string{"compareWithPrevious": "true"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not a quote export", func(t *testing.T) {
		w := api.upload(t, types.RoleVendedor, "x.csv", "a,b\n1,2\n", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[ErrorResponse](t, w).Error, "missing required columns")
	})

	t.Run("success", func(t *testing.T) {
		w := api.upload(t, types.RoleVendedor, "a.csv", exportCSV, map[string]string{
			"compareWithPrevious": "true",
			"autoFinalizeMissing": "true",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		summary := decode[importer.Summary](t, w)
		assert.Equal(t, 2, summary.Added)
		assert.Equal(t, 2, summary.Total)

		w = api.do(t, http.MethodGet, "/api/import/logs", types.RoleLector, nil)
		require.Equal(t, http.StatusOK, w.Code)
		logs := decode[[]types.ImportLog](t, w)
		require.Len(t, logs, 1)
		assert.Equal(t, "vendedor-user", logs[0].Username)
	})
}

func TestImportDemo(t *testing.T) {
	demo := filepath.Join(t.TempDir(), "demo.csv")
	require.NoError(t, os.WriteFile(demo, []byte(exportCSV), 0o600))
	api := newTestAPI(t, importer.WithDemoFile(demo))

	t.Run("reader forbidden", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/import/demo", types.RoleLector, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("records the caller", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/import/demo", types.RoleAdmin, types.ImportOptions{CompareWithPrevious: true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		summary := decode[importer.Summary](t, w)
		assert.Equal(t, 2, summary.Added)

		w = api.do(t, http.MethodGet, "/api/import/logs", types.RoleLector, nil)
		require.Equal(t, http.StatusOK, w.Code)
		logs := decode[[]types.ImportLog](t, w)
		require.Len(t, logs, 1)
		assert.Equal(t, "admin-user", logs[0].Username)
		assert.Equal(t, types.SourceDemo, logs[0].Source)
	})
}

func TestImportJSON(t *testing.T) {
	api := newTestAPI(t)

	t.Run("missing csvData", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/import", types.RoleVendedor, map[string]interface{}{
			"options": map[string]bool{"compareWithPrevious": true},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "csvData", resp.Fields[0].Field)
		assert.Equal(t, "required", resp.Fields[0].Tag)
	})

	t.Run("success", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/import", types.RoleVendedor, ImportRequest{CsvData: exportCSV})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := decode[types.ImportResult](t, w)
		assert.Equal(t, types.ImportResult{Added: 2, Total: 2}, result)

		w = api.do(t, http.MethodPost, "/api/import", types.RoleVendedor, ImportRequest{
			CsvData:  exportCSV,
			Filename: "again.csv",
			Options:  types.ImportOptions{CompareWithPrevious: true, AutoFinalizeMissing: true},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, types.ImportResult{Updated: 2, Total: 2}, decode[types.ImportResult](t, w))
	})
}

func TestBudgetEndpoints(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.upload(t, types.RoleAdmin, "a.csv", exportCSV, nil).Code)

	t.Run("list with filter", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/budgets?q=beta", types.RoleLector, nil)
		require.Equal(t, http.StatusOK, w.Code)
		quotes := decode[[]types.Quote](t, w)
		require.Len(t, quotes, 1)
		assert.Equal(t, "P-200", quotes[0].ID)
	})

	t.Run("invalid filter", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/budgets?prioridad=Urgente", types.RoleLector, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/budgets/nope", types.RoleLector, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("patch invalid estado", func(t *testing.T) {
		w := api.do(t, http.MethodPatch, "/api/budgets/P-100", types.RoleVendedor, map[string]string{"estado": "Perdido"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "estado", resp.Fields[0].Field)
		assert.Equal(t, "oneof", resp.Fields[0].Tag)
	})

	t.Run("patch", func(t *testing.T) {
		w := api.do(t, http.MethodPatch, "/api/budgets/P-100", types.RoleVendedor, map[string]interface{}{
			"notas":      "Enviar catálogo",
			"completado": true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		q := decode[types.Quote](t, w)
		assert.Equal(t, "Enviar catálogo", q.Notas)
		assert.Len(t, q.HistorialEtapas, 1)
	})

	t.Run("reader cannot patch", func(t *testing.T) {
		w := api.do(t, http.MethodPatch, "/api/budgets/P-100", types.RoleLector, map[string]string{"notas": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("finalize", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/budgets/P-200/finalize", types.RoleVendedor, FinalizeRequest{Estado: types.StatusAprobado})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		q := decode[types.Quote](t, w)
		assert.True(t, q.Finalizado)

		w = api.do(t, http.MethodPost, "/api/budgets/P-200/finalize", types.RoleVendedor, FinalizeRequest{Estado: types.StatusRechazado})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = api.do(t, http.MethodPost, "/api/budgets/P-100/finalize", types.RoleVendedor, FinalizeRequest{Estado: types.StatusPendiente})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stats", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/budgets/stats", types.RoleLector, nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[budgets.Stats](t, w)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.Finalizados)
	})

	t.Run("badges", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/badges", types.RoleVendedor, nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]badges.UserBadge](t, w)
		progress := map[string]int{}
		for _, b := range list {
			progress[b.ID] = b.Progress
		}
		assert.Equal(t, 1, progress[badges.BadgeSeguidor])
		assert.Equal(t, 1, progress[badges.BadgeCerrador])
	})
}

func TestContactEndpoints(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.upload(t, types.RoleAdmin, "a.csv", exportCSV, nil).Code)

	w := api.do(t, http.MethodGet, "/api/contacts", types.RoleLector, nil)
	require.Equal(t, http.StatusOK, w.Code)
	contacts := decode[[]storage.ContactRecord](t, w)
	require.Len(t, contacts, 1)

	w = api.do(t, http.MethodPut, "/api/contacts/"+contacts[0].ID, types.RoleVendedor, types.Contact{Nombre: "Juan Pérez", Telefono: "351 555 0000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "351 555 0000", decode[storage.ContactRecord](t, w).Telefono)

	w = api.do(t, http.MethodPut, "/api/contacts/"+contacts[0].ID, types.RoleVendedor, types.Contact{Telefono: "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/contacts/unknown", types.RoleVendedor, types.Contact{Nombre: "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateReport(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.upload(t, types.RoleAdmin, "a.csv", exportCSV, nil).Code)

	w := api.do(t, http.MethodGet, "/api/reports/seguimiento?format=csv", types.RoleLector, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment; filename=\"seguimiento_"))
	assert.Contains(t, w.Body.String(), "P-100")

	w = api.do(t, http.MethodGet, "/api/reports/ventas", types.RoleLector, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/reports/resumen?format=docx", types.RoleLector, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/reports/resumen?from=2024-13-01", types.RoleLector, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
