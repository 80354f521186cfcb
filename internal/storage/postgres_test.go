package storage

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("budgets"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx), "migrate is idempotent")
	return s
}

func TestPostgresStore_Budgets(t *testing.T) {
	s := setupPostgresStore(t)
	ctx := context.Background()

	q := types.Quote{
		ID:                "P-1",
		Empresa:           "Municipalidad de Rosario",
		FechaCreacion:     "01/02/2024 10:00",
		Moneda:            types.DefaultCurrency,
		MontoTotal:        decimal.RequireFromString("1234.56"),
		Items:             []types.Item{{Codigo: "X1", Cantidad: 2, Precio: decimal.RequireFromString("617.28")}},
		Alertas:           []string{},
		Estado:            types.StatusPendiente,
		TipoSeguimiento:   types.StageConfirmacion,
		HistorialEtapas:   []types.StageEntry{},
		HistorialAcciones: []types.ActionEntry{},
	}
	require.NoError(t, s.UpsertBudget(ctx, q))
	require.NoError(t, s.UpsertBudget(ctx, types.Quote{ID: "P-2", Estado: types.StatusPendiente}))

	got, err := s.GetBudget(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, q.Empresa, got.Empresa)
	assert.True(t, q.MontoTotal.Equal(got.MontoTotal))
	require.Len(t, got.Items, 1)

	q.Notas = "llamar el lunes"
	require.NoError(t, s.UpsertBudget(ctx, q))

	all, err := s.GetAllBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "P-1", all[0].ID)
	assert.Equal(t, "llamar el lunes", all[0].Notas)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.MarkFinalized(ctx, "P-2", types.StatusRechazado, at))
	fin, err := s.GetBudget(ctx, "P-2")
	require.NoError(t, err)
	assert.True(t, fin.Finalizado)
	assert.Equal(t, types.StatusRechazado, fin.Estado)
	require.NotNil(t, fin.FechaFinalizado)
	assert.True(t, at.Equal(*fin.FechaFinalizado))

	_, err = s.GetBudget(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.MarkFinalized(ctx, "missing", types.StatusVencido, at), ErrNotFound)
}

func TestPostgresStore_LogsUsersBadges(t *testing.T) {
	s := setupPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.CreateImportLog(ctx, types.ImportLog{ID: "l1", Filename: "a.csv", Source: types.SourceUpload, Total: 3, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateImportLog(ctx, types.ImportLog{ID: "l2", Filename: "b.csv", Source: types.SourceDemo, Total: 5, CreatedAt: now}))
	logs, err := s.ListImportLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "l2", logs[0].ID)
	assert.Equal(t, types.SourceDemo, logs[0].Source)

	require.NoError(t, s.UpsertUser(ctx, types.User{ID: "u1", Username: "ana", PasswordHash: "h", Role: types.RoleAdmin, CreatedAt: now}))
	u, err := s.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, u.Role)

	require.NoError(t, s.UpsertBadgeProgress(ctx, types.BadgeProgress{UserID: "u1", BadgeID: "importador", Progress: 1, Target: 1, Completed: true, CompletedAt: &now, UpdatedAt: now}))
	p, err := s.GetBadgeProgress(ctx, "u1", "importador")
	require.NoError(t, err)
	assert.True(t, p.Completed)

	c := ContactRecord{ID: "c-1", Empresa: "Acme", QuoteIDs: []string{"P-1"}}
	c.Nombre = "Juan"
	require.NoError(t, s.UpsertContact(ctx, c))
	contacts, err := s.GetAllContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Juan", contacts[0].Nombre)
}
