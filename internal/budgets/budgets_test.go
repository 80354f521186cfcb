package budgets

import (
	"context"
	"testing"
	"time"

	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)

var actor = Actor{UserID: "u1", Username: "ana"}

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewService(store, badges.NewEngine(store, zerolog.Nop()), zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	seed := []types.Quote{
		{ID: "P-1", Empresa: "Acme SA", TipoSeguimiento: types.StageConfirmacion, Prioridad: types.PriorityAlta,
			Estado: types.StatusPendiente, MontoTotal: decimal.RequireFromString("100.50")},
		{ID: "P-2", Empresa: "Municipalidad de Salta", TipoSeguimiento: types.StageSeguimientoFinal, Prioridad: types.PriorityAlta,
			Estado: types.StatusPendiente, EsLicitacion: true, MontoTotal: decimal.RequireFromString("2000")},
		{ID: "P-3", Empresa: "Beta SRL", TipoSeguimiento: types.StageVencido, Prioridad: types.PriorityAlta,
			Estado: types.StatusVencido, Finalizado: true, MontoTotal: decimal.RequireFromString("50")},
	}
	for _, q := range seed {
		require.NoError(t, store.UpsertBudget(context.Background(), q))
	}
	return svc, store
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", filter: Filter{}, want: []string{"P-1", "P-2", "P-3"}},
		{name: "by stage", filter: Filter{Stage: types.StageSeguimientoFinal}, want: []string{"P-2"}},
		{name: "active only", filter: Filter{Finalizado: types.BoolPtr(false)}, want: []string{"P-1", "P-2"}},
		{name: "by estado", filter: Filter{Estado: types.StatusVencido}, want: []string{"P-3"}},
		{name: "query on company", filter: Filter{Query: "municipalidad"}, want: []string{"P-2"}},
		{name: "query on id", filter: Filter{Query: "p-1"}, want: []string{"P-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, q := range got {
				ids = append(ids, q.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestService_UpdateCompletadoRecordsHistory(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	q, err := svc.Update(ctx, "P-1", Patch{Completado: types.BoolPtr(true), Notas: types.StringPtr("Cliente interesado")}, actor)
	require.NoError(t, err)

	assert.True(t, q.Completado)
	assert.Equal(t, "Cliente interesado", q.Notas)
	require.Len(t, q.HistorialEtapas, 1)
	assert.Equal(t, types.StageConfirmacion, q.HistorialEtapas[0].Etapa)
	assert.Equal(t, fixedNow, q.HistorialEtapas[0].Fecha)
	assert.Equal(t, "ana", q.HistorialEtapas[0].Usuario)
	require.Len(t, q.HistorialAcciones, 2)
	assert.Equal(t, ActionNotas, q.HistorialAcciones[0].Accion)
	assert.Equal(t, ActionCompletado, q.HistorialAcciones[1].Accion)

	stored, err := store.GetBudget(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, q.HistorialAcciones, stored.HistorialAcciones)

	progress, err := store.GetBadgeProgress(ctx, "u1", badges.BadgeSeguidor)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Progress)

	// Same value again: nothing recorded
	q, err = svc.Update(ctx, "P-1", Patch{Completado: types.BoolPtr(true)}, actor)
	require.NoError(t, err)
	assert.Len(t, q.HistorialEtapas, 1)
	assert.Len(t, q.HistorialAcciones, 2)
}

func TestService_UpdateInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	bad := types.Status("Perdido")

	tests := []struct {
		name  string
		id    string
		patch Patch
		err   error
	}{
		{name: "empty patch", id: "P-1", patch: Patch{}, err: ErrInvalidPatch},
		{name: "unknown estado", id: "P-1", patch: Patch{Estado: &bad}, err: ErrInvalidPatch},
		{name: "contact without name", id: "P-1", patch: Patch{Contacto: &types.Contact{Email: "x@y.z"}}, err: ErrInvalidPatch},
		{name: "missing budget", id: "nope", patch: Patch{Notas: types.StringPtr("x")}, err: storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.id, tt.patch, actor)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestService_UpdateEstadoAndContacto(t *testing.T) {
	svc, _ := newTestService(t)
	aprobado := types.StatusAprobado

	q, err := svc.Update(context.Background(), "P-2", Patch{
		Estado:   &aprobado,
		Contacto: &types.Contact{Nombre: "Laura Díaz", Telefono: "+54 387 555 0101"},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, types.StatusAprobado, q.Estado)
	require.NotNil(t, q.Contacto)
	assert.Equal(t, "Laura Díaz", q.Contacto.Nombre)
	require.Len(t, q.HistorialAcciones, 2)
	assert.Equal(t, "Pendiente a Aprobado", q.HistorialAcciones[0].Detalle)
	assert.False(t, q.Finalizado)
}

func TestService_Finalize(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	q, err := svc.Finalize(ctx, "P-1", types.StatusAprobado, actor)
	require.NoError(t, err)
	assert.True(t, q.Finalizado)
	assert.Equal(t, types.StatusAprobado, q.Estado)
	require.NotNil(t, q.FechaFinalizado)
	assert.Equal(t, fixedNow, *q.FechaFinalizado)
	require.Len(t, q.HistorialAcciones, 1)
	assert.Equal(t, ActionFinalizado, q.HistorialAcciones[0].Accion)

	progress, err := store.GetBadgeProgress(ctx, "u1", badges.BadgeCerrador)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Progress)

	_, err = svc.Finalize(ctx, "P-1", types.StatusRechazado, actor)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	_, err = svc.Finalize(ctx, "P-2", types.StatusPendiente, actor)
	assert.ErrorIs(t, err, ErrInvalidPatch)

	_, err = svc.Finalize(ctx, "nope", types.StatusRechazado, actor)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	svc, _ := newTestService(t)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Activos)
	assert.Equal(t, 1, st.Finalizados)
	assert.Equal(t, 1, st.Licitaciones)
	assert.Equal(t, 1, st.PorEtapa[types.StageConfirmacion])
	assert.Zero(t, st.PorEtapa[types.StageVencido], "finalized quotes are not counted per stage")
	assert.Equal(t, 2, st.PorPrioridad[types.PriorityAlta])
	assert.Equal(t, 2, st.PorEstado[types.StatusPendiente])
	assert.True(t, decimal.RequireFromString("2150.50").Equal(st.MontoTotal))
	assert.True(t, decimal.RequireFromString("2100.50").Equal(st.MontoActivo))
}

func TestService_Contacts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rec := storage.ContactRecord{ID: "c-1", Empresa: "Acme SA", QuoteIDs: []string{"P-1"}}
	rec.Nombre = "Juan"
	require.NoError(t, store.UpsertContact(ctx, rec))

	updated, err := svc.UpdateContact(ctx, "c-1", types.Contact{Nombre: "Juan Pérez", Cargo: "Compras"})
	require.NoError(t, err)
	assert.Equal(t, "Compras", updated.Cargo)
	assert.Equal(t, []string{"P-1"}, updated.QuoteIDs)

	list, err := svc.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Juan Pérez", list[0].Nombre)

	_, err = svc.UpdateContact(ctx, "nope", types.Contact{Nombre: "X"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.UpdateContact(ctx, "c-1", types.Contact{})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}
