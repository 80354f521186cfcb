// Package budgets implements the user operations on stored quotes
package budgets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/metrics"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPatch is returned for empty or invalid updates
	ErrInvalidPatch = errors.New("budgets: invalid patch")
	// ErrAlreadyFinalized is returned when finalizing a finalized quote
	ErrAlreadyFinalized = errors.New("budgets: already finalized")
)

// History action labels
const (
	ActionNotas      = "Notas actualizadas"
	ActionCompletado = "Etapa completada"
	ActionReabierto  = "Etapa reabierta"
	ActionEstado     = "Estado actualizado"
	ActionContacto   = "Contacto actualizado"
	ActionFinalizado = "Presupuesto finalizado"
)

// Actor identifies the user performing a change
type Actor struct {
	UserID   string
	Username string
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Stage      types.Stage
	Estado     types.Status
	Prioridad  types.Priority
	Finalizado *bool
	// Query matches the quote ID or company name, case-insensitive
	Query string
}

func (f Filter) matches(q types.Quote) bool {
	if f.Stage != "" && q.TipoSeguimiento != f.Stage {
		return false
	}
	if f.Estado != "" && q.Estado != f.Estado {
		return false
	}
	if f.Prioridad != "" && q.Prioridad != f.Prioridad {
		return false
	}
	if f.Finalizado != nil && q.Finalizado != *f.Finalizado {
		return false
	}
	if f.Query != "" {
		needle := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(q.ID), needle) && !strings.Contains(strings.ToLower(q.Empresa), needle) {
			return false
		}
	}
	return true
}

// Patch lists the user-editable fields. Nil fields are left unchanged.
type Patch struct {
	Notas      *string        `json:"notas,omitempty"`
	Completado *bool          `json:"completado,omitempty"`
	Estado     *types.Status  `json:"estado,omitempty" binding:"omitempty,oneof=Pendiente Aprobado Rechazado Vencido"`
	Contacto   *types.Contact `json:"contacto,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p Patch) Empty() bool {
	return p.Notas == nil && p.Completado == nil && p.Estado == nil && p.Contacto == nil
}

// Stats aggregates the stored quotes
type Stats struct {
	Total        int                    `json:"total"`
	Activos      int                    `json:"activos"`
	Finalizados  int                    `json:"finalizados"`
	Licitaciones int                    `json:"licitaciones"`
	PorEtapa     map[types.Stage]int    `json:"porEtapa"`
	PorPrioridad map[types.Priority]int `json:"porPrioridad"`
	PorEstado    map[types.Status]int   `json:"porEstado"`
	MontoTotal   decimal.Decimal        `json:"montoTotal"`
	MontoActivo  decimal.Decimal        `json:"montoActivo"`
}

// Service implements quote queries and user updates
type Service struct {
	store  storage.Store
	badges *badges.Engine
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a budgets service. badgeEngine may be nil.
func NewService(store storage.Store, badgeEngine *badges.Engine, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		badges: badgeEngine,
		logger: logger.With().Str("component", "budgets").Logger(),
		now:    time.Now,
	}
}

// List returns the stored quotes matching the filter in storage order
func (s *Service) List(ctx context.Context, f Filter) ([]types.Quote, error) {
	all, err := s.store.GetAllBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	out := make([]types.Quote, 0, len(all))
	for _, q := range all {
		if f.matches(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Get returns one quote
func (s *Service) Get(ctx context.Context, id string) (*types.Quote, error) {
	return s.store.GetBudget(ctx, id)
}

// Update applies a patch to the user-owned fields and records the history
func (s *Service) Update(ctx context.Context, id string, patch Patch, actor Actor) (*types.Quote, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidPatch)
	}
	if patch.Estado != nil && !patch.Estado.Valid() {
		return nil, fmt.Errorf("%w: unknown estado %q", ErrInvalidPatch, *patch.Estado)
	}
	if patch.Contacto != nil && strings.TrimSpace(patch.Contacto.Nombre) == "" {
		return nil, fmt.Errorf("%w: contacto.nombre is required", ErrInvalidPatch)
	}

	q, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := func(accion, detalle string) {
		q.HistorialAcciones = append(q.HistorialAcciones, types.ActionEntry{
			Accion:  accion,
			Detalle: detalle,
			Fecha:   now,
			Usuario: actor.Username,
		})
	}

	completedStage := false
	if patch.Notas != nil && *patch.Notas != q.Notas {
		q.Notas = *patch.Notas
		record(ActionNotas, "")
	}
	if patch.Completado != nil && *patch.Completado != q.Completado {
		q.Completado = *patch.Completado
		if q.Completado {
			q.HistorialEtapas = append(q.HistorialEtapas, types.StageEntry{
				Etapa:   q.TipoSeguimiento,
				Fecha:   now,
				Usuario: actor.Username,
			})
			record(ActionCompletado, string(q.TipoSeguimiento))
			completedStage = true
		} else {
			record(ActionReabierto, string(q.TipoSeguimiento))
		}
	}
	if patch.Estado != nil && *patch.Estado != q.Estado {
		record(ActionEstado, fmt.Sprintf("%s a %s", q.Estado, *patch.Estado))
		q.Estado = *patch.Estado
	}
	if patch.Contacto != nil {
		c := *patch.Contacto
		q.Contacto = &c
		record(ActionContacto, c.Nombre)
	}

	if err := s.store.UpsertBudget(ctx, *q); err != nil {
		return nil, fmt.Errorf("failed to update budget %s: %w", id, err)
	}

	if completedStage {
		s.credit(ctx, actor, badges.BadgeSeguidor)
	}

	s.logger.Info().
		Str("budget_id", id).
		Str("user", actor.Username).
		Msg("Budget updated")

	return q, nil
}

// Finalize closes a quote with a final status
func (s *Service) Finalize(ctx context.Context, id string, estado types.Status, actor Actor) (*types.Quote, error) {
	if !estado.Valid() || estado == types.StatusPendiente {
		return nil, fmt.Errorf("%w: cannot finalize with estado %q", ErrInvalidPatch, estado)
	}

	q, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Finalizado {
		return nil, ErrAlreadyFinalized
	}

	now := s.now()
	q.Finalizado = true
	q.Estado = estado
	q.FechaFinalizado = types.TimePtr(now)
	q.HistorialAcciones = append(q.HistorialAcciones, types.ActionEntry{
		Accion:  ActionFinalizado,
		Detalle: string(estado),
		Fecha:   now,
		Usuario: actor.Username,
	})

	if err := s.store.UpsertBudget(ctx, *q); err != nil {
		return nil, fmt.Errorf("failed to finalize budget %s: %w", id, err)
	}

	metrics.RecordFinalize(string(estado))
	if estado == types.StatusAprobado {
		s.credit(ctx, actor, badges.BadgeCerrador)
	}

	s.logger.Info().
		Str("budget_id", id).
		Str("estado", string(estado)).
		Str("user", actor.Username).
		Msg("Budget finalized")

	return q, nil
}

// Stats counts the stored quotes per stage, priority and status
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.store.GetAllBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	st := &Stats{
		PorEtapa:     map[types.Stage]int{},
		PorPrioridad: map[types.Priority]int{},
		PorEstado:    map[types.Status]int{},
		MontoTotal:   decimal.Zero,
		MontoActivo:  decimal.Zero,
	}
	for _, q := range all {
		st.Total++
		st.PorEstado[q.Estado]++
		st.MontoTotal = st.MontoTotal.Add(q.MontoTotal)
		if q.EsLicitacion {
			st.Licitaciones++
		}
		if q.Finalizado {
			st.Finalizados++
			continue
		}
		st.Activos++
		st.PorEtapa[q.TipoSeguimiento]++
		st.PorPrioridad[q.Prioridad]++
		st.MontoActivo = st.MontoActivo.Add(q.MontoTotal)
	}
	return st, nil
}

// ListContacts returns every stored contact
func (s *Service) ListContacts(ctx context.Context) ([]storage.ContactRecord, error) {
	return s.store.GetAllContacts(ctx)
}

// UpdateContact replaces the editable fields of a stored contact
func (s *Service) UpdateContact(ctx context.Context, id string, contact types.Contact) (*storage.ContactRecord, error) {
	if strings.TrimSpace(contact.Nombre) == "" {
		return nil, fmt.Errorf("%w: nombre is required", ErrInvalidPatch)
	}
	all, err := s.store.GetAllContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	for _, c := range all {
		if c.ID != id {
			continue
		}
		c.Contact = contact
		if err := s.store.UpsertContact(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
		}
		return &c, nil
	}
	return nil, storage.ErrNotFound
}

func (s *Service) credit(ctx context.Context, actor Actor, badgeID string) {
	if s.badges == nil || actor.UserID == "" {
		return
	}
	if _, err := s.badges.Increment(ctx, actor.UserID, badgeID, 1); err != nil {
		s.logger.Warn().Err(err).Str("badge_id", badgeID).Msg("Failed to update badge")
	}
}
