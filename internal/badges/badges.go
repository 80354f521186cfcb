// Package badges tracks per-user progress towards gamification badges
package badges

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
)

// Badge IDs
const (
	BadgeImportador = "importador"
	BadgeSeguidor   = "seguidor"
	BadgeCerrador   = "cerrador"
)

// ErrUnknownBadge is returned for badge IDs outside the catalog
var ErrUnknownBadge = errors.New("badges: unknown badge")

// Badge is a catalog entry
type Badge struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Target      int    `json:"target"`
}

// Catalog is the static list of badges
var Catalog = []Badge{
	{ID: BadgeImportador, Nombre: "Importador", Descripcion: "Importar archivos de presupuestos", Target: 5},
	{ID: BadgeSeguidor, Nombre: "Seguidor", Descripcion: "Completar etapas de seguimiento", Target: 20},
	{ID: BadgeCerrador, Nombre: "Cerrador", Descripcion: "Cerrar presupuestos como aprobados", Target: 10},
}

// UserBadge is a catalog badge with the user's progress
type UserBadge struct {
	Badge
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Engine updates badge progress.
// Read-modify-write cycles are serialized per engine, so concurrent increments in one
// process are not lost. Separate processes sharing a store remain last-write-wins.
type Engine struct {
	store  storage.BadgeStore
	logger zerolog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewEngine creates a badge engine
func NewEngine(store storage.BadgeStore, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With().Str("component", "badges").Logger(),
		now:    time.Now,
	}
}

func lookup(badgeID string) (Badge, error) {
	for _, b := range Catalog {
		if b.ID == badgeID {
			return b, nil
		}
	}
	return Badge{}, fmt.Errorf("%w: %s", ErrUnknownBadge, badgeID)
}

// current returns the stored progress or a fresh record
func (e *Engine) current(ctx context.Context, userID string, badge Badge) (types.BadgeProgress, error) {
	p, err := e.store.GetBadgeProgress(ctx, userID, badge.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.BadgeProgress{UserID: userID, BadgeID: badge.ID, Target: badge.Target}, nil
	}
	if err != nil {
		return types.BadgeProgress{}, fmt.Errorf("failed to load badge progress: %w", err)
	}
	p.Target = badge.Target
	return *p, nil
}

// save applies the completion rule and persists. completedAt is stamped once.
func (e *Engine) save(ctx context.Context, p types.BadgeProgress) (*types.BadgeProgress, error) {
	now := e.now()
	if p.Progress >= p.Target && !p.Completed {
		p.Completed = true
		p.CompletedAt = types.TimePtr(now)
		e.logger.Info().
			Str("user_id", p.UserID).
			Str("badge_id", p.BadgeID).
			Msg("Badge completed")
	}
	p.UpdatedAt = now

	if err := e.store.UpsertBadgeProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save badge progress: %w", err)
	}
	return &p, nil
}

// modify loads the progress of a badge, applies fn and saves it under the engine lock
func (e *Engine) modify(ctx context.Context, userID, badgeID string, fn func(p *types.BadgeProgress)) (*types.BadgeProgress, error) {
	badge, err := lookup(badgeID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.current(ctx, userID, badge)
	if err != nil {
		return nil, err
	}
	fn(&p)
	if p.Progress < 0 {
		p.Progress = 0
	}
	return e.save(ctx, p)
}

// UpdateProgress sets the progress value of a badge
func (e *Engine) UpdateProgress(ctx context.Context, userID, badgeID string, value int) (*types.BadgeProgress, error) {
	return e.modify(ctx, userID, badgeID, func(p *types.BadgeProgress) {
		p.Progress = value
	})
}

// Increment adds delta to the progress of a badge
func (e *Engine) Increment(ctx context.Context, userID, badgeID string, delta int) (*types.BadgeProgress, error) {
	return e.modify(ctx, userID, badgeID, func(p *types.BadgeProgress) {
		p.Progress += delta
	})
}

// Assign completes a badge regardless of progress
func (e *Engine) Assign(ctx context.Context, userID, badgeID string) (*types.BadgeProgress, error) {
	return e.modify(ctx, userID, badgeID, func(p *types.BadgeProgress) {
		if p.Progress < p.Target {
			p.Progress = p.Target
		}
	})
}

// List returns every catalog badge with the user's progress
func (e *Engine) List(ctx context.Context, userID string) ([]UserBadge, error) {
	stored, err := e.store.ListBadgeProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge progress: %w", err)
	}
	byID := make(map[string]types.BadgeProgress, len(stored))
	for _, p := range stored {
		byID[p.BadgeID] = p
	}

	out := make([]UserBadge, 0, len(Catalog))
	for _, b := range Catalog {
		ub := UserBadge{Badge: b}
		if p, ok := byID[b.ID]; ok {
			ub.Progress = p.Progress
			ub.Completed = p.Completed
			ub.CompletedAt = p.CompletedAt
		}
		out = append(out, ub)
	}
	return out, nil
}
