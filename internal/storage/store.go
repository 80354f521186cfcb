// Package storage persists quotes, contacts, import logs, users and badge progress
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/presupuestos/budget-service/internal/types"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("storage: not found")

// BudgetStore persists quotes keyed by ID
type BudgetStore interface {
	GetAllBudgets(ctx context.Context) ([]types.Quote, error)
	GetBudget(ctx context.Context, id string) (*types.Quote, error)
	// UpsertBudget writes the whole record, inserting it if absent
	UpsertBudget(ctx context.Context, quote types.Quote) error
	// MarkFinalized sets only the finalization fields of a stored quote
	MarkFinalized(ctx context.Context, id string, estado types.Status, at time.Time) error
}

// ContactStore persists customer contacts keyed by ID
type ContactStore interface {
	GetAllContacts(ctx context.Context) ([]ContactRecord, error)
	UpsertContact(ctx context.Context, contact ContactRecord) error
}

// ImportLogStore is the append-only import audit trail
type ImportLogStore interface {
	CreateImportLog(ctx context.Context, entry types.ImportLog) error
	// ListImportLogs returns the most recent logs first, at most limit (0 means all)
	ListImportLogs(ctx context.Context, limit int) ([]types.ImportLog, error)
}

// UserStore persists application users
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	UpsertUser(ctx context.Context, user types.User) error
}

// BadgeStore persists per-user badge progress
type BadgeStore interface {
	GetBadgeProgress(ctx context.Context, userID, badgeID string) (*types.BadgeProgress, error)
	ListBadgeProgress(ctx context.Context, userID string) ([]types.BadgeProgress, error)
	UpsertBadgeProgress(ctx context.Context, progress types.BadgeProgress) error
}

// Store is the full persistence collaborator
type Store interface {
	BudgetStore
	ContactStore
	ImportLogStore
	UserStore
	BadgeStore

	// Ping reports backend health
	Ping(ctx context.Context) error
	Close()
}

// ContactRecord is a stored contact. ID is the contact key, by default derived from company
// and contact name.
type ContactRecord struct {
	ID       string   `json:"id"`
	Empresa  string   `json:"empresa"`
	QuoteIDs []string `json:"quoteIds"`
	types.Contact
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
