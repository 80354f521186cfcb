package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presupuestos/budget-service/internal/types"
)

// MemoryStore is an in-process Store. Reads return copies; insertion order is preserved.
type MemoryStore struct {
	mu sync.RWMutex

	budgets     map[string]types.Quote
	budgetOrder []string

	contacts     map[string]ContactRecord
	contactOrder []string

	importLogs []types.ImportLog
	users      map[string]types.User
	badges     map[string]types.BadgeProgress
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		budgets:  make(map[string]types.Quote),
		contacts: make(map[string]ContactRecord),
		users:    make(map[string]types.User),
		badges:   make(map[string]types.BadgeProgress),
	}
}

// GetAllBudgets returns every stored quote in insertion order
func (s *MemoryStore) GetAllBudgets(ctx context.Context) ([]types.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Quote, 0, len(s.budgetOrder))
	for _, id := range s.budgetOrder {
		out = append(out, s.budgets[id].Clone())
	}
	return out, nil
}

// GetBudget returns one quote by ID
func (s *MemoryStore) GetBudget(ctx context.Context, id string) (*types.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.budgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := q.Clone()
	return &c, nil
}

// UpsertBudget inserts or replaces a quote
func (s *MemoryStore) UpsertBudget(ctx context.Context, quote types.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[quote.ID]; !ok {
		s.budgetOrder = append(s.budgetOrder, quote.ID)
	}
	s.budgets[quote.ID] = quote.Clone()
	return nil
}

// MarkFinalized finalizes a stored quote
func (s *MemoryStore) MarkFinalized(ctx context.Context, id string, estado types.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.budgets[id]
	if !ok {
		return ErrNotFound
	}
	q.Finalizado = true
	q.Estado = estado
	q.FechaFinalizado = types.TimePtr(at)
	s.budgets[id] = q
	return nil
}

// GetAllContacts returns every contact in insertion order
func (s *MemoryStore) GetAllContacts(ctx context.Context) ([]ContactRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ContactRecord, 0, len(s.contactOrder))
	for _, id := range s.contactOrder {
		out = append(out, cloneContact(s.contacts[id]))
	}
	return out, nil
}

// UpsertContact inserts or replaces a contact
func (s *MemoryStore) UpsertContact(ctx context.Context, contact ContactRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[contact.ID]; !ok {
		s.contactOrder = append(s.contactOrder, contact.ID)
	}
	s.contacts[contact.ID] = cloneContact(contact)
	return nil
}

// CreateImportLog appends an import log entry
func (s *MemoryStore) CreateImportLog(ctx context.Context, entry types.ImportLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.importLogs = append(s.importLogs, entry)
	return nil
}

// ListImportLogs returns logs newest first
func (s *MemoryStore) ListImportLogs(ctx context.Context, limit int) ([]types.ImportLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ImportLog, 0, len(s.importLogs))
	for i := len(s.importLogs) - 1; i >= 0; i-- {
		out = append(out, s.importLogs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetUserByUsername returns a user by username
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// UpsertUser inserts or replaces a user keyed by username
func (s *MemoryStore) UpsertUser(ctx context.Context, user types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.Username] = user
	return nil
}

// GetBadgeProgress returns the progress of one user on one badge
func (s *MemoryStore) GetBadgeProgress(ctx context.Context, userID, badgeID string) (*types.BadgeProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.badges[badgeKey(userID, badgeID)]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProgress(p), nil
}

// ListBadgeProgress returns all badge progress of a user ordered by badge ID
func (s *MemoryStore) ListBadgeProgress(ctx context.Context, userID string) ([]types.BadgeProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []types.BadgeProgress{}
	for _, p := range s.badges {
		if p.UserID == userID {
			out = append(out, *cloneProgress(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeID < out[j].BadgeID })
	return out, nil
}

// UpsertBadgeProgress inserts or replaces badge progress
func (s *MemoryStore) UpsertBadgeProgress(ctx context.Context, progress types.BadgeProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.badges[badgeKey(progress.UserID, progress.BadgeID)] = *cloneProgress(progress)
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() {}

func badgeKey(userID, badgeID string) string {
	return userID + "\x00" + badgeID
}

func cloneContact(c ContactRecord) ContactRecord {
	c.QuoteIDs = append([]string(nil), c.QuoteIDs...)
	return c
}

func cloneProgress(p types.BadgeProgress) *types.BadgeProgress {
	if p.CompletedAt != nil {
		p.CompletedAt = types.TimePtr(*p.CompletedAt)
	}
	return &p
}

// ContactKey derives a stable contact ID from company and contact name.
// Case and repeated whitespace do not change the key.
func ContactKey(empresa, nombre string) string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(norm(empresa)+"\x00"+norm(nombre))).String()
}
