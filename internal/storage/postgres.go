package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presupuestos/budget-service/internal/types"
)

// schema is applied by Migrate. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS budgets (
	id               TEXT PRIMARY KEY,
	doc              JSONB NOT NULL,
	finalizado       BOOLEAN NOT NULL DEFAULT FALSE,
	estado           TEXT NOT NULL DEFAULT 'Pendiente',
	tipo_seguimiento TEXT NOT NULL DEFAULT '',
	fecha_creacion   TEXT NOT NULL DEFAULT '',
	seq              BIGSERIAL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_budgets_finalizado ON budgets (finalizado);
CREATE INDEX IF NOT EXISTS idx_budgets_estado ON budgets (estado);
CREATE INDEX IF NOT EXISTS idx_budgets_tipo_seguimiento ON budgets (tipo_seguimiento);

CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	seq        BIGSERIAL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS import_logs (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	source       TEXT NOT NULL,
	username     TEXT NOT NULL DEFAULT '',
	added        INTEGER NOT NULL,
	updated      INTEGER NOT NULL,
	deleted      INTEGER NOT NULL,
	total        INTEGER NOT NULL,
	skipped_rows INTEGER NOT NULL DEFAULT 0,
	archive_key  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_import_logs_created_at ON import_logs (created_at DESC);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS badge_progress (
	user_id      TEXT NOT NULL,
	badge_id     TEXT NOT NULL,
	progress     INTEGER NOT NULL,
	target       INTEGER NOT NULL,
	completed    BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at TIMESTAMPTZ,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, badge_id)
);
`

// PostgresStore implements Store on PostgreSQL. Quotes and contacts are JSONB documents
// with a few indexed columns for filtering.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if missing
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// GetAllBudgets returns every quote in insertion order
func (s *PostgresStore) GetAllBudgets(ctx context.Context) ([]types.Quote, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM budgets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	quotes := []types.Quote{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		var q types.Quote
		if err := json.Unmarshal(doc, &q); err != nil {
			return nil, fmt.Errorf("failed to decode budget: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return quotes, nil
}

// GetBudget returns one quote by ID
func (s *PostgresStore) GetBudget(ctx context.Context, id string) (*types.Quote, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM budgets WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget %s: %w", id, err)
	}

	var q types.Quote
	if err := json.Unmarshal(doc, &q); err != nil {
		return nil, fmt.Errorf("failed to decode budget %s: %w", id, err)
	}
	return &q, nil
}

// UpsertBudget inserts or replaces a quote
func (s *PostgresStore) UpsertBudget(ctx context.Context, quote types.Quote) error {
	doc, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to encode budget %s: %w", quote.ID, err)
	}

	query := `
		INSERT INTO budgets (id, doc, finalizado, estado, tipo_seguimiento, fecha_creacion, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			doc = EXCLUDED.doc,
			finalizado = EXCLUDED.finalizado,
			estado = EXCLUDED.estado,
			tipo_seguimiento = EXCLUDED.tipo_seguimiento,
			fecha_creacion = EXCLUDED.fecha_creacion,
			updated_at = NOW()
	`
	_, err = s.pool.Exec(ctx, query,
		quote.ID, doc, quote.Finalizado, string(quote.Estado),
		string(quote.TipoSeguimiento), quote.FechaCreacion,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget %s: %w", quote.ID, err)
	}
	return nil
}

// MarkFinalized finalizes a stored quote in place
func (s *PostgresStore) MarkFinalized(ctx context.Context, id string, estado types.Status, at time.Time) error {
	query := `
		UPDATE budgets SET
			doc = doc || jsonb_build_object('finalizado', true, 'estado', $2::text, 'fechaFinalizado', $3::timestamptz),
			finalizado = TRUE,
			estado = $2,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, string(estado), at)
	if err != nil {
		return fmt.Errorf("failed to finalize budget %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAllContacts returns every contact in insertion order
func (s *PostgresStore) GetAllContacts(ctx context.Context) ([]ContactRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM contacts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []ContactRecord{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		var c ContactRecord
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpsertContact inserts or replaces a contact
func (s *PostgresStore) UpsertContact(ctx context.Context, contact ContactRecord) error {
	doc, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact %s: %w", contact.ID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO contacts (id, doc, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`, contact.ID, doc)
	if err != nil {
		return fmt.Errorf("failed to upsert contact %s: %w", contact.ID, err)
	}
	return nil
}

// CreateImportLog appends an import log entry
func (s *PostgresStore) CreateImportLog(ctx context.Context, entry types.ImportLog) error {
	query := `
		INSERT INTO import_logs (
			id, filename, source, username, added, updated, deleted, total,
			skipped_rows, archive_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		entry.ID, entry.Filename, string(entry.Source), entry.Username,
		entry.Added, entry.Updated, entry.Deleted, entry.Total,
		entry.SkippedRows, entry.ArchiveKey, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	return nil
}

// ListImportLogs returns logs newest first
func (s *PostgresStore) ListImportLogs(ctx context.Context, limit int) ([]types.ImportLog, error) {
	query := `
		SELECT id, filename, source, username, added, updated, deleted, total,
			skipped_rows, archive_key, created_at
		FROM import_logs
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	logs := []types.ImportLog{}
	for rows.Next() {
		var l types.ImportLog
		var source string
		if err := rows.Scan(
			&l.ID, &l.Filename, &source, &l.Username, &l.Added, &l.Updated,
			&l.Deleted, &l.Total, &l.SkippedRows, &l.ArchiveKey, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		l.Source = types.ImportSource(source)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// GetUserByUsername returns a user by username
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	var u types.User
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	u.Role = types.Role(role)
	return &u, nil
}

// UpsertUser inserts or replaces a user keyed by username
func (s *PostgresStore) UpsertUser(ctx context.Context, user types.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role
	`, user.ID, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.Username, err)
	}
	return nil
}

// GetBadgeProgress returns the progress of one user on one badge
func (s *PostgresStore) GetBadgeProgress(ctx context.Context, userID, badgeID string) (*types.BadgeProgress, error) {
	var p types.BadgeProgress
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, badge_id, progress, target, completed, completed_at, updated_at
		FROM badge_progress WHERE user_id = $1 AND badge_id = $2
	`, userID, badgeID).Scan(
		&p.UserID, &p.BadgeID, &p.Progress, &p.Target, &p.Completed, &p.CompletedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get badge progress: %w", err)
	}
	return &p, nil
}

// ListBadgeProgress returns all badge progress of a user ordered by badge ID
func (s *PostgresStore) ListBadgeProgress(ctx context.Context, userID string) ([]types.BadgeProgress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, badge_id, progress, target, completed, completed_at, updated_at
		FROM badge_progress WHERE user_id = $1 ORDER BY badge_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query badge progress: %w", err)
	}
	defer rows.Close()

	out := []types.BadgeProgress{}
	for rows.Next() {
		var p types.BadgeProgress
		if err := rows.Scan(
			&p.UserID, &p.BadgeID, &p.Progress, &p.Target, &p.Completed, &p.CompletedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertBadgeProgress inserts or replaces badge progress
func (s *PostgresStore) UpsertBadgeProgress(ctx context.Context, p types.BadgeProgress) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO badge_progress (user_id, badge_id, progress, target, completed, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, badge_id) DO UPDATE SET
			progress = EXCLUDED.progress,
			target = EXCLUDED.target,
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`, p.UserID, p.BadgeID, p.Progress, p.Target, p.Completed, p.CompletedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert badge progress: %w", err)
	}
	return nil
}

// Ping checks the connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool lifecycle belongs to the database package
func (s *PostgresStore) Close() {}
