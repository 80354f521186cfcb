// Package importer runs the quote import pipeline: parse, group, classify, reconcile, persist
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/presupuestos/budget-service/internal/archive"
	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/classify"
	"github.com/presupuestos/budget-service/internal/metrics"
	"github.com/presupuestos/budget-service/internal/parsers/csv"
	"github.com/presupuestos/budget-service/internal/parsers/xlsx"
	"github.com/presupuestos/budget-service/internal/reconcile"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/telemetry"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrEmptyUpload is returned when the uploaded content is empty
var ErrEmptyUpload = errors.New("importer: empty upload")

// Request is one import
type Request struct {
	Filename string
	Content  []byte
	Options  types.ImportOptions
	Source   types.ImportSource
	UserID   string
	Username string
}

// Summary is the result of a successful import
type Summary struct {
	types.ImportResult
	ImportID  string             `json:"importId"`
	Skipped   []types.SkippedRow `json:"skipped"`
	Finalized []string           `json:"finalized"`
}

// Service imports quote exports into the store
type Service struct {
	store    storage.Store
	archive  archive.Archive
	badges   *badges.Engine
	logger   zerolog.Logger
	demoFile string
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithArchive stores the raw content of every import
func WithArchive(a archive.Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithBadges credits the importing user
func WithBadges(e *badges.Engine) Option {
	return func(s *Service) { s.badges = e }
}

// WithDemoFile sets the server-side demo export
func WithDemoFile(path string) Option {
	return func(s *Service) { s.demoFile = path }
}

// WithClock overrides the classification instant
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an import service
func NewService(store storage.Store, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger.With().Str("component", "importer").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseExport parses an export as a workbook or as CSV depending on its content
func ParseExport(content []byte) (*types.ParseResult, error) {
	if xlsx.IsWorkbook(content) {
		return xlsx.NewParser(xlsx.Options{}).Parse(content)
	}
	return csv.NewParser(csv.DefaultOptions()).Parse(content)
}

// Import runs the full pipeline. A parse error aborts before any storage call.
func (s *Service) Import(ctx context.Context, req Request) (summary *Summary, err error) {
	start := time.Now()
	if req.Source == "" {
		req.Source = types.SourceUpload
	}

	ctx, span := telemetry.Tracer().Start(ctx, "importer.Import")
	span.SetAttributes(
		attribute.String("import.source", string(req.Source)),
		attribute.String("import.filename", req.Filename),
		attribute.Int("import.bytes", len(req.Content)),
	)
	defer func() {
		outcome := "success"
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			outcome = "storage_error"
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) || errors.Is(err, ErrEmptyUpload) {
				outcome = "parse_error"
			}
		}
		metrics.RecordImport(string(req.Source), outcome, time.Since(start))
		span.End()
	}()

	logger := s.logger.With().
		Str("filename", req.Filename).
		Str("source", string(req.Source)).
		Str("user", req.Username).
		Logger()

	if len(req.Content) == 0 {
		return nil, ErrEmptyUpload
	}

	parsed, err := ParseExport(req.Content)
	if err != nil {
		logger.Warn().Err(err).Msg("Import rejected: file could not be parsed")
		return nil, fmt.Errorf("failed to parse %s: %w", req.Filename, err)
	}

	now := s.now()
	incoming := classify.BuildQuotes(csv.GroupByQuoteID(parsed.Rows), now)

	existing, err := s.store.GetAllBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored budgets: %w", err)
	}

	outcome := reconcile.Reconcile(existing, incoming, reconcile.FromImportOptions(req.Options, now))

	if err := s.persist(ctx, outcome, len(incoming), now); err != nil {
		return nil, err
	}

	if err := s.saveContacts(ctx, incoming); err != nil {
		return nil, err
	}

	importID := uuid.NewString()
	entry := types.ImportLog{
		ID:          importID,
		Filename:    req.Filename,
		Source:      req.Source,
		Username:    req.Username,
		Added:       outcome.Result.Added,
		Updated:     outcome.Result.Updated,
		Deleted:     outcome.Result.Deleted,
		Total:       outcome.Result.Total,
		SkippedRows: len(parsed.Skipped),
		CreatedAt:   now,
	}
	entry.ArchiveKey = s.archiveContent(ctx, req, importID, now, logger)

	if err := s.store.CreateImportLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write import log: %w", err)
	}

	if s.badges != nil && req.UserID != "" {
		if _, err := s.badges.Increment(ctx, req.UserID, badges.BadgeImportador, 1); err != nil {
			logger.Warn().Err(err).Msg("Failed to update import badge")
		}
	}

	metrics.RecordReconcile(outcome.Result.Added, outcome.Result.Updated, outcome.Result.Deleted, len(parsed.Skipped))
	span.SetAttributes(
		attribute.Int("import.added", outcome.Result.Added),
		attribute.Int("import.updated", outcome.Result.Updated),
		attribute.Int("import.deleted", outcome.Result.Deleted),
	)

	logger.Info().
		Str("import_id", importID).
		Int("rows", parsed.TotalRows).
		Int("skipped", len(parsed.Skipped)).
		Int("added", outcome.Result.Added).
		Int("updated", outcome.Result.Updated).
		Int("deleted", outcome.Result.Deleted).
		Int("total", outcome.Result.Total).
		Dur("duration", time.Since(start)).
		Msg("Import completed")

	return &Summary{
		ImportResult: outcome.Result,
		ImportID:     importID,
		Skipped:      parsed.Skipped,
		Finalized:    outcome.Finalized,
	}, nil
}

// persist writes the incoming part of the merged set and finalizes missing quotes.
// Carried-over quotes are already stored unchanged and are not rewritten.
func (s *Service) persist(ctx context.Context, outcome reconcile.Outcome, incoming int, now time.Time) error {
	for _, q := range outcome.Merged[:incoming] {
		if err := s.store.UpsertBudget(ctx, q); err != nil {
			return fmt.Errorf("failed to store budget %s: %w", q.ID, err)
		}
	}
	for _, id := range outcome.Finalized {
		if err := s.store.MarkFinalized(ctx, id, types.StatusVencido, now); err != nil {
			return fmt.Errorf("failed to finalize budget %s: %w", id, err)
		}
	}
	return nil
}

// saveContacts upserts the contacts found in the import. Phone and role edited by users are kept.
func (s *Service) saveContacts(ctx context.Context, quotes []types.Quote) error {
	stored, err := s.store.GetAllContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	byID := make(map[string]storage.ContactRecord, len(stored))
	for _, c := range stored {
		byID[c.ID] = c
	}

	var order []string
	touched := make(map[string]storage.ContactRecord)
	for _, q := range quotes {
		if q.Contacto == nil || q.Contacto.Nombre == "" {
			continue
		}
		id := storage.ContactKey(q.Empresa, q.Contacto.Nombre)
		rec, seen := touched[id]
		if !seen {
			if prev, ok := byID[id]; ok {
				rec = prev
			} else {
				rec = storage.ContactRecord{ID: id, Empresa: q.Empresa, QuoteIDs: []string{}}
			}
			rec.Nombre = q.Contacto.Nombre
			if q.Contacto.Email != "" {
				rec.Email = q.Contacto.Email
			}
			order = append(order, id)
		}
		if !slices.Contains(rec.QuoteIDs, q.ID) {
			rec.QuoteIDs = append(rec.QuoteIDs, q.ID)
		}
		touched[id] = rec
	}

	for _, id := range order {
		if err := s.store.UpsertContact(ctx, touched[id]); err != nil {
			return fmt.Errorf("failed to store contact %s: %w", id, err)
		}
	}
	return nil
}

// archiveContent stores the raw file; failures are logged and do not fail the import
func (s *Service) archiveContent(ctx context.Context, req Request, importID string, now time.Time, logger zerolog.Logger) string {
	if s.archive == nil {
		return ""
	}
	ext, contentType := "csv", "text/csv"
	if xlsx.IsWorkbook(req.Content) {
		ext, contentType = "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	key := archive.ImportKey(importID, ext, now)
	err := s.archive.Put(ctx, key, req.Content, &archive.Metadata{
		ContentType:  contentType,
		OriginalName: req.Filename,
		Source:       string(req.Source),
		Username:     req.Username,
		ArchivedAt:   now,
	})
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to archive import file")
		return ""
	}
	return key
}

// ImportDemo imports the server-side demo export
func (s *Service) ImportDemo(ctx context.Context, opts types.ImportOptions, userID, username string) (*Summary, error) {
	if s.demoFile == "" {
		return nil, fmt.Errorf("demo file is not configured")
	}
	content, err := os.ReadFile(s.demoFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo file: %w", err)
	}
	return s.Import(ctx, Request{
		Filename: filepath.Base(s.demoFile),
		Content:  content,
		Options:  opts,
		Source:   types.SourceDemo,
		UserID:   userID,
		Username: username,
	})
}

// Logs returns the most recent import logs
func (s *Service) Logs(ctx context.Context, limit int) ([]types.ImportLog, error) {
	return s.store.ListImportLogs(ctx, limit)
}
