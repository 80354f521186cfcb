// Package reports renders quote reports as CSV, XLSX or PDF
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/presupuestos/budget-service/internal/metrics"
	"github.com/presupuestos/budget-service/internal/parsers/csv"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrUnsupported is returned for unknown report types or formats
var ErrUnsupported = errors.New("reports: unsupported report")

// Type is a report type
type Type string

const (
	TypeSeguimiento Type = "seguimiento" // active quotes
	TypeVencidos    Type = "vencidos"    // expired quotes
	TypeResumen     Type = "resumen"     // per-stage summary
)

// Format is an output format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

var titles = map[Type]string{
	TypeSeguimiento: "Presupuestos en seguimiento",
	TypeVencidos:    "Presupuestos vencidos",
	TypeResumen:     "Resumen por etapa",
}

// DateRange filters quotes by creation date, inclusive. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) open() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) contains(fechaCreacion string) bool {
	if r.open() {
		return true
	}
	created, err := csv.ParseCreationDate(fechaCreacion, time.UTC)
	if err != nil {
		return false
	}
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if !r.From.IsZero() && created.Before(day(r.From)) {
		return false
	}
	if !r.To.IsZero() && created.After(day(r.To)) {
		return false
	}
	return true
}

// ReportHandle is a generated report
type ReportHandle struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Format      Format    `json:"format"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generatedAt"`
	Content     []byte    `json:"-"`
}

// table is the format-independent report body
type table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Generator builds reports from the stored quotes
type Generator struct {
	store  storage.BudgetStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewGenerator creates a report generator
func NewGenerator(store storage.BudgetStore, logger zerolog.Logger) *Generator {
	return &Generator{
		store:  store,
		logger: logger.With().Str("component", "reports").Logger(),
		now:    time.Now,
	}
}

// Generate builds a report of the given type over the date range in the given format
func (g *Generator) Generate(ctx context.Context, reportType Type, dateRange DateRange, format Format) (*ReportHandle, error) {
	if _, ok := titles[reportType]; !ok {
		return nil, fmt.Errorf("%w: type %q", ErrUnsupported, reportType)
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: format %q", ErrUnsupported, format)
	}

	all, err := g.store.GetAllBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	quotes := make([]types.Quote, 0, len(all))
	for _, q := range all {
		if dateRange.contains(q.FechaCreacion) {
			quotes = append(quotes, q)
		}
	}

	t := buildTable(reportType, quotes)

	var content []byte
	switch format {
	case FormatCSV:
		content, err = renderCSV(t)
	case FormatXLSX:
		content, err = renderXLSX(t)
	case FormatPDF:
		content, err = renderPDF(t, g.now())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", format, err)
	}

	now := g.now()
	handle := &ReportHandle{
		ID:          uuid.NewString(),
		Type:        reportType,
		Format:      format,
		Filename:    fmt.Sprintf("%s_%s.%s", reportType, now.Format("20060102_150405"), format),
		ContentType: contentType,
		Rows:        len(t.Rows),
		GeneratedAt: now,
		Content:     content,
	}

	metrics.RecordReport(string(reportType), string(format))
	g.logger.Info().
		Str("type", string(reportType)).
		Str("format", string(format)).
		Int("rows", handle.Rows).
		Int("bytes", len(content)).
		Msg("Report generated")

	return handle, nil
}

func buildTable(reportType Type, quotes []types.Quote) table {
	switch reportType {
	case TypeResumen:
		return summaryTable(quotes)
	case TypeVencidos:
		return quoteTable(titles[reportType], quotes, func(q types.Quote) bool {
			return q.TipoSeguimiento == types.StageVencido || q.Estado == types.StatusVencido
		})
	default:
		return quoteTable(titles[reportType], quotes, func(q types.Quote) bool {
			return !q.Finalizado
		})
	}
}

func quoteTable(title string, quotes []types.Quote, keep func(types.Quote) bool) table {
	t := table{
		Title: title,
		Headers: []string{
			"ID", "Empresa", "Fecha", "Etapa", "Prioridad", "Días transcurridos",
			"Días restantes", "Estado", "Monto", "Moneda",
		},
	}
	for _, q := range quotes {
		if !keep(q) {
			continue
		}
		t.Rows = append(t.Rows, []string{
			q.ID,
			q.Empresa,
			q.FechaCreacion,
			string(q.TipoSeguimiento),
			string(q.Prioridad),
			fmt.Sprint(q.DiasTranscurridos),
			fmt.Sprint(q.DiasRestantes),
			string(q.Estado),
			q.MontoTotal.StringFixed(2),
			q.Moneda,
		})
	}
	return t
}

var stageOrder = []types.Stage{
	types.StageConfirmacion,
	types.StagePrimerSeguimiento,
	types.StageSeguimientoFinal,
	types.StageVencido,
}

func summaryTable(quotes []types.Quote) table {
	counts := map[types.Stage]int{}
	amounts := map[types.Stage]decimal.Decimal{}
	for _, q := range quotes {
		if q.Finalizado {
			continue
		}
		counts[q.TipoSeguimiento]++
		amounts[q.TipoSeguimiento] = amounts[q.TipoSeguimiento].Add(q.MontoTotal)
	}

	t := table{Title: titles[TypeResumen], Headers: []string{"Etapa", "Cantidad", "Monto total"}}
	total := decimal.Zero
	n := 0
	for _, stage := range stageOrder {
		t.Rows = append(t.Rows, []string{string(stage), fmt.Sprint(counts[stage]), amounts[stage].StringFixed(2)})
		total = total.Add(amounts[stage])
		n += counts[stage]
	}
	t.Rows = append(t.Rows, []string{"Total", fmt.Sprint(n), total.StringFixed(2)})
	return t
}
