// Package classify computes follow-up stage, priority, alerts and totals for a quote
package classify

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/presupuestos/budget-service/internal/parsers/csv"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/shopspring/decimal"
)

// Follow-up actions per stage
const (
	ActionVencido           = "Registrar estado final del presupuesto (aprobado, rechazado, o vencido sin respuesta)"
	ActionConfirmacion      = "Confirmar recepción del presupuesto y aclarar dudas iniciales"
	ActionPrimerSeguimiento = "Proporcionar información adicional sobre productos y verificar interés inicial"
	ActionSeguimientoFinal  = "Última comunicación antes de expiración y motivar decisión final"
)

// AlertNoValidity is raised when the quote has no validity period
const AlertNoValidity = "Sin fecha de validez definida"

const (
	shortValidityDays     = 14
	confirmationMaxDays   = 3
	firstFollowUpMaxDays  = 15
	firstFollowUpUrgentAt = 7
	tenderValidityDays    = 60
)

// tenderKeywords flag public-sector customers (matched as case-insensitive substrings)
var tenderKeywords = []string{
	"municipalidad", "gobierno", "ministerio", "secretaria",
	"universidad", "obras", "ente", "instituto",
}

// Classification is the derived part of a quote computed from its rows
type Classification struct {
	Validez           int             `json:"validez"`
	DiasTranscurridos int             `json:"diasTranscurridos"`
	DiasRestantes     int             `json:"diasRestantes"`
	TipoSeguimiento   types.Stage     `json:"tipoSeguimiento"`
	Accion            string          `json:"accion"`
	Prioridad         types.Priority  `json:"prioridad"`
	Alertas           []string        `json:"alertas"`
	EsLicitacion      bool            `json:"esLicitacion"`
	Items             []types.Item    `json:"items"`
	MontoTotal        decimal.Decimal `json:"montoTotal"`
	Contacto          *types.Contact  `json:"contacto,omitempty"`
}

// Classify classifies the row group of one quote ID at the instant now.
// Quote-level fields come from the first row; items aggregate every row.
// The result depends only on (rows, now).
func Classify(rows []types.QuoteLineRow, now time.Time) Classification {
	if len(rows) == 0 {
		return Classification{Alertas: []string{}, Items: []types.Item{}}
	}
	first := rows[0]

	validez := first.Validez
	elapsed := 0
	if created, err := csv.ParseCreationDate(first.FechaCreacion, now.Location()); err == nil {
		elapsed = ElapsedDays(created, now)
	}
	remaining := validez - elapsed

	stage, priority, action := Stage(validez, elapsed, remaining)
	items, total := Items(rows)

	c := Classification{
		Validez:           validez,
		DiasTranscurridos: elapsed,
		DiasRestantes:     remaining,
		TipoSeguimiento:   stage,
		Accion:            action,
		Prioridad:         priority,
		Alertas:           Alerts(validez, remaining),
		EsLicitacion:      IsTender(first.Empresa, validez),
		Items:             items,
		MontoTotal:        total,
	}

	if first.NombreContacto != "" {
		c.Contacto = &types.Contact{
			Nombre: first.NombreContacto,
			Email:  first.Direccion,
		}
	}

	return c
}

// ElapsedDays returns ceil(|now - created|) in whole days.
// Any time past midnight counts as a full day, so a quote created yesterday is 2 days old
// during the afternoon.
func ElapsedDays(created, now time.Time) int {
	diff := now.Sub(created)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}

// Stage decides the follow-up stage, priority and action. The first matching rule wins.
func Stage(validez, elapsed, remaining int) (types.Stage, types.Priority, string) {
	switch {
	case remaining <= 0:
		return types.StageVencido, types.PriorityAlta, ActionVencido
	case elapsed <= confirmationMaxDays:
		priority := types.PriorityMedia
		if validez < shortValidityDays {
			priority = types.PriorityAlta
		}
		return types.StageConfirmacion, priority, ActionConfirmacion
	case elapsed <= firstFollowUpMaxDays:
		priority := types.PriorityMedia
		if remaining <= firstFollowUpUrgentAt {
			priority = types.PriorityAlta
		}
		return types.StagePrimerSeguimiento, priority, ActionPrimerSeguimiento
	default:
		return types.StageSeguimientoFinal, types.PriorityAlta, ActionSeguimientoFinal
	}
}

// Alerts returns every warning that applies, in a fixed order. Never nil.
func Alerts(validez, remaining int) []string {
	alerts := make([]string, 0, 2)
	if validez == 0 {
		alerts = append(alerts, AlertNoValidity)
	}
	if validez > 0 && validez < shortValidityDays {
		alerts = append(alerts, fmt.Sprintf("Validez corta (%d días)", validez))
	}
	if remaining < 0 {
		alerts = append(alerts, fmt.Sprintf("Presupuesto vencido hace %d días", -remaining))
	}
	return alerts
}

// IsTender reports whether the quote looks like a public tender (licitación)
func IsTender(empresa string, validez int) bool {
	if validez > tenderValidityDays {
		return true
	}
	name := strings.ToLower(empresa)
	for _, kw := range tenderKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Items builds the line items and the total amount rounded to 2 decimals
func Items(rows []types.QuoteLineRow) ([]types.Item, decimal.Decimal) {
	items := make([]types.Item, 0, len(rows))
	total := decimal.Zero

	for _, row := range rows {
		qty := row.Cantidad
		if qty < 1 {
			qty = 1
		}
		items = append(items, types.Item{
			Codigo:      row.CodigoProducto,
			Descripcion: row.Descripcion,
			Cantidad:    qty,
			Precio:      row.NetoItems,
		})
		total = total.Add(row.NetoItems.Mul(decimal.NewFromInt(int64(qty))))
	}

	return items, total.Round(2)
}

// BuildQuote creates a freshly imported quote from a row group.
// User-owned fields start at their defaults.
func BuildQuote(group csv.QuoteGroup, now time.Time) types.Quote {
	c := Classify(group.Rows, now)

	q := types.Quote{
		ID:                group.ID,
		Moneda:            types.DefaultCurrency,
		Validez:           c.Validez,
		Items:             c.Items,
		MontoTotal:        c.MontoTotal,
		DiasTranscurridos: c.DiasTranscurridos,
		DiasRestantes:     c.DiasRestantes,
		TipoSeguimiento:   c.TipoSeguimiento,
		Accion:            c.Accion,
		Prioridad:         c.Prioridad,
		Alertas:           c.Alertas,
		EsLicitacion:      c.EsLicitacion,
		Contacto:          c.Contacto,
		Estado:            types.StatusPendiente,
		HistorialEtapas:   []types.StageEntry{},
		HistorialAcciones: []types.ActionEntry{},
	}

	if len(group.Rows) > 0 {
		first := group.Rows[0]
		q.Empresa = first.Empresa
		q.Fabricante = first.Fabricante
		q.FechaCreacion = first.FechaCreacion
		q.Descuento = first.Descuento
	}

	return q
}

// BuildQuotes classifies every group in order
func BuildQuotes(groups []csv.QuoteGroup, now time.Time) []types.Quote {
	quotes := make([]types.Quote, 0, len(groups))
	for _, g := range groups {
		quotes = append(quotes, BuildQuote(g, now))
	}
	return quotes
}
