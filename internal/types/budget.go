package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is the follow-up phase of a quote (tipoSeguimiento)
type Stage string

const (
	StageConfirmacion      Stage = "Confirmación"
	StagePrimerSeguimiento Stage = "Primer Seguimiento"
	StageSeguimientoFinal  Stage = "Seguimiento Final"
	StageVencido           Stage = "Vencido"
)

// Priority represents follow-up priority
type Priority string

const (
	PriorityAlta  Priority = "Alta"
	PriorityMedia Priority = "Media"
	PriorityBaja  Priority = "Baja"
)

// Status is the user-managed state of a quote (estado)
type Status string

const (
	StatusPendiente Status = "Pendiente"
	StatusAprobado  Status = "Aprobado"
	StatusRechazado Status = "Rechazado"
	StatusVencido   Status = "Vencido"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPendiente, StatusAprobado, StatusRechazado, StatusVencido:
		return true
	}
	return false
}

// DefaultCurrency is used for every imported quote; the export only carries USD amounts
const DefaultCurrency = "USD"

// QuoteLineRow is one line item record of the CSV export
type QuoteLineRow struct {
	ID             string          `json:"id"`
	Empresa        string          `json:"empresa"`
	FechaCreacion  string          `json:"fechaCreacion"` // DD/MM/YYYY HH:MM
	NroItem        int             `json:"nroItem"`
	Cantidad       int             `json:"cantidad"`
	CodigoProducto string          `json:"codigoProducto"`
	Descripcion    string          `json:"descripcion"`
	Fabricante     string          `json:"fabricante"`
	NetoItems      decimal.Decimal `json:"netoItems"`
	Descuento      int             `json:"descuento"`
	Validez        int             `json:"validez"`
	NombreContacto string          `json:"nombreContacto,omitempty"`
	Direccion      string          `json:"direccion,omitempty"`
	RowNumber      int             `json:"rowNumber"`
}

// SkippedRow describes a CSV record excluded from the import
type SkippedRow struct {
	RowNumber int    `json:"rowNumber"`
	ID        string `json:"id,omitempty"`
	Reason    string `json:"reason"`
}

// ParseResult represents result of parsing a quote export
type ParseResult struct {
	Rows      []QuoteLineRow `json:"rows"`
	Skipped   []SkippedRow   `json:"skipped,omitempty"`
	TotalRows int            `json:"totalRows"`
	ValidRows int            `json:"validRows"`
}

// Item is a quote line item
type Item struct {
	Codigo      string          `json:"codigo"`
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Precio      decimal.Decimal `json:"precio"`
}

// Contact is the customer contact attached to a quote
type Contact struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email,omitempty"`
	Telefono string `json:"telefono,omitempty"`
	Cargo    string `json:"cargo,omitempty"`
}

// StageEntry records a completed follow-up stage
type StageEntry struct {
	Etapa   Stage     `json:"etapa"`
	Fecha   time.Time `json:"fecha"`
	Usuario string    `json:"usuario,omitempty"`
}

// ActionEntry records a user action on a quote
type ActionEntry struct {
	Accion  string    `json:"accion"`
	Detalle string    `json:"detalle,omitempty"`
	Fecha   time.Time `json:"fecha"`
	Usuario string    `json:"usuario,omitempty"`
}

// Quote is the aggregate of all line items sharing one quote ID (presupuesto).
//
// Fields from Items to Contacto are derived and recomputed on every import.
// Fields from Notas onward are user-owned and survive re-imports.
type Quote struct {
	ID            string `json:"id"`
	Empresa       string `json:"empresa"`
	Fabricante    string `json:"fabricante"`
	FechaCreacion string `json:"fechaCreacion"`
	Moneda        string `json:"moneda"`
	Descuento     int    `json:"descuento"`
	Validez       int    `json:"validez"`

	Items             []Item          `json:"items"`
	MontoTotal        decimal.Decimal `json:"montoTotal"`
	DiasTranscurridos int             `json:"diasTranscurridos"`
	DiasRestantes     int             `json:"diasRestantes"`
	TipoSeguimiento   Stage           `json:"tipoSeguimiento"`
	Accion            string          `json:"accion"`
	Prioridad         Priority        `json:"prioridad"`
	Alertas           []string        `json:"alertas"`
	EsLicitacion      bool            `json:"esLicitacion"`
	Contacto          *Contact        `json:"contacto,omitempty"`

	Notas             string        `json:"notas"`
	Completado        bool          `json:"completado"`
	Estado            Status        `json:"estado"`
	Finalizado        bool          `json:"finalizado"`
	FechaFinalizado   *time.Time    `json:"fechaFinalizado,omitempty"`
	HistorialEtapas   []StageEntry  `json:"historialEtapas"`
	HistorialAcciones []ActionEntry `json:"historialAcciones"`
}

// Clone returns a deep copy of the quote
func (q Quote) Clone() Quote {
	c := q
	if q.Items != nil {
		c.Items = append([]Item(nil), q.Items...)
	}
	if q.Alertas != nil {
		c.Alertas = append([]string(nil), q.Alertas...)
	}
	if q.Contacto != nil {
		contact := *q.Contacto
		c.Contacto = &contact
	}
	if q.FechaFinalizado != nil {
		t := *q.FechaFinalizado
		c.FechaFinalizado = &t
	}
	if q.HistorialEtapas != nil {
		c.HistorialEtapas = append([]StageEntry(nil), q.HistorialEtapas...)
	}
	if q.HistorialAcciones != nil {
		c.HistorialAcciones = append([]ActionEntry(nil), q.HistorialAcciones...)
	}
	return c
}

// ImportOptions controls how an import is reconciled with stored quotes
type ImportOptions struct {
	CompareWithPrevious bool `json:"compareWithPrevious"`
	AutoFinalizeMissing bool `json:"autoFinalizeMissing"`
}

// ImportResult summarises one import
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Total   int `json:"total"`
}

// ImportSource represents where an import came from
type ImportSource string

const (
	SourceUpload ImportSource = "upload"
	SourceDemo   ImportSource = "demo"
	SourceCLI    ImportSource = "cli"
)

// ImportLog is the append-only audit record of an import
type ImportLog struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	Source      ImportSource `json:"source"`
	Username    string       `json:"username,omitempty"`
	Added       int          `json:"added"`
	Updated     int          `json:"updated"`
	Deleted     int          `json:"deleted"`
	Total       int          `json:"total"`
	SkippedRows int          `json:"skippedRows"`
	ArchiveKey  string       `json:"archiveKey,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Role is a user role
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendedor Role = "vendedor"
	RoleLector   Role = "lector"
)

// User is an application user
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BadgeProgress tracks a user's progress towards a badge
type BadgeProgress struct {
	UserID      string     `json:"userId"`
	BadgeID     string     `json:"badgeId"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time
func TimePtr(t time.Time) *time.Time {
	return &t
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool {
	return &b
}
