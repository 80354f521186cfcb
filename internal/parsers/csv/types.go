package csv

import (
	"fmt"

	"github.com/presupuestos/budget-service/internal/parsers/charset"
)

// CsvDelimiter represents supported CSV delimiters
type CsvDelimiter string

const (
	DelimiterComma     CsvDelimiter = ","
	DelimiterSemicolon CsvDelimiter = ";"
	DelimiterTab       CsvDelimiter = "\t"
)

// Column names of the quote export header row. Names are case-sensitive.
const (
	ColumnID             = "ID"
	ColumnEmpresa        = "Empresa"
	ColumnFechaCreacion  = "FechaCreacion"
	ColumnNroItem        = "NroItem"
	ColumnCantidad       = "Cantidad"
	ColumnCodigoProducto = "Codigo_Producto"
	ColumnDescripcion    = "Descripcion"
	ColumnFabricante     = "Fabricante"
	ColumnNetoItems      = "NetoItems_USD"
	ColumnDescuento      = "Descuento"
	ColumnValidez        = "Validez"
	ColumnNombreContacto = "Nombre_Contacto"
	ColumnDireccion      = "Direccion"
)

// requiredColumns must be present in the header, otherwise the file is not a quote export
var requiredColumns = []string{ColumnID, ColumnEmpresa, ColumnFechaCreacion, ColumnNetoItems}

// optionalColumns are mapped when present
var optionalColumns = []string{
	ColumnNroItem, ColumnCantidad, ColumnCodigoProducto, ColumnDescripcion,
	ColumnFabricante, ColumnDescuento, ColumnValidez, ColumnNombreContacto, ColumnDireccion,
}

// Skip reasons reported for excluded rows
const (
	ReasonEmptyID     = "empty id"
	ReasonInvalidDate = "invalid creation date"
)

// CsvParserOptions represents CSV parser options
type CsvParserOptions struct {
	// Delimiter is detected from the content when empty
	Delimiter CsvDelimiter `json:"delimiter,omitempty"`
	// Encoding is detected from the content when empty
	Encoding charset.Encoding `json:"encoding,omitempty"`
}

// DefaultOptions returns default CSV parser options (auto-detect everything)
func DefaultOptions() CsvParserOptions {
	return CsvParserOptions{}
}

// ParseError is returned when the content cannot be read as a quote export at all.
// No rows are returned alongside it.
type ParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("csv parse error on line %d: %s", e.Line, msg)
	}
	return "csv parse error: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
