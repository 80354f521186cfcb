package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/presupuestos/budget-service/internal/parsers/charset"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Parser turns a quote export into line item rows
type Parser struct {
	options CsvParserOptions
}

// NewParser creates a new CSV parser with the given options
func NewParser(options CsvParserOptions) *Parser {
	return &Parser{
		options: options,
	}
}

// RowOutcome is the tagged result of mapping one record: exactly one of Row or Skipped is set
type RowOutcome struct {
	Row     *types.QuoteLineRow
	Skipped *types.SkippedRow
}

// Parse parses CSV content into line item rows.
// Structural failures return a *ParseError; individual bad records are reported in
// ParseResult.Skipped and never fail the whole parse.
func (p *Parser) Parse(content []byte) (*types.ParseResult, error) {
	opts := p.options

	if opts.Encoding == "" {
		opts.Encoding = charset.DetectEncoding(content)
	}

	decoded, err := charset.Decode(content, opts.Encoding)
	if err != nil {
		return nil, &ParseError{Message: "failed to decode content", Err: err}
	}

	if strings.TrimSpace(decoded) == "" {
		return nil, &ParseError{Message: "empty file"}
	}

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
	}

	records, err := readRecords(decoded, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	return MapRecords(records)
}

// MapRecords maps tokenized records, header first, into line item rows.
// It is shared by every export format once the content is split into cells.
func MapRecords(records [][]string) (*types.ParseResult, error) {
	if len(records) == 0 {
		return nil, &ParseError{Message: "no header row"}
	}

	columns, err := resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	result := &types.ParseResult{
		Rows:    make([]types.QuoteLineRow, 0, len(records)-1),
		Skipped: make([]types.SkippedRow, 0),
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if isEmptyRow(record) {
			continue
		}

		result.TotalRows++
		outcome := mapRow(record, i+1, columns)
		if outcome.Skipped != nil {
			log.Debug().
				Int("row", outcome.Skipped.RowNumber).
				Str("id", outcome.Skipped.ID).
				Str("reason", outcome.Skipped.Reason).
				Msg("Skipping quote row")
			result.Skipped = append(result.Skipped, *outcome.Skipped)
			continue
		}

		result.Rows = append(result.Rows, *outcome.Row)
		result.ValidRows++
	}

	return result, nil
}

// readRecords tokenizes the whole content. Records may have differing field counts.
func readRecords(content string, delimiter CsvDelimiter) ([][]string, error) {
	reader := stdcsv.NewReader(strings.NewReader(content))
	reader.Comma = rune(delimiter[0])
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var csvErr *stdcsv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, &ParseError{Line: line, Message: "malformed CSV", Err: err}
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, &ParseError{Message: "no header row"}
	}
	return records, nil
}

// resolveColumns maps header names to column indices
func resolveColumns(header []string) (map[string]int, error) {
	indices := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := indices[name]; !dup {
			indices[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := indices[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Line: 1, Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}

	for _, col := range optionalColumns {
		if _, ok := indices[col]; !ok {
			log.Debug().Str("column", col).Msg("Optional column not present")
		}
	}

	return indices, nil
}

// mapRow maps one record to a QuoteLineRow or a skip reason
func mapRow(record []string, rowNumber int, columns map[string]int) RowOutcome {
	get := func(column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	id := get(ColumnID)
	if id == "" {
		return RowOutcome{Skipped: &types.SkippedRow{RowNumber: rowNumber, Reason: ReasonEmptyID}}
	}

	fecha := get(ColumnFechaCreacion)
	if _, err := ParseCreationDate(fecha, nil); err != nil {
		return RowOutcome{Skipped: &types.SkippedRow{RowNumber: rowNumber, ID: id, Reason: ReasonInvalidDate}}
	}

	neto, err := ParseAmount(get(ColumnNetoItems))
	if err != nil {
		neto = decimal.Zero
	}

	nroItem, _ := strconv.Atoi(get(ColumnNroItem))
	descuento, _ := parseLeadingInt(get(ColumnDescuento))
	validez, _ := parseLeadingInt(get(ColumnValidez))

	return RowOutcome{Row: &types.QuoteLineRow{
		ID:             id,
		Empresa:        get(ColumnEmpresa),
		FechaCreacion:  fecha,
		NroItem:        nroItem,
		Cantidad:       parseQuantity(get(ColumnCantidad)),
		CodigoProducto: get(ColumnCodigoProducto),
		Descripcion:    get(ColumnDescripcion),
		Fabricante:     get(ColumnFabricante),
		NetoItems:      neto,
		Descuento:      descuento,
		Validez:        validez,
		NombreContacto: get(ColumnNombreContacto),
		Direccion:      get(ColumnDireccion),
		RowNumber:      rowNumber,
	}}
}

// parseQuantity returns the item quantity, defaulting to 1 for empty or invalid values
func parseQuantity(value string) int {
	if n, err := strconv.Atoi(value); err == nil {
		if n < 1 {
			return 1
		}
		return n
	}
	if d, err := ParseAmount(value); err == nil && d.IntPart() >= 1 {
		return int(d.IntPart())
	}
	return 1
}

// isEmptyRow checks if a row is empty
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
