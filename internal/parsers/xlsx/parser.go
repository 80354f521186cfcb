// Package xlsx reads quote exports saved as Excel workbooks.
// Cells are read as displayed, so dates must be formatted DD/MM/YYYY as in the CSV export.
package xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/presupuestos/budget-service/internal/parsers/csv"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/xuri/excelize/v2"
)

// zipMagic starts every OOXML workbook
var zipMagic = []byte("PK\x03\x04")

// Options represents XLSX parser options
type Options struct {
	// Sheet selects the worksheet by name; the first sheet is used when empty
	Sheet string `json:"sheet,omitempty"`
}

// Parser reads the quote sheet of a workbook
type Parser struct {
	options Options
}

// NewParser creates a new XLSX parser
func NewParser(options Options) *Parser {
	return &Parser{options: options}
}

// IsWorkbook reports whether content looks like an XLSX file
func IsWorkbook(content []byte) bool {
	return bytes.HasPrefix(content, zipMagic)
}

// Parse maps the rows of the selected sheet with the same column contract as the CSV export
func (p *Parser) Parse(content []byte) (*types.ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &csv.ParseError{Message: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheet, err := p.selectSheet(f)
	if err != nil {
		return nil, &csv.ParseError{Message: err.Error()}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &csv.ParseError{Message: "failed to read worksheet", Err: err}
	}
	if len(rows) == 0 {
		return nil, &csv.ParseError{Message: "empty file"}
	}

	return csv.MapRecords(rows)
}

// selectSheet returns the configured sheet or the first one
func (p *Parser) selectSheet(f *excelize.File) (string, error) {
	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	if p.options.Sheet == "" {
		return sheetList[0], nil
	}

	for _, name := range sheetList {
		if name == p.options.Sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", p.options.Sheet, strings.Join(sheetList, ", "))
}
