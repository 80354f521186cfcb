package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/presupuestos/budget-service/internal/classify"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/parsers/charset"
	"github.com/presupuestos/budget-service/internal/parsers/csv"
	"github.com/presupuestos/budget-service/internal/parsers/xlsx"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/spf13/cobra"
)

var (
	parseOutput    string
	parseEncoding  string
	parseDelimiter string
	parseAt        string
	parseSheet     string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse and classify a quote export without storing it",
	Long: `Parse a local CSV or XLSX export, group its line items by quote ID and classify every
quote (follow-up stage, priority, alerts and total amount). Nothing is stored.

Supported encodings: auto (default), utf-8, windows-1252, iso-8859-1`,
	Example: `  budget-service parse ./data/demo_presupuestos.csv
  budget-service parse ./export.csv --encoding windows-1252 --output json
  budget-service parse ./export.csv --at 2024-03-05
  budget-service parse ./export.xlsx --sheet Presupuestos`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	parseCmd.Flags().StringVar(&parseEncoding, "encoding", "auto", "File encoding: auto, utf-8, windows-1252 or iso-8859-1")
	parseCmd.Flags().StringVar(&parseDelimiter, "delimiter", "", "Field delimiter (detected when empty)")
	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "Worksheet name for XLSX files (first sheet when empty)")
	parseCmd.Flags().StringVar(&parseAt, "at", "", "Classify as of this date (YYYY-MM-DD, defaults to now)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	now := time.Now()
	if parseAt != "" {
		at, err := time.ParseInLocation(time.DateOnly, parseAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at date %q: %w", parseAt, err)
		}
		now = at
	}

	logger.Info().Str("file", filePath).Msg("Reading file")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result, err := parseFile(content)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	quotes := classify.BuildQuotes(csv.GroupByQuoteID(result.Rows), now)

	switch strings.ToLower(parseOutput) {
	case "json":
		return outputParseJSON(result, quotes)
	case "table":
		outputParseTable(result, quotes)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}

	return nil
}

// parseFile honours the format flags and otherwise detects the format like the server does
func parseFile(content []byte) (*types.ParseResult, error) {
	if xlsx.IsWorkbook(content) {
		return xlsx.NewParser(xlsx.Options{Sheet: parseSheet}).Parse(content)
	}

	csvFlags := (parseEncoding != "auto" && parseEncoding != "") || parseDelimiter != ""
	if !csvFlags {
		return importer.ParseExport(content)
	}

	opts := csv.DefaultOptions()
	if parseEncoding != "auto" && parseEncoding != "" {
		opts.Encoding = charset.Encoding(strings.ToLower(parseEncoding))
	}
	if parseDelimiter != "" {
		opts.Delimiter = csv.CsvDelimiter(parseDelimiter)
	}
	return csv.NewParser(opts).Parse(content)
}

func outputParseTable(result *types.ParseResult, quotes []types.Quote) {
	fmt.Printf("\nParse Results\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Total Rows\t%d\n", result.TotalRows)
	fmt.Fprintf(w, "Valid Rows\t%d\n", result.ValidRows)
	fmt.Fprintf(w, "Skipped Rows\t%d\n", len(result.Skipped))
	fmt.Fprintf(w, "Quotes\t%d\n", len(quotes))
	w.Flush()

	if len(result.Skipped) > 0 {
		fmt.Printf("\nFirst %d Skipped Rows:\n", min(len(result.Skipped), 10))
		fmt.Println(strings.Repeat("-", 60))
		for i, s := range result.Skipped {
			if i >= 10 {
				break
			}
			id := s.ID
			if id == "" {
				id = "-"
			}
			fmt.Printf("Row %d, ID '%s': %s\n", s.RowNumber, id, s.Reason)
		}
		if len(result.Skipped) > 10 {
			fmt.Printf("... and %d more skipped rows\n", len(result.Skipped)-10)
		}
	}

	if len(quotes) == 0 {
		return
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPRESA\tETAPA\tPRIORIDAD\tDIAS RESTANTES\tMONTO\tALERTAS")
	fmt.Fprintln(w, "--\t-------\t-----\t---------\t--------------\t-----\t-------")
	for _, q := range quotes {
		alerts := strings.Join(q.Alertas, "; ")
		if alerts == "" {
			alerts = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s %s\t%s\n",
			q.ID, q.Empresa, q.TipoSeguimiento, q.Prioridad, q.DiasRestantes, q.MontoTotal.StringFixed(2), q.Moneda, alerts)
	}
	w.Flush()
}

type parseOutputJSON struct {
	TotalRows int                `json:"totalRows"`
	ValidRows int                `json:"validRows"`
	Skipped   []types.SkippedRow `json:"skipped"`
	Quotes    []types.Quote      `json:"quotes"`
}

func outputParseJSON(result *types.ParseResult, quotes []types.Quote) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(parseOutputJSON{
		TotalRows: result.TotalRows,
		ValidRows: result.ValidRows,
		Skipped:   result.Skipped,
		Quotes:    quotes,
	})
}
