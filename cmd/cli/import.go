package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/presupuestos/budget-service/internal/archive"
	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/spf13/cobra"
)

var (
	importCompare      bool
	importAutoFinalize bool
	importNoArchive    bool
	importUsername     string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a quote export into the configured store",
	Long: `Parse, classify and reconcile a CSV export against the stored quotes, exactly as
an upload through the API does. User-managed fields of existing quotes are kept.

With --compare and --auto-finalize, stored quotes missing from the export are
finalized as Vencido.`,
	Example: `  budget-service import ./export.csv
  budget-service import ./export.csv --compare --auto-finalize`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importCompare, "compare", false, "Compare with stored quotes")
	importCmd.Flags().BoolVar(&importAutoFinalize, "auto-finalize", false, "Finalize stored quotes missing from the export (requires --compare)")
	importCmd.Flags().BoolVar(&importNoArchive, "no-archive", false, "Do not archive the raw export")
	importCmd.Flags().StringVar(&importUsername, "username", "cli", "Username recorded in the import log")
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	opts := []importer.Option{importer.WithBadges(badges.NewEngine(store, *logger))}
	if !importNoArchive {
		a, err := archive.NewLocalArchive(cfg.Storage.ArchivePath)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		opts = append(opts, importer.WithArchive(a))
	}

	svc := importer.NewService(store, *logger, opts...)
	summary, err := svc.Import(cmd.Context(), importer.Request{
		Filename: filepath.Base(filePath),
		Content:  content,
		Options: types.ImportOptions{
			CompareWithPrevious: importCompare,
			AutoFinalizeMissing: importAutoFinalize,
		},
		Source:   types.SourceCLI,
		Username: importUsername,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	displayImportSummary(summary)
	return nil
}

func displayImportSummary(s *importer.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "IMPORT ID\tTOTAL\tADDED\tUPDATED\tFINALIZED\tSKIPPED ROWS")
	fmt.Fprintln(w, "---------\t-----\t-----\t-------\t---------\t------------")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", s.ImportID, s.Total, s.Added, s.Updated, s.Deleted, len(s.Skipped))
	w.Flush()

	for _, id := range s.Finalized {
		fmt.Printf("Finalized as Vencido: %s\n", id)
	}
}
