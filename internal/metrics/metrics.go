// Package metrics registers the Prometheus collectors of the service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// importsTotal counts imports by source and outcome.
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_imports_total",
		Help: "Total number of quote imports by source and outcome",
	}, []string{"source", "outcome"}) // outcome: success, parse_error, storage_error

	// importDuration tracks end-to-end import latency.
	importDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "budget_import_duration_seconds",
		Help:    "Time taken to import a quote export by source",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"source"})

	// quotesReconciled counts quotes by reconciliation result.
	quotesReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_quotes_reconciled_total",
		Help: "Total number of quotes added, updated or auto-finalized by imports",
	}, []string{"result"}) // result: added, updated, deleted

	// skippedRows counts CSV rows excluded from imports.
	skippedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budget_import_skipped_rows_total",
		Help: "Total number of CSV rows skipped during imports",
	})

	// reportsGenerated counts generated reports by type and format.
	reportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_reports_generated_total",
		Help: "Total number of generated reports by type and format",
	}, []string{"type", "format"})

	// quotesFinalized counts user finalizations by final status.
	quotesFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_quotes_finalized_total",
		Help: "Total number of quotes finalized by users by final status",
	}, []string{"estado"})
)

// RecordImport records one import attempt
func RecordImport(source, outcome string, duration time.Duration) {
	importsTotal.WithLabelValues(source, outcome).Inc()
	importDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordReconcile records the counts of a successful import
func RecordReconcile(added, updated, deleted, skipped int) {
	quotesReconciled.WithLabelValues("added").Add(float64(added))
	quotesReconciled.WithLabelValues("updated").Add(float64(updated))
	quotesReconciled.WithLabelValues("deleted").Add(float64(deleted))
	skippedRows.Add(float64(skipped))
}

// RecordReport records a generated report
func RecordReport(reportType, format string) {
	reportsGenerated.WithLabelValues(reportType, format).Inc()
}

// RecordFinalize records a user finalization
func RecordFinalize(estado string) {
	quotesFinalized.WithLabelValues(estado).Inc()
}
