package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordImport(t *testing.T) {
	before := testutil.ToFloat64(importsTotal.WithLabelValues("upload", "success"))
	RecordImport("upload", "success", 150*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(importsTotal.WithLabelValues("upload", "success")))
}

func TestRecordReconcile(t *testing.T) {
	added := testutil.ToFloat64(quotesReconciled.WithLabelValues("added"))
	deleted := testutil.ToFloat64(quotesReconciled.WithLabelValues("deleted"))
	skipped := testutil.ToFloat64(skippedRows)

	RecordReconcile(3, 2, 1, 4)

	assert.Equal(t, added+3, testutil.ToFloat64(quotesReconciled.WithLabelValues("added")))
	assert.Equal(t, deleted+1, testutil.ToFloat64(quotesReconciled.WithLabelValues("deleted")))
	assert.Equal(t, skipped+4, testutil.ToFloat64(skippedRows))
}

func TestRecordReportAndFinalize(t *testing.T) {
	RecordReport("vencidos", "pdf")
	assert.GreaterOrEqual(t, testutil.ToFloat64(reportsGenerated.WithLabelValues("vencidos", "pdf")), 1.0)

	RecordFinalize("Aprobado")
	assert.GreaterOrEqual(t, testutil.ToFloat64(quotesFinalized.WithLabelValues("Aprobado")), 1.0)
}
