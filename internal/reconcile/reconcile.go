// Package reconcile merges a freshly imported quote set into the stored one.
//
// Counting is by ID presence only: an incoming quote whose ID is already stored is an
// update even when nothing changed. Derived fields always come from the incoming quote;
// user-owned fields always come from the stored one.
package reconcile

import (
	"time"

	"github.com/presupuestos/budget-service/internal/types"
)

// Options controls the handling of stored quotes missing from the import
type Options struct {
	CompareWithPrevious bool
	AutoFinalizeMissing bool
	// Now stamps fechaFinalizado on auto-finalized quotes. Zero leaves it unset.
	Now time.Time
}

// FromImportOptions converts API import options
func FromImportOptions(o types.ImportOptions, now time.Time) Options {
	return Options{
		CompareWithPrevious: o.CompareWithPrevious,
		AutoFinalizeMissing: o.AutoFinalizeMissing,
		Now:                 now,
	}
}

// finalizesMissing reports whether missing quotes are finalized and counted as deleted
func (o Options) finalizesMissing() bool {
	return o.AutoFinalizeMissing && o.CompareWithPrevious
}

// Outcome is the merged quote set plus the import counts
type Outcome struct {
	Merged []types.Quote
	Result types.ImportResult
	// Finalized lists the IDs auto-finalized by this reconciliation
	Finalized []string
}

// Reconcile diffs incoming against existing. It never fails and does not modify its inputs.
//
// Merged holds every incoming quote (in incoming order) followed by every stored quote
// absent from the import (in stored order), the latter finalized when both options are set.
func Reconcile(existing, incoming []types.Quote, opts Options) Outcome {
	existingByID := make(map[string]types.Quote, len(existing))
	for _, q := range existing {
		existingByID[q.ID] = q
	}
	incomingIDs := make(map[string]struct{}, len(incoming))
	for _, q := range incoming {
		incomingIDs[q.ID] = struct{}{}
	}

	out := Outcome{
		Merged:    make([]types.Quote, 0, len(incoming)+len(existing)),
		Finalized: []string{},
		Result:    types.ImportResult{Total: len(incoming)},
	}

	for _, in := range incoming {
		prev, ok := existingByID[in.ID]
		if !ok {
			out.Result.Added++
			out.Merged = append(out.Merged, in.Clone())
			continue
		}
		out.Result.Updated++
		out.Merged = append(out.Merged, PreserveUserFields(in, prev))
	}

	for _, prev := range existing {
		if _, seen := incomingIDs[prev.ID]; seen {
			continue
		}
		missing := prev.Clone()
		if opts.finalizesMissing() && !prev.Finalizado {
			missing.Finalizado = true
			missing.Estado = types.StatusVencido
			if !opts.Now.IsZero() {
				missing.FechaFinalizado = types.TimePtr(opts.Now)
			}
			out.Result.Deleted++
			out.Finalized = append(out.Finalized, missing.ID)
		}
		out.Merged = append(out.Merged, missing)
	}

	return out
}

// PreserveUserFields returns incoming with the user-owned fields of prev
func PreserveUserFields(incoming, prev types.Quote) types.Quote {
	merged := incoming.Clone()
	p := prev.Clone()

	merged.Notas = p.Notas
	merged.Completado = p.Completado
	merged.Estado = p.Estado
	if merged.Estado == "" {
		merged.Estado = types.StatusPendiente
	}
	merged.Finalizado = p.Finalizado
	merged.FechaFinalizado = p.FechaFinalizado
	merged.HistorialEtapas = p.HistorialEtapas
	merged.HistorialAcciones = p.HistorialAcciones
	if merged.HistorialEtapas == nil {
		merged.HistorialEtapas = []types.StageEntry{}
	}
	if merged.HistorialAcciones == nil {
		merged.HistorialAcciones = []types.ActionEntry{}
	}
	return merged
}
