// Package services wires the pure core into the ingest flow: the transform
// pipeline, the aggregate views and the processor that drives source, report
// export and the durable sink.
package services

import (
	"tracker/internal/core"
)

// Transform enriches every raw entry with its week alignment and tag set.
// It is pure, order-preserving and total: each input row yields exactly one
// output row and no cross-entry state exists.
func Transform(cal core.Calendar, cls *core.Classifier, raw []core.RawEntry) []core.EnrichedEntry {
	enriched := make([]core.EnrichedEntry, len(raw))
	for i, r := range raw {
		enriched[i] = core.Enrich(cal, cls, r)
	}
	return enriched
}
