// Package source defines the inbound port for raw time-tracking entries and
// hosts its adapters (CSV export file, Google Sheets, in-memory fake).
package source

import (
	"context"

	"tracker/internal/core"
)

// EntryReader yields the full raw record set of one export. Implementations
// fail fast on structurally invalid input (missing columns, unparseable
// dates, negative hours); classification never depends on them.
type EntryReader interface {
	Read(ctx context.Context) ([]core.RawEntry, error)
}
