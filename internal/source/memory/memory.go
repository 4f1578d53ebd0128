// Package memory provides an in-memory EntryReader for tests.
package memory

import (
	"context"

	"tracker/internal/core"
)

// Reader returns a fixed record set and can be told to fail.
type Reader struct {
	Entries []core.RawEntry
	Err     error
}

func New(entries ...core.RawEntry) *Reader {
	return &Reader{Entries: entries}
}

func (r *Reader) Read(ctx context.Context) ([]core.RawEntry, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]core.RawEntry, len(r.Entries))
	copy(out, r.Entries)
	return out, nil
}
