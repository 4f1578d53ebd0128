// Package csvfile reads raw entries from a Harvest time-report CSV export.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"tracker/internal/core"
)

// Required export columns. Any additional columns are ignored.
const (
	colDate  = "Date"
	colTask  = "Task"
	colNotes = "Notes"
	colHours = "Hours"
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02"}

// Reader reads one CSV export file per call.
type Reader struct {
	path string
}

func New(path string) *Reader {
	return &Reader{path: path}
}

// Read parses the export and returns every row as a RawEntry. The header row
// is mandatory; malformed rows abort the read so broken input never reaches
// the pipeline.
func (r *Reader) Read(ctx context.Context) ([]core.RawEntry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", r.path, err)
	}

	slog.InfoContext(ctx, "Loaded time-tracking export",
		"path", r.path,
		"rows", len(entries))
	return entries, nil
}

// Parse reads CSV content from an io.Reader. Column positions are resolved
// from the header so exports with extra or reordered columns still load.
func Parse(src io.Reader) ([]core.RawEntry, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colHours} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q (header: %v)", required, header)
		}
	}

	var entries []core.RawEntry
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		date, err := parseDate(field(record, idx, colDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		hours, err := core.ParseHours(field(record, idx, colHours))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse hours %q: %w", line, field(record, idx, colHours), err)
		}

		entries = append(entries, core.RawEntry{
			Date:  date,
			Task:  field(record, idx, colTask),
			Notes: field(record, idx, colNotes),
			Hours: hours,
		})
	}
	return entries, nil
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
