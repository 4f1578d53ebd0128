// Package export writes the enriched record set and the aggregate views as
// CSV files, mirroring the report files the dashboard pipeline consumes.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"tracker/internal/core"
	"tracker/internal/services"
)

const dateLayout = "2006-01-02"

// Report file names inside the output directory.
const (
	FileEnriched     = "entries_transformed.csv"
	FileWeekly       = "weekly_summary.csv"
	FileCTCategories = "ct_category_breakdown.csv"
	FileCTTypes      = "ct_type_breakdown.csv"
	FileVTCategories = "vt_category_breakdown.csv"
	FileProgress     = "day_progress.csv"
)

// Writer renders report sets into a directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteReports writes all six files. The files are independent, so they are
// written concurrently. Returns the paths written.
func (w *Writer) WriteReports(ctx context.Context, set services.ReportSet) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	jobs := []struct {
		name  string
		write func(path string) error
	}{
		{FileEnriched, func(p string) error { return writeEnriched(p, set.Enriched) }},
		{FileWeekly, func(p string) error { return writeWeekly(p, set.Weekly) }},
		{FileCTCategories, func(p string) error { return writeCategories(p, "ct_category", set.CTCategories) }},
		{FileCTTypes, func(p string) error { return writeCTTypes(p, set.CTTypes) }},
		{FileVTCategories, func(p string) error { return writeCategories(p, "vt_category", set.VTCategories) }},
		{FileProgress, func(p string) error { return writeProgress(p, set.Progress) }},
	}

	g, _ := errgroup.WithContext(ctx)
	paths := make([]string, len(jobs))
	for i, job := range jobs {
		path := filepath.Join(w.dir, job.name)
		paths[i] = path
		write := job.write
		g.Go(func() error { return write(path) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Report files written", "dir", w.dir, "files", len(paths))
	return paths, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func writeEnriched(path string, entries []core.EnrichedEntry) error {
	header := []string{
		"date", "week_start", "week_scheme", "week_number", "year", "month",
		"day_of_week", "task", "notes", "hours", "time_type", "ct_category",
		"vt_category", "ct_type", "day_number",
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date.Format(dateLayout),
			e.WeekStart.Format(dateLayout),
			string(e.Week.Scheme),
			strconv.Itoa(e.Week.N),
			strconv.Itoa(e.Year),
			e.Month,
			e.DayOfWeek,
			e.Task,
			e.Notes,
			e.Hours.String(),
			string(e.TimeType),
			string(e.CTCategory),
			string(e.VTCategory),
			string(e.CTType),
			dayNumberField(e.DayNumber),
		})
	}
	return writeCSV(path, header, rows)
}

func writeWeekly(path string, weekly []services.WeeklySummary) error {
	header := []string{"week_start", "ct_hours", "vt_hours", "total_hours", "ct_pct", "vt_pct", "ct_vt_ratio"}
	rows := make([][]string, 0, len(weekly))
	for _, w := range weekly {
		rows = append(rows, []string{
			w.WeekStart.Format(dateLayout),
			w.CTHours.String(),
			w.VTHours.String(),
			w.TotalHours.String(),
			formatPct(w.CTPct),
			formatPct(w.VTPct),
			w.Ratio,
		})
	}
	return writeCSV(path, header, rows)
}

func writeCategories(path, categoryCol string, rows []services.CategoryHours) error {
	header := []string{"week_start", categoryCol, "hours"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.WeekStart.Format(dateLayout),
			r.Category,
			r.Hours.String(),
		})
	}
	return writeCSV(path, header, out)
}

func writeCTTypes(path string, rows []services.CTTypeSummary) error {
	header := []string{"week_start", "deep_dive_hours", "shipping_hours", "uncategorized_hours", "dd_pct", "s_pct", "dd_s_ratio"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.WeekStart.Format(dateLayout),
			r.DeepDive.String(),
			r.Shipping.String(),
			r.Uncategorized.String(),
			formatPct(r.DeepDivePct),
			formatPct(r.ShippingPct),
			r.Ratio,
		})
	}
	return writeCSV(path, header, out)
}

func writeProgress(path string, rows []services.DayProgress) error {
	header := []string{"day", "first_date", "total_hours", "days_remaining", "progress_pct"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.Itoa(r.Day),
			r.FirstDate.Format(dateLayout),
			r.TotalHours.String(),
			strconv.Itoa(r.DaysRemaining),
			formatPct(r.ProgressPct),
		})
	}
	return writeCSV(path, header, out)
}

func dayNumberField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
