// Package storage is the durable sink: a SQLite table of enriched entries,
// unique on (date, task, notes), written with upsert semantics so repeated
// ingestion of overlapping exports never duplicates rows.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type Repository struct {
	db *sql.DB
}

// NewRepository opens (or creates) the database and runs migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const upsertEntry = `
INSERT INTO time_entries
    (date, week_start, week_scheme, week_number, year, month, day_of_week,
     task, notes, hours, time_type, ct_category, vt_category, ct_type, day_number)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date, task, notes) DO UPDATE SET
    hours       = excluded.hours,
    time_type   = excluded.time_type,
    ct_category = excluded.ct_category,
    vt_category = excluded.vt_category,
    ct_type     = excluded.ct_type,
    day_number  = excluded.day_number`

// UpsertEntries writes the whole batch in a single transaction. Re-ingesting
// the same (date, task, notes) overwrites the derived columns instead of
// inserting a duplicate. Returns the number of rows written.
func (r *Repository) UpsertEntries(ctx context.Context, entries []core.EnrichedEntry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertEntry)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	var written int64
	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.Date.Format(dateLayout),
			e.WeekStart.Format(dateLayout),
			string(e.Week.Scheme),
			e.Week.N,
			e.Year,
			e.Month,
			e.DayOfWeek,
			e.Task,
			e.Notes,
			e.Hours.Float(),
			string(e.TimeType),
			nullString(string(e.CTCategory)),
			nullString(string(e.VTCategory)),
			nullString(string(e.CTType)),
			nullInt(e.DayNumber),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert entry %s/%q: %w", e.Date.Format(dateLayout), e.Task, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Upserted entries into SQLite", "rows", written)
	return written, nil
}

// CountEntries returns the number of stored rows.
func (r *Repository) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// EntryRow is one stored row, read back for inspection and tests.
type EntryRow struct {
	Date       time.Time
	WeekStart  time.Time
	WeekScheme string
	WeekNumber int
	Task       string
	Notes      string
	Hours      float64
	TimeType   string
	CTCategory string
	VTCategory string
	CTType     string
	DayNumber  int
}

// GetEntry fetches one row by its natural key.
func (r *Repository) GetEntry(ctx context.Context, date time.Time, task, notes string) (*EntryRow, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT date, week_start, week_scheme, week_number, task, notes, hours,
               time_type, ct_category, vt_category, ct_type, day_number
        FROM time_entries WHERE date = ? AND task = ? AND notes = ?`,
		date.Format(dateLayout), task, notes)

	var e EntryRow
	var dateStr, weekStartStr string
	var ctCat, vtCat, ctType sql.NullString
	var dayNumber sql.NullInt64
	err := row.Scan(&dateStr, &weekStartStr, &e.WeekScheme, &e.WeekNumber,
		&e.Task, &e.Notes, &e.Hours, &e.TimeType, &ctCat, &vtCat, &ctType, &dayNumber)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if e.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("parse stored date: %w", err)
	}
	if e.WeekStart, err = time.Parse(dateLayout, weekStartStr); err != nil {
		return nil, fmt.Errorf("parse stored week_start: %w", err)
	}
	e.CTCategory = ctCat.String
	e.VTCategory = vtCat.String
	e.CTType = ctType.String
	e.DayNumber = int(dayNumber.Int64)
	return &e, nil
}

// WeeklyTotalsRow mirrors the dashboard's weekly summary query.
type WeeklyTotalsRow struct {
	WeekStart  time.Time
	WeekNumber int
	CTHours    float64
	VTHours    float64
	TotalHours float64
}

// WeeklyTotals aggregates CT/VT hours per week for weeks starting on or
// after since (the challenge epoch in production).
func (r *Repository) WeeklyTotals(ctx context.Context, since time.Time) ([]WeeklyTotalsRow, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT week_start, week_number,
               SUM(CASE WHEN time_type = 'CT' THEN hours ELSE 0 END) AS ct_hours,
               SUM(CASE WHEN time_type = 'VT' THEN hours ELSE 0 END) AS vt_hours,
               SUM(hours) AS total_hours
        FROM time_entries
        WHERE time_type IN ('CT', 'VT') AND week_start >= ?
        GROUP BY week_start, week_number
        ORDER BY week_start`,
		since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query weekly totals: %w", err)
	}
	defer rows.Close()

	var out []WeeklyTotalsRow
	for rows.Next() {
		var w WeeklyTotalsRow
		var weekStartStr string
		if err := rows.Scan(&weekStartStr, &w.WeekNumber, &w.CTHours, &w.VTHours, &w.TotalHours); err != nil {
			return nil, fmt.Errorf("scan weekly totals: %w", err)
		}
		if w.WeekStart, err = time.Parse(dateLayout, weekStartStr); err != nil {
			return nil, fmt.Errorf("parse week_start: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CategoryTotalsRow is one (week, category) bucket read back from the store.
type CategoryTotalsRow struct {
	WeekStart time.Time
	Category  string
	Hours     float64
	Entries   int64
}

// CTCategoryTotals aggregates coding hours per week and subject.
func (r *Repository) CTCategoryTotals(ctx context.Context, since time.Time) ([]CategoryTotalsRow, error) {
	return r.categoryTotals(ctx, "ct_category", "CT", since)
}

// VTCategoryTotals aggregates video hours per week and activity.
func (r *Repository) VTCategoryTotals(ctx context.Context, since time.Time) ([]CategoryTotalsRow, error) {
	return r.categoryTotals(ctx, "vt_category", "VT", since)
}

func (r *Repository) categoryTotals(ctx context.Context, column, timeType string, since time.Time) ([]CategoryTotalsRow, error) {
	q := fmt.Sprintf(`
        SELECT week_start, COALESCE(%s, ''), SUM(hours), COUNT(*)
        FROM time_entries
        WHERE time_type = ? AND week_start >= ?
        GROUP BY week_start, %s
        ORDER BY week_start, SUM(hours) DESC`, column, column)

	rows, err := r.db.QueryContext(ctx, q, timeType, since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query %s totals: %w", column, err)
	}
	defer rows.Close()

	var out []CategoryTotalsRow
	for rows.Next() {
		var c CategoryTotalsRow
		var weekStartStr string
		if err := rows.Scan(&weekStartStr, &c.Category, &c.Hours, &c.Entries); err != nil {
			return nil, fmt.Errorf("scan %s totals: %w", column, err)
		}
		if c.WeekStart, err = time.Parse(dateLayout, weekStartStr); err != nil {
			return nil, fmt.Errorf("parse week_start: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DayProgressRow mirrors the dashboard's challenge-progress query.
type DayProgressRow struct {
	Day        int
	FirstDate  time.Time
	TotalHours float64
}

// DayProgressTotals groups stored video entries by challenge day.
func (r *Repository) DayProgressTotals(ctx context.Context) ([]DayProgressRow, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT day_number, MIN(date), SUM(hours)
        FROM time_entries
        WHERE day_number IS NOT NULL AND time_type = 'VT'
        GROUP BY day_number
        ORDER BY day_number`)
	if err != nil {
		return nil, fmt.Errorf("query day progress: %w", err)
	}
	defer rows.Close()

	var out []DayProgressRow
	for rows.Next() {
		var p DayProgressRow
		var dateStr string
		if err := rows.Scan(&p.Day, &dateStr, &p.TotalHours); err != nil {
			return nil, fmt.Errorf("scan day progress: %w", err)
		}
		if p.FirstDate, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parse first date: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
