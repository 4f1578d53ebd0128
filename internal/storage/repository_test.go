package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tracker/internal/core"
	"tracker/internal/services"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func enrich(t *testing.T, raw []core.RawEntry) []core.EnrichedEntry {
	t.Helper()
	cal := core.DefaultCalendar()
	cls := core.NewClassifier(core.DefaultRules(), cal)
	return services.Transform(cal, cls, raw)
}

func epoch() time.Time {
	return core.DefaultCalendar().Epoch
}

func TestUpsertEntriesIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := enrich(t, []core.RawEntry{
		{Date: epoch(), Task: "MASTERY: SQL Bootcamp", Notes: "DEEP DIVE: joins", Hours: core.Hours{Centi: 200}},
		{Date: epoch().AddDate(0, 0, 1), Task: "BUILDING PROJECTS: Video filming", Notes: "Day 3", Hours: core.Hours{Centi: 150}},
	})

	n, err := repo.UpsertEntries(ctx, batch)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}

	if _, err := repo.UpsertEntries(ctx, batch); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	count, err := repo.CountEntries(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count after re-ingest = %d, want 2", count)
	}
}

func TestUpsertOverwritesDerivedColumns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := enrich(t, []core.RawEntry{
		{Date: epoch(), Task: "MASTERY: SQL Bootcamp", Notes: "DEEP DIVE: joins", Hours: core.Hours{Centi: 200}},
	})
	if _, err := repo.UpsertEntries(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same natural key, corrected hours. Re-exported files routinely carry
	// amended durations for existing rows.
	second := first
	second[0].Hours = core.Hours{Centi: 350}
	if _, err := repo.UpsertEntries(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	row, err := repo.GetEntry(ctx, epoch(), "MASTERY: SQL Bootcamp", "DEEP DIVE: joins")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Hours != 3.5 {
		t.Errorf("hours = %v, want 3.5", row.Hours)
	}
	if row.TimeType != "CT" || row.CTCategory != "SQL" {
		t.Errorf("classification = %s/%s", row.TimeType, row.CTCategory)
	}
	if row.WeekScheme != "challenge" || row.WeekNumber != 1 {
		t.Errorf("week = %s:%d", row.WeekScheme, row.WeekNumber)
	}

	count, err := repo.CountEntries(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestGetEntryNullColumns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := enrich(t, []core.RawEntry{
		{Date: epoch(), Task: "Team meeting", Hours: core.Hours{Centi: 100}},
	})
	if _, err := repo.UpsertEntries(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	row, err := repo.GetEntry(ctx, epoch(), "Team meeting", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.TimeType != "Other" {
		t.Errorf("time_type = %q", row.TimeType)
	}
	if row.CTCategory != "" || row.VTCategory != "" || row.CTType != "" || row.DayNumber != 0 {
		t.Errorf("untyped columns should read back empty: %+v", row)
	}
}

func TestWeeklyTotals(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := enrich(t, []core.RawEntry{
		// Pre-epoch ISO week, excluded by the since filter.
		{Date: epoch().AddDate(0, 0, -10), Task: "MASTERY: SQL Bootcamp", Hours: core.Hours{Centi: 500}},
		{Date: epoch(), Task: "MASTERY: SQL Bootcamp", Hours: core.Hours{Centi: 600}},
		{Date: epoch().AddDate(0, 0, 2), Task: "BUILDING PROJECTS: Video editing", Hours: core.Hours{Centi: 300}},
		{Date: epoch().AddDate(0, 0, 7), Task: "MASTERY: Python Bootcamp", Hours: core.Hours{Centi: 100}},
		{Date: epoch().AddDate(0, 0, 3), Task: "Lunch", Hours: core.Hours{Centi: 9900}},
	})
	if _, err := repo.UpsertEntries(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	weeks, err := repo.WeeklyTotals(ctx, epoch())
	if err != nil {
		t.Fatalf("WeeklyTotals: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("got %d weeks, want 2: %+v", len(weeks), weeks)
	}
	w1 := weeks[0]
	if !w1.WeekStart.Equal(epoch()) || w1.WeekNumber != 1 {
		t.Errorf("week 1 = %s #%d", w1.WeekStart.Format("2006-01-02"), w1.WeekNumber)
	}
	if w1.CTHours != 6 || w1.VTHours != 3 || w1.TotalHours != 9 {
		t.Errorf("week 1 hours = %v/%v/%v", w1.CTHours, w1.VTHours, w1.TotalHours)
	}
	if weeks[1].WeekNumber != 2 || weeks[1].CTHours != 1 {
		t.Errorf("week 2 = %+v", weeks[1])
	}
}

func TestCategoryTotals(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := enrich(t, []core.RawEntry{
		{Date: epoch(), Task: "MASTERY: SQL Bootcamp", Hours: core.Hours{Centi: 300}},
		{Date: epoch().AddDate(0, 0, 1), Task: "MASTERY: HackerRank SQL", Hours: core.Hours{Centi: 100}},
		{Date: epoch().AddDate(0, 0, 2), Task: "MASTERY: Python Bootcamp", Hours: core.Hours{Centi: 150}},
		{Date: epoch().AddDate(0, 0, 3), Task: "BUILDING PROJECTS: Video editing", Hours: core.Hours{Centi: 200}},
	})
	if _, err := repo.UpsertEntries(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	ct, err := repo.CTCategoryTotals(ctx, epoch())
	if err != nil {
		t.Fatalf("CTCategoryTotals: %v", err)
	}
	if len(ct) != 2 {
		t.Fatalf("ct buckets = %d, want 2: %+v", len(ct), ct)
	}
	// Ordered by hours descending within the week.
	if ct[0].Category != "SQL" || ct[0].Hours != 4 || ct[0].Entries != 2 {
		t.Errorf("ct bucket 0 = %+v", ct[0])
	}
	if ct[1].Category != "Python" || ct[1].Hours != 1.5 {
		t.Errorf("ct bucket 1 = %+v", ct[1])
	}

	vt, err := repo.VTCategoryTotals(ctx, epoch())
	if err != nil {
		t.Fatalf("VTCategoryTotals: %v", err)
	}
	if len(vt) != 1 || vt[0].Category != "Editing" || vt[0].Hours != 2 {
		t.Errorf("vt buckets = %+v", vt)
	}
}

func TestDayProgressTotals(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := enrich(t, []core.RawEntry{
		{Date: epoch().AddDate(0, 0, 5), Task: "BUILDING PROJECTS: Video filming", Notes: "Day 7 content", Hours: core.Hours{Centi: 150}},
		{Date: epoch().AddDate(0, 0, 8), Task: "BUILDING PROJECTS: Video editing", Notes: "Day 7 final cut", Hours: core.Hours{Centi: 250}},
		{Date: epoch(), Task: "MASTERY: SQL Bootcamp", Notes: "Day 1 of the bootcamp", Hours: core.Hours{Centi: 100}},
	})
	if _, err := repo.UpsertEntries(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	progress, err := repo.DayProgressTotals(ctx)
	if err != nil {
		t.Fatalf("DayProgressTotals: %v", err)
	}
	// The CT row carries no day_number, so only day 7 appears.
	if len(progress) != 1 {
		t.Fatalf("got %d days, want 1: %+v", len(progress), progress)
	}
	p := progress[0]
	if p.Day != 7 || p.TotalHours != 4 {
		t.Errorf("day 7 = %+v", p)
	}
	if !p.FirstDate.Equal(epoch().AddDate(0, 0, 5)) {
		t.Errorf("first date = %s", p.FirstDate.Format("2006-01-02"))
	}
}

func TestNewRepositoryCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "tracker.db")
	repo, err := NewRepository(path)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer repo.Close()

	if _, err := repo.CountEntries(context.Background()); err != nil {
		t.Fatalf("schema not migrated: %v", err)
	}
}
