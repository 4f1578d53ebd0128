package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"tracker/internal/core"
	"tracker/internal/services"
)

func buildReportSet(t *testing.T) services.ReportSet {
	t.Helper()
	cal := core.DefaultCalendar()
	cls := core.NewClassifier(core.DefaultRules(), cal)

	raw := []core.RawEntry{
		{Date: cal.Epoch, Task: "MASTERY: SQL Bootcamp", Notes: "DEEP DIVE: joins", Hours: core.Hours{Centi: 600}},
		{Date: cal.Epoch.AddDate(0, 0, 1), Task: "BUILDING PROJECTS: Video filming", Notes: "Day 3", Hours: core.Hours{Centi: 300}},
		{Date: cal.Cutover, Task: "MASTERY: Python Bootcamp", Notes: "S: ship the CLI", Hours: core.Hours{Centi: 200}},
	}
	enriched := services.Transform(cal, cls, raw)
	return services.ReportSet{
		Enriched:     enriched,
		Weekly:       services.SummarizeWeekly(enriched),
		CTCategories: services.BreakdownCTCategories(enriched),
		CTTypes:      services.SummarizeCTTypes(cal, enriched),
		VTCategories: services.BreakdownVTCategories(enriched),
		Progress:     services.TrackDayProgress(enriched),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	set := buildReportSet(t)

	paths, err := NewWriter(dir).WriteReports(context.Background(), set)
	if err != nil {
		t.Fatalf("WriteReports: %v", err)
	}
	if len(paths) != 6 {
		t.Fatalf("got %d paths, want 6", len(paths))
	}
	for _, name := range []string{
		FileEnriched, FileWeekly, FileCTCategories,
		FileCTTypes, FileVTCategories, FileProgress,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing report file %s: %v", name, err)
		}
	}

	enriched := readCSV(t, filepath.Join(dir, FileEnriched))
	if len(enriched) != 4 { // header + 3 rows
		t.Fatalf("enriched rows = %d, want 4", len(enriched))
	}
	if enriched[0][0] != "date" || enriched[0][10] != "time_type" {
		t.Errorf("enriched header = %v", enriched[0])
	}
	if enriched[1][10] != "CT" || enriched[2][10] != "VT" {
		t.Errorf("time_type column = %q/%q", enriched[1][10], enriched[2][10])
	}
	// day_number is blank for entries without a tag.
	if enriched[1][14] != "" || enriched[2][14] != "3" {
		t.Errorf("day_number column = %q/%q", enriched[1][14], enriched[2][14])
	}

	weekly := readCSV(t, filepath.Join(dir, FileWeekly))
	if len(weekly) != 3 { // header + 2 weeks
		t.Fatalf("weekly rows = %d, want 3", len(weekly))
	}
	if weekly[1][0] != core.DefaultCalendar().Epoch.Format("2006-01-02") {
		t.Errorf("first week start = %q", weekly[1][0])
	}
	if weekly[1][6] != "66:33" {
		t.Errorf("week 1 ratio = %q", weekly[1][6])
	}

	progress := readCSV(t, filepath.Join(dir, FileProgress))
	if len(progress) != 2 || progress[1][0] != "3" || progress[1][3] != "97" {
		t.Errorf("progress rows = %v", progress)
	}
}

func TestWriteReportsEmptySet(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewWriter(dir).WriteReports(context.Background(), services.ReportSet{}); err != nil {
		t.Fatalf("WriteReports: %v", err)
	}
	// Header-only files are still written so downstream consumers see a
	// consistent schema.
	rows := readCSV(t, filepath.Join(dir, FileWeekly))
	if len(rows) != 1 {
		t.Fatalf("empty weekly file rows = %d, want header only", len(rows))
	}
}

func TestWriteReportsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	set := services.ReportSet{}
	if _, err := NewWriter(dir).WriteReports(context.Background(), set); err != nil {
		t.Fatalf("WriteReports: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("report dir not created: %v", err)
	}
}

func TestWriteReportsBadDirectory(t *testing.T) {
	// A file where the directory should be forces MkdirAll to fail.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWriter(filepath.Join(blocker, "reports")).WriteReports(context.Background(), services.ReportSet{}); err == nil {
		t.Fatal("expected error for unusable report directory")
	}
}
