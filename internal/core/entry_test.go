package core

import (
	"testing"
	"time"
)

func TestRawEntryValidate(t *testing.T) {
	good := RawEntry{Date: date(2025, time.December, 8), Hours: Hours{Centi: 150}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (RawEntry{Hours: Hours{Centi: 100}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
	if err := (RawEntry{Date: date(2025, time.December, 8), Hours: Hours{Centi: -1}}).Validate(); err == nil {
		t.Fatalf("expected error for negative hours")
	}
	// Zero-hour rows are valid; Harvest exports contain them.
	if err := (RawEntry{Date: date(2025, time.December, 8)}).Validate(); err != nil {
		t.Fatalf("zero hours should validate, got %v", err)
	}
}

func TestEnrichDerivedColumns(t *testing.T) {
	cal := DefaultCalendar()
	cls := NewClassifier(DefaultRules(), cal)

	raw := RawEntry{
		Date:  date(2025, time.December, 10), // Wednesday of challenge week 1
		Task:  "MASTERY: Python Bootcamp",
		Notes: "  DL: generators  ",
		Hours: Hours{Centi: 250},
	}
	e := Enrich(cal, cls, raw)

	if !e.WeekStart.Equal(cal.Epoch) {
		t.Errorf("week_start = %s, want epoch", e.WeekStart.Format("2006-01-02"))
	}
	if e.Week != ChallengeWeek(1) {
		t.Errorf("week = %v, want challenge:1", e.Week)
	}
	if e.Year != 2025 || e.Month != "2025-12" || e.DayOfWeek != "Wednesday" {
		t.Errorf("derived date columns = %d %q %q", e.Year, e.Month, e.DayOfWeek)
	}
	if e.Notes != "DL: generators" {
		t.Errorf("notes not trimmed: %q", e.Notes)
	}
	if e.TimeType != TimeCT || e.CTCategory != CTPython {
		t.Errorf("classification = %s/%s", e.TimeType, e.CTCategory)
	}
}

func TestEnrichIsDeterministic(t *testing.T) {
	cal := DefaultCalendar()
	cls := NewClassifier(DefaultRules(), cal)
	raw := RawEntry{
		Date:  date(2026, time.January, 2),
		Task:  "BUILDING PROJECTS: Video filming",
		Notes: "Day 7 content",
		Hours: Hours{Centi: 100},
	}

	a := Enrich(cal, cls, raw)
	b := Enrich(cal, cls, raw)
	if a != b {
		t.Fatalf("Enrich is not deterministic: %+v vs %+v", a, b)
	}
	if a.VTCategory != VTFilming || a.DayNumber != 7 {
		t.Fatalf("unexpected classification: %+v", a)
	}
}
