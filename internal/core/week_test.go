package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarValidate(t *testing.T) {
	if err := DefaultCalendar().Validate(); err != nil {
		t.Fatalf("default calendar should validate, got %v", err)
	}

	bad := Calendar{Epoch: date(2025, time.December, 8), Cutover: date(2025, time.December, 31)}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for non-Sunday epoch")
	}

	inverted := Calendar{Epoch: date(2025, time.December, 7), Cutover: date(2025, time.November, 1)}
	if err := inverted.Validate(); err == nil {
		t.Fatalf("expected error for cutover before epoch")
	}
}

func TestAlignEpochBoundaries(t *testing.T) {
	cal := DefaultCalendar()

	ws, wn := cal.Align(cal.Epoch)
	if !ws.Equal(cal.Epoch) || wn != ChallengeWeek(1) {
		t.Fatalf("align(epoch) = (%s, %v), want (epoch, challenge:1)", ws, wn)
	}

	ws, wn = cal.Align(cal.Epoch.AddDate(0, 0, 7))
	if !ws.Equal(cal.Epoch.AddDate(0, 0, 7)) || wn != ChallengeWeek(2) {
		t.Fatalf("align(epoch+7d) = (%s, %v), want (epoch+7d, challenge:2)", ws, wn)
	}
}

func TestAlignChallengeWeeks(t *testing.T) {
	cal := DefaultCalendar()
	cases := []struct {
		d         time.Time
		wantStart time.Time
		wantN     int
	}{
		{date(2025, time.December, 7), date(2025, time.December, 7), 1},
		{date(2025, time.December, 13), date(2025, time.December, 7), 1},  // Saturday of week 1
		{date(2025, time.December, 14), date(2025, time.December, 14), 2}, // next Sunday
		{date(2025, time.December, 27), date(2025, time.December, 21), 3},
		{date(2026, time.January, 3), date(2025, time.December, 28), 4}, // week spanning new year
		{date(2026, time.January, 4), date(2026, time.January, 4), 5},
	}
	for _, tc := range cases {
		ws, wn := cal.Align(tc.d)
		if !ws.Equal(tc.wantStart) {
			t.Errorf("align(%s) week_start = %s, want %s",
				tc.d.Format("2006-01-02"), ws.Format("2006-01-02"), tc.wantStart.Format("2006-01-02"))
		}
		if wn != ChallengeWeek(tc.wantN) {
			t.Errorf("align(%s) week = %v, want challenge:%d", tc.d.Format("2006-01-02"), wn, tc.wantN)
		}
	}
}

func TestAlignWeekStartAlwaysSunday(t *testing.T) {
	cal := DefaultCalendar()
	// Sweep a range around the epoch; the invariant holds on both sides.
	for off := -60; off <= 120; off++ {
		d := cal.Epoch.AddDate(0, 0, off)
		ws, _ := cal.Align(d)
		if ws.Weekday() != time.Sunday {
			t.Fatalf("align(%s) week_start %s is a %s", d.Format("2006-01-02"), ws.Format("2006-01-02"), ws.Weekday())
		}
		if ws.After(d) {
			t.Fatalf("align(%s) week_start %s is after the date", d.Format("2006-01-02"), ws.Format("2006-01-02"))
		}
		if d.Sub(ws) >= 7*24*time.Hour {
			t.Fatalf("align(%s) week_start %s is more than 6 days back", d.Format("2006-01-02"), ws.Format("2006-01-02"))
		}
	}
}

func TestAlignPreEpochUsesISONumbers(t *testing.T) {
	cal := DefaultCalendar()

	// 2025-11-19 is a Wednesday; the Sunday on or before is 2025-11-16.
	ws, wn := cal.Align(date(2025, time.November, 19))
	if !ws.Equal(date(2025, time.November, 16)) {
		t.Fatalf("week_start = %s, want 2025-11-16", ws.Format("2006-01-02"))
	}
	_, iso := date(2025, time.November, 19).ISOWeek()
	if wn != ISOWeek(iso) {
		t.Fatalf("week = %v, want iso:%d", wn, iso)
	}

	// The two schemes are deliberately distinct values even for equal N.
	if ISOWeek(3) == ChallengeWeek(3) {
		t.Fatalf("iso and challenge numbering must not compare equal")
	}
}
