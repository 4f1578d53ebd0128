package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrZeroDate      = errors.New("entry date is zero")
	ErrNegativeHours = errors.New("entry hours are negative")
)

// RawEntry is one row of a time-tracking export: a date, an optional task
// label, optional free-text notes and a duration. Absent task/notes arrive
// as empty strings. It has no identity beyond its field values.
type RawEntry struct {
	Date  time.Time
	Task  string
	Notes string
	Hours Hours
}

// Validate rejects structurally broken rows. Classification ambiguity is
// never an error; only a zero date or negative duration is.
func (e RawEntry) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if e.Hours.Centi < 0 {
		return ErrNegativeHours
	}
	return nil
}

// EnrichedEntry extends a RawEntry with its week alignment and tag set.
// Notes holds the cleaned text (trimmed, never absent).
type EnrichedEntry struct {
	Date      time.Time
	WeekStart time.Time
	Week      WeekNumber
	Year      int
	Month     string // "2025-12"
	DayOfWeek string // "Sunday"
	Task      string
	Notes     string
	Hours     Hours

	TimeType   TimeType
	CTCategory CTCategory
	VTCategory VTCategory
	CTType     CTType
	DayNumber  int // 0 when no day tag was found
}

// Enrich derives the full row for one raw entry using the given calendar and
// classifier. It is pure and total: any valid entry produces exactly one
// enriched row.
func Enrich(cal Calendar, cls *Classifier, raw RawEntry) EnrichedEntry {
	date := midnightUTC(raw.Date)
	weekStart, week := cal.Align(date)
	notes := strings.TrimSpace(raw.Notes)
	tags := cls.Classify(raw.Task, notes, date)

	return EnrichedEntry{
		Date:      date,
		WeekStart: weekStart,
		Week:      week,
		Year:      date.Year(),
		Month:     date.Format("2006-01"),
		DayOfWeek: date.Weekday().String(),
		Task:      raw.Task,
		Notes:     notes,
		Hours:     raw.Hours,

		TimeType:   tags.TimeType,
		CTCategory: tags.CTCategory,
		VTCategory: tags.VTCategory,
		CTType:     tags.CTType,
		DayNumber:  tags.DayNumber,
	}
}
