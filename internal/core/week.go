package core

import (
	"fmt"
	"time"
)

// WeekScheme distinguishes the two numbering modes produced by Align. ISO
// numbers (pre-epoch dates) and challenge-relative numbers (epoch onward)
// are unrelated sequences and must never be compared across schemes.
type WeekScheme string

const (
	SchemeISO       WeekScheme = "iso"
	SchemeChallenge WeekScheme = "challenge"
)

// WeekNumber tags a week index with the scheme it was computed under.
type WeekNumber struct {
	Scheme WeekScheme
	N      int
}

// ISOWeek builds a week number in the ISO calendar scheme.
func ISOWeek(n int) WeekNumber {
	return WeekNumber{Scheme: SchemeISO, N: n}
}

// ChallengeWeek builds a 1-based epoch-relative week number.
func ChallengeWeek(n int) WeekNumber {
	return WeekNumber{Scheme: SchemeChallenge, N: n}
}

func (w WeekNumber) String() string {
	return fmt.Sprintf("%s:%d", w.Scheme, w.N)
}

// Calendar carries the fixed dates the aligner and classifier depend on.
// It is passed in explicitly so tests can exercise alternate epochs without
// touching globals.
type Calendar struct {
	// Epoch is the Sunday that starts challenge week 1.
	Epoch time.Time
	// Cutover is the date from which deep-dive/shipping notes conventions
	// apply; earlier entries are Pre_Classification.
	Cutover time.Time
}

// DefaultCalendar returns the production calendar: the challenge started on
// Sunday 2025-12-07 and the notes convention on 2025-12-31.
func DefaultCalendar() Calendar {
	return Calendar{
		Epoch:   time.Date(2025, time.December, 7, 0, 0, 0, 0, time.UTC),
		Cutover: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Validate checks that the epoch falls on a Sunday and precedes the cutover.
func (c Calendar) Validate() error {
	if c.Epoch.IsZero() {
		return fmt.Errorf("epoch is zero")
	}
	if c.Epoch.Weekday() != time.Sunday {
		return fmt.Errorf("epoch %s is a %s, must be a Sunday",
			c.Epoch.Format("2006-01-02"), c.Epoch.Weekday())
	}
	if c.Cutover.Before(c.Epoch) {
		return fmt.Errorf("cutover %s precedes epoch %s",
			c.Cutover.Format("2006-01-02"), c.Epoch.Format("2006-01-02"))
	}
	return nil
}

// Align maps a date to the Sunday starting its week and the week's number.
// Dates on or after the epoch get 1-based challenge-relative numbers; earlier
// dates fall back to the Sunday on or before them with the ISO week number of
// the date itself. The returned week start is always a Sunday.
func (c Calendar) Align(date time.Time) (time.Time, WeekNumber) {
	date = midnightUTC(date)
	epoch := midnightUTC(c.Epoch)

	if date.Before(epoch) {
		daysSinceSunday := int(date.Weekday()) // Sunday == 0
		weekStart := date.AddDate(0, 0, -daysSinceSunday)
		_, iso := date.ISOWeek()
		return weekStart, ISOWeek(iso)
	}

	daysSinceStart := int(date.Sub(epoch).Hours() / 24)
	n := daysSinceStart/7 + 1
	weekStart := epoch.AddDate(0, 0, (n-1)*7)
	return weekStart, ChallengeWeek(n)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
