package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"tracker/internal/core"
)

// WeeklySummary is the CT:VT balance of one challenge week.
type WeeklySummary struct {
	WeekStart  time.Time
	CTHours    core.Hours
	VTHours    core.Hours
	TotalHours core.Hours
	CTPct      float64
	VTPct      float64
	// Ratio is the display string "66:33". The percentages are truncated,
	// not rounded, so the two sides can sum to 99. That quirk is part of
	// the dashboard contract and is kept on purpose.
	Ratio string
}

// CategoryHours is one (week, category) bucket of summed hours.
type CategoryHours struct {
	WeekStart time.Time
	Category  string
	Hours     core.Hours
}

// CTTypeSummary is the deep-dive vs shipping balance of one week, computed
// only over entries dated on or after the cutover.
type CTTypeSummary struct {
	WeekStart     time.Time
	DeepDive      core.Hours
	Shipping      core.Hours
	Uncategorized core.Hours
	DeepDivePct   float64
	ShippingPct   float64
	// Ratio is "70:30" style, or "N/A" for weeks with no classified hours.
	Ratio string
}

// DayProgress tracks one challenge day extracted from video entries.
type DayProgress struct {
	Day           int
	FirstDate     time.Time
	TotalHours    core.Hours
	DaysRemaining int
	ProgressPct   float64
}

// challengeLength is the total day count of the 100-days challenge.
const challengeLength = 100

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// truncRatio renders two percentages as the truncated "N:M" display string.
func truncRatio(a, b float64) string {
	return fmt.Sprintf("%d:%d", int(a), int(b))
}

// SummarizeWeekly buckets CT and VT hours per week start. Other-typed rows
// are excluded. Output is sorted by week start ascending.
func SummarizeWeekly(entries []core.EnrichedEntry) []WeeklySummary {
	type bucket struct {
		ct core.Hours
		vt core.Hours
	}
	buckets := map[time.Time]*bucket{}
	for _, e := range entries {
		if e.TimeType != core.TimeCT && e.TimeType != core.TimeVT {
			continue
		}
		b, ok := buckets[e.WeekStart]
		if !ok {
			b = &bucket{}
			buckets[e.WeekStart] = b
		}
		if e.TimeType == core.TimeCT {
			b.ct = b.ct.Add(e.Hours)
		} else {
			b.vt = b.vt.Add(e.Hours)
		}
	}

	out := make([]WeeklySummary, 0, len(buckets))
	for ws, b := range buckets {
		total := b.ct.Add(b.vt)
		s := WeeklySummary{
			WeekStart:  ws,
			CTHours:    b.ct,
			VTHours:    b.vt,
			TotalHours: total,
		}
		if !total.IsZero() {
			s.CTPct = round1(float64(b.ct.Centi) / float64(total.Centi) * 100)
			s.VTPct = round1(float64(b.vt.Centi) / float64(total.Centi) * 100)
		}
		s.Ratio = truncRatio(s.CTPct, s.VTPct)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out
}

// BreakdownCTCategories sums CT hours per (week, subject). Rows without a
// subject keep an empty category name. Sorted by week, then category.
func BreakdownCTCategories(entries []core.EnrichedEntry) []CategoryHours {
	return breakdown(entries, func(e core.EnrichedEntry) (string, bool) {
		return string(e.CTCategory), e.TimeType == core.TimeCT
	})
}

// BreakdownVTCategories sums VT hours per (week, activity).
func BreakdownVTCategories(entries []core.EnrichedEntry) []CategoryHours {
	return breakdown(entries, func(e core.EnrichedEntry) (string, bool) {
		return string(e.VTCategory), e.TimeType == core.TimeVT
	})
}

// BreakdownCTTypes sums CT hours per (week, ct_type), restricted to entries
// on or after the cutover date; earlier rows carry only Pre_Classification
// and would drown out the signal.
func BreakdownCTTypes(cal core.Calendar, entries []core.EnrichedEntry) []CategoryHours {
	return breakdown(entries, func(e core.EnrichedEntry) (string, bool) {
		return string(e.CTType), e.TimeType == core.TimeCT && !e.Date.Before(cal.Cutover)
	})
}

type weekCategory struct {
	week time.Time
	cat  string
}

func breakdown(entries []core.EnrichedEntry, key func(core.EnrichedEntry) (string, bool)) []CategoryHours {
	sums := map[weekCategory]core.Hours{}
	for _, e := range entries {
		cat, ok := key(e)
		if !ok {
			continue
		}
		k := weekCategory{week: e.WeekStart, cat: cat}
		sums[k] = sums[k].Add(e.Hours)
	}
	out := make([]CategoryHours, 0, len(sums))
	for k, h := range sums {
		out = append(out, CategoryHours{WeekStart: k.week, Category: k.cat, Hours: h})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.Before(out[j].WeekStart)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// SummarizeCTTypes pivots the post-cutover ct_type buckets into one row per
// week with the deep-dive/shipping ratio.
func SummarizeCTTypes(cal core.Calendar, entries []core.EnrichedEntry) []CTTypeSummary {
	rows := BreakdownCTTypes(cal, entries)

	byWeek := map[time.Time]*CTTypeSummary{}
	order := []time.Time{}
	for _, r := range rows {
		s, ok := byWeek[r.WeekStart]
		if !ok {
			s = &CTTypeSummary{WeekStart: r.WeekStart}
			byWeek[r.WeekStart] = s
			order = append(order, r.WeekStart)
		}
		switch core.CTType(r.Category) {
		case core.CTTypeDeepDive:
			s.DeepDive = s.DeepDive.Add(r.Hours)
		case core.CTTypeShipping:
			s.Shipping = s.Shipping.Add(r.Hours)
		default:
			s.Uncategorized = s.Uncategorized.Add(r.Hours)
		}
	}

	out := make([]CTTypeSummary, 0, len(order))
	for _, ws := range order {
		s := byWeek[ws]
		classified := s.DeepDive.Add(s.Shipping)
		if classified.IsZero() {
			s.Ratio = "N/A"
		} else {
			s.DeepDivePct = round1(float64(s.DeepDive.Centi) / float64(classified.Centi) * 100)
			s.ShippingPct = round1(float64(s.Shipping.Centi) / float64(classified.Centi) * 100)
			s.Ratio = truncRatio(s.DeepDivePct, s.ShippingPct)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })
	return out
}

// TrackDayProgress folds video entries tagged with a challenge day into one
// row per day: first date the day appeared and total hours spent on it.
func TrackDayProgress(entries []core.EnrichedEntry) []DayProgress {
	byDay := map[int]*DayProgress{}
	for _, e := range entries {
		if e.DayNumber == 0 {
			continue
		}
		p, ok := byDay[e.DayNumber]
		if !ok {
			p = &DayProgress{Day: e.DayNumber, FirstDate: e.Date}
			byDay[e.DayNumber] = p
		}
		if e.Date.Before(p.FirstDate) {
			p.FirstDate = e.Date
		}
		p.TotalHours = p.TotalHours.Add(e.Hours)
	}

	out := make([]DayProgress, 0, len(byDay))
	for _, p := range byDay {
		p.DaysRemaining = challengeLength - p.Day
		p.ProgressPct = round1(float64(p.Day) / challengeLength * 100)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
