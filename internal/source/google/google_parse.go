package google

import (
	"fmt"
	"strings"
	"time"

	"tracker/internal/core"
)

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02"}

// parseEntries converts a values matrix (as returned by the Sheets API) into
// raw entries. The first row must be a header containing Date and Hours;
// Task and Notes are optional, extra columns are ignored.
func parseEntries(values [][]interface{}) ([]core.RawEntry, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	colDate := indexOf(headers, "Date")
	colTask := indexOf(headers, "Task")
	colNotes := indexOf(headers, "Notes")
	colHours := indexOf(headers, "Hours")
	if colDate == -1 || colHours == -1 {
		return nil, fmt.Errorf("unexpected header: need Date and Hours, got %v", headers)
	}

	var entries []core.RawEntry
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		dateStr := strings.TrimSpace(safeGet(row, colDate))
		if dateStr == "" && rowEmpty(row) {
			continue // trailing blank rows are common in sheets
		}

		date, err := parseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		hours, err := core.ParseHours(safeGet(row, colHours))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse hours %q: %w", i+1, safeGet(row, colHours), err)
		}

		entries = append(entries, core.RawEntry{
			Date:  date,
			Task:  safeGet(row, colTask),
			Notes: safeGet(row, colNotes),
			Hours: hours,
		})
	}
	return entries, nil
}

func parseDate(s string) (time.Time, error) {
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

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
