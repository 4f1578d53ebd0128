// Package core holds the pure domain logic of the time-tracking pipeline:
// duration parsing, week alignment and entry classification.
//
// Everything in this package is side-effect free; persistence and I/O live
// behind the source and storage packages.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Hours is a duration expressed in hundredths of an hour. Harvest exports
// durations as decimals with two fractional digits, so centi-hours keep the
// arithmetic exact without floating point.
type Hours struct {
	Centi int64
}

var ErrInvalidHours = errors.New("invalid hours")

// HoursFromFloat converts a decimal hour value with half-up rounding on the
// third decimal place.
func HoursFromFloat(v float64) Hours {
	if v < 0 {
		return Hours{}
	}
	return Hours{Centi: int64(v*100 + 0.5)}
}

// Float returns the decimal hour value for display and storage.
func (h Hours) Float() float64 {
	return float64(h.Centi) / 100.0
}

// Add returns the sum of two durations.
func (h Hours) Add(o Hours) Hours {
	return Hours{Centi: h.Centi + o.Centi}
}

// IsZero reports whether the duration is zero.
func (h Hours) IsZero() bool {
	return h.Centi == 0
}

func (h Hours) String() string {
	return fmt.Sprintf("%d.%02d", h.Centi/100, h.Centi%100)
}

// ParseHours converts a decimal string to centi-hours. It accepts both dot
// (1.25) and comma (1,25) separators and performs half-up rounding on the
// third decimal place. Zero is a valid duration; negative values are not.
func ParseHours(s string) (Hours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Hours{}, ErrInvalidHours
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Hours{}, ErrInvalidHours
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Hours{}, ErrInvalidHours
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Hours{}, ErrInvalidHours
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Hours{}, ErrInvalidHours
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Hours{}, ErrInvalidHours
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Hours{}, ErrInvalidHours
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return Hours{Centi: iv*100 + frac}, nil
}
