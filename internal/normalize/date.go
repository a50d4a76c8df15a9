package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01",
	"2006/01",
	"01/02/2006",
}

// ParseDate converts a date cell to a calendar date at UTC midnight.
// Whole or fractional years map to January 1 of that year, so a YYYY.MM cell
// reads as a fractional year and keeps only its year; six-digit YYYYMM
// values map to the first of the month and eight-digit values are YYYYMMDD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "eE") {
		n := int(math.Trunc(f))
		switch {
		case n >= 1000 && n <= 9999:
			return time.Date(n, time.January, 1, 0, 0, 0, 0, time.UTC), nil
		case n >= 100001 && n <= 999912 && len(s) == 6:
			y, m := n/100, n%100
			if m >= 1 && m <= 12 {
				return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC), nil
			}
		case len(s) == 8:
			if t, err := time.Parse("20060102", s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized numeric date %q", s)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseValue reads a numeric cell. Empty, NaN and non-numeric cells are missing.
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
