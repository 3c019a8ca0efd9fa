// Package dates handles the date formats used across the worksheets.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Format is the canonical store format for dates, ISO-8601.
const Format = "2006-01-02"

// DisplayFormat is the format used in UI-facing record listings.
const DisplayFormat = "02/01/2006"

// Parse reads a canonical ISO date. Any other format is an error; callers
// attach the row context.
func Parse(raw string) (time.Time, error) {
	t, err := time.Parse(Format, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("not a date in %s form: %q", Format, raw)
	}
	return t, nil
}

// FormatDate is the inverse of Parse.
func FormatDate(t time.Time) string {
	return t.Format(Format)
}

// Display renders a date for record listings.
func Display(t time.Time) string {
	return t.Format(DisplayFormat)
}

// MonthKey renders the calendar-month bucket a date falls in, e.g. "2025-03".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
