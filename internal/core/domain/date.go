package domain

import (
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format for date_updated.
const DateLayout = "2006-01-02"

// acceptedDateLayouts are the inputs ParseDate understands, most specific last.
var acceptedDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a calendar date given either as YYYY-MM-DD or as an
// ISO-8601 timestamp. Timestamps are converted to UTC before the time of day
// is dropped.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range acceptedDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Today returns now as a canonical date string in UTC.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// NormalizeDate coerces s to YYYY-MM-DD. Empty or unparseable input falls
// back to today.
func NormalizeDate(s string, now time.Time) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return Today(now)
}
