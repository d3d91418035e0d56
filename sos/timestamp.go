package sos

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for ISO-8601 timestamps. Fractional seconds are accepted
// after the seconds field by every layout that has one.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date-time. Values without an
// offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatFilterTime renders t in UTC the way temporalFilter bounds are sent,
// e.g. 2020-01-01T00:00:00Z.
func FormatFilterTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999") + "Z"
}
