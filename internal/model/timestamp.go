package model

import (
	"fmt"
	"time"
)

const (
	// ISOLayout matches what browsers emit for Date.toISOString.
	ISOLayout = "2006-01-02T15:04:05.000Z"
	// LocalMinuteLayout is the datetime-local input format (minute precision, no zone).
	LocalMinuteLayout = "2006-01-02T15:04"
	// DisplayLayout is how cards render timestamps.
	DisplayLayout = "02/01/2006 15:04"
)

// accepted input layouts, most specific first
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	ISOLayout,
	"2006-01-02T15:04:05.9999999", // .NET DateTime without zone
	"2006-01-02T15:04:05",
	LocalMinuteLayout,
}

// ISOTimestamp formats t in UTC with millisecond precision.
func ISOTimestamp(t time.Time) string { return t.UTC().Format(ISOLayout) }

// LocalMinuteTimestamp formats t in local time, truncated to the minute.
func LocalMinuteTimestamp(t time.Time) string { return t.Local().Format(LocalMinuteLayout) }

// ParseTimestamp accepts every format the backend or the UI may produce.
// Zone-less layouts are interpreted in local time.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unsupported format", s)
}

// DisplayTimestamp renders s for humans, falling back to the raw value.
func DisplayTimestamp(s string) string {
	t, err := ParseTimestamp(s)
	if err != nil {
		return s
	}
	return t.Local().Format(DisplayLayout)
}
