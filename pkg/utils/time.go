package utils

import (
	"strings"
	"time"
)

// TimestampLayout is the stored timestamp format: ISO-8601 UTC with
// microsecond precision and a literal trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// NowTimestamp returns the current UTC time in the stored format.
func NowTimestamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. It tolerates plain RFC3339
// values written by earlier revisions.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DatePart returns the calendar-date prefix of a stored timestamp.
func DatePart(timestamp string) string {
	if idx := strings.IndexByte(timestamp, 'T'); idx > 0 {
		return timestamp[:idx]
	}
	return timestamp
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
