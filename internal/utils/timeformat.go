package utils

import "time"

// TimeLayout is the fixed ISO-8601 pattern used in every API response:
// second precision, UTC, literal Z suffix.
const TimeLayout = "2006-01-02T15:04:05Z"

// FormatTime renders a timestamp in the API's fixed UTC layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a timestamp previously produced by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// NowUTC returns the current time truncated to the precision the API
// exposes, so stored and rendered timestamps round-trip exactly.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
