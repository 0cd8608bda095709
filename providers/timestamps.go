// backend/providers/timestamps.go
package providers

import (
	"strings"
	"time"
)

// The two providers disagree on timestamp formats: FlightAware emits
// RFC3339 with a zone, FlightStats emits fractional-second timestamps with
// no zone designator (we always request UTC). Layouts are tried in order;
// zoneless layouts are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a provider timestamp string, returning the zero
// time and false when the value is empty or matches no known layout.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseOptionalTimestamp is parseTimestamp for nullable fields, returning
// nil when the value is absent or unparseable. An unparseable optional time
// degrades to "no live data" rather than failing the whole observation.
func parseOptionalTimestamp(s string) *time.Time {
	if t, ok := parseTimestamp(s); ok {
		return &t
	}
	return nil
}
