// backend/providers/timestamps_test.go
package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-03-01T17:00:00Z",
		"2025-03-01T17:00:00.000Z",
		"2025-03-01T17:00:00.000",
		"2025-03-01T17:00:00",
		"2025-03-01 17:00:00",
	} {
		got, ok := parseTimestamp(in)
		require.True(t, ok, "input %q", in)
		assert.True(t, want.Equal(got), "input %q parsed to %v", in, got)
	}
}

func TestParseTimestampZoneOffset(t *testing.T) {
	got, ok := parseTimestamp("2025-03-01T12:00:00-05:00")
	require.True(t, ok)
	assert.True(t, time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC).Equal(got))
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "03/01/2025"} {
		_, ok := parseTimestamp(in)
		assert.False(t, ok, "input %q", in)
	}
	assert.Nil(t, parseOptionalTimestamp("not-a-time"))
}
