package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func TestNormalizeRelative(t *testing.T) {
	// 2025-01-10 is a Friday.
	svc := NewWithClock(fixedClock(2025, time.January, 10))

	assert.Equal(t, "2025-01-11", svc.Normalize("tomorrow"))
	assert.Equal(t, "2025-01-11", svc.Normalize("Tomorrow afternoon please"))
	assert.Equal(t, "2025-01-12", svc.Normalize("the day after tomorrow"))
	assert.Equal(t, "2025-01-10", svc.Normalize("today if possible"))
}

func TestNormalizeNextWeekday(t *testing.T) {
	// 2025-01-08 is a Wednesday.
	today := time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC)
	svc := NewWithClock(func() time.Time { return today })

	assert.Equal(t, "2025-01-13", svc.Normalize("next monday"))
	assert.Equal(t, "2025-01-10", svc.Normalize("Next Friday"))

	// Same weekday as today resolves a full week ahead, never today.
	assert.Equal(t, "2025-01-15", svc.Normalize("next wednesday"))

	for _, input := range []string{"next monday", "next tuesday", "next wednesday", "next thursday", "next friday", "next saturday", "next sunday"} {
		parsed, err := time.Parse("2006-01-02", svc.Normalize(input))
		require.NoError(t, err, input)

		diff := parsed.Sub(today.Truncate(24 * time.Hour))
		assert.Greater(t, parsed.Format("2006-01-02"), today.Format("2006-01-02"), input)
		assert.LessOrEqual(t, diff, 8*24*time.Hour, input)
	}
}

func TestNormalizeFormats(t *testing.T) {
	svc := NewWithClock(fixedClock(2025, time.January, 10))

	cases := map[string]string{
		"2025-03-15":     "2025-03-15",
		"15/03/2025":     "2025-03-15",
		"15-03-2025":     "2025-03-15",
		"March 15, 2025": "2025-03-15",
		"15 March, 2025": "2025-03-15",
		"March 15 2025":  "2025-03-15",
		"15 March 2025":  "2025-03-15",
		" 2025-03-15 ":   "2025-03-15",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, svc.Normalize(input), "input %q", input)
	}

	// Ambiguous numeric dates resolve day-first by layout order.
	assert.Equal(t, "2025-04-03", svc.Normalize("03/04/2025"))
}

func TestNormalizeFailure(t *testing.T) {
	svc := NewWithClock(fixedClock(2025, time.January, 10))

	assert.Equal(t, FailureMessage, svc.Normalize("gibberish"))
	assert.Equal(t, FailureMessage, svc.Normalize(""))
	assert.Equal(t, FailureMessage, svc.Normalize("32/13/2025"))
}
