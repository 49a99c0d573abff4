package dateparse

import (
	"strings"
	"time"

	"github.com/samber/do"
)

// FailureMessage is returned when no rule matches. It is data, not an error:
// the agent reads it and asks the user to rephrase.
const FailureMessage = "Could not parse date. Please use YYYY-MM-DD format."

const isoLayout = "2006-01-02"

// weekdays in a fixed order so that inputs naming several days resolve
// deterministically.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// layouts are tried in order; ambiguous numeric dates resolve to the first
// matching layout (day-first), not to a locale.
var layouts = []string{
	isoLayout,
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"01-02-2006",
	"January 2, 2006",
	"2 January, 2006",
	"January 2 2006",
	"2 January 2006",
}

type Service struct {
	now func() time.Time
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{now: time.Now}, nil
}

// NewWithClock fixes the reference date, making Normalize deterministic.
func NewWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

// Normalize converts free text containing a date reference into YYYY-MM-DD,
// or FailureMessage when nothing matches.
func (s *Service) Normalize(text string) string {
	today := s.now()
	lower := strings.ToLower(text)

	if strings.Contains(lower, "next") {
		for _, wd := range weekdays {
			if !strings.Contains(lower, wd.name) {
				continue
			}

			daysAhead := int(wd.day) - int(today.Weekday())
			if daysAhead <= 0 {
				daysAhead += 7
			}

			return today.AddDate(0, 0, daysAhead).Format(isoLayout)
		}
	}

	// "day after tomorrow" contains "tomorrow", so it must be checked first.
	switch {
	case strings.Contains(lower, "day after tomorrow"):
		return today.AddDate(0, 0, 2).Format(isoLayout)
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1).Format(isoLayout)
	case strings.Contains(lower, "today"):
		return today.Format(isoLayout)
	}

	trimmed := strings.TrimSpace(text)
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(isoLayout)
		}
	}

	return FailureMessage
}
