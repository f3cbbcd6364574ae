package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// clock is a package-level time source so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock exposes the active time source.
func Clock() clockwork.Clock {
	return clock
}

// NowUTC exposes the clock for deterministic testing.
func NowUTC() time.Time {
	return clock.Now().UTC()
}

// TodayUTC returns midnight UTC of the current day.
func TodayUTC() time.Time {
	return StartOfDay(NowUTC())
}

// StartOfDay truncates t to midnight in UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value as a UTC date. Empty input yields the zero time.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", raw)
	}
	return t, nil
}
