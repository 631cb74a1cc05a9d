// Package calendar converts between instants and local calendar date keys
// and formats durations for display.
package calendar

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// DateLayout is the "YYYY-MM-DD" date key layout.
const DateLayout = "2006-01-02"

const (
	MinutesPerDay = 24 * 60

	// maxRangeDays bounds DatesInRange against absurd inputs.
	maxRangeDays = 40000
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateKey returns the calendar date of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a strict YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if !dateKeyPattern.MatchString(key) {
		return time.Time{}, fmt.Errorf("invalid date key %q", key)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date key %q: %w", key, err)
	}
	return t, nil
}

// ValidDateKey reports whether key is a well-formed, real calendar date.
func ValidDateKey(key string) bool {
	_, err := ParseDateKey(key, time.UTC)
	return err == nil
}

// StartOfDay returns local midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextMidnight returns the midnight that starts the day after t. Built from
// the calendar date so days that are 23 or 25 hours long are handled.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// MinutesSinceMidnight is the fractional number of minutes elapsed since
// local midnight, counted on the wall clock.
func MinutesSinceMidnight(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60 + float64(t.Nanosecond())/6e10
}

// DiffMinutes returns b-a in fractional minutes.
func DiffMinutes(a, b time.Time) float64 {
	return b.Sub(a).Minutes()
}

// AddDays shifts a date key by n calendar days. Invalid keys are returned
// unchanged.
func AddDays(key string, n int) string {
	t, err := ParseDateKey(key, time.UTC)
	if err != nil {
		return key
	}
	return DateKey(t.AddDate(0, 0, n))
}

// DatesInRange returns every date key from start to end inclusive. It
// returns nil when either key is invalid or end precedes start.
func DatesInRange(start, end string) []string {
	s, err := ParseDateKey(start, time.UTC)
	if err != nil {
		return nil
	}
	e, err := ParseDateKey(end, time.UTC)
	if err != nil || e.Before(s) {
		return nil
	}
	var out []string
	for cur, i := s, 0; !cur.After(e) && i < maxRangeDays; cur, i = cur.AddDate(0, 0, 1), i+1 {
		out = append(out, DateKey(cur))
	}
	return out
}

// IsWeekend reports whether the date key falls on a Saturday or Sunday.
func IsWeekend(key string) bool {
	t, err := ParseDateKey(key, time.UTC)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FormatHM renders minutes as "1h 5m" or "45m".
func FormatHM(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatM renders minutes as a rounded "Nm".
func FormatM(minutes float64) string {
	return fmt.Sprintf("%dm", int(math.Round(minutes)))
}

// FormatElapsed renders a duration as "1h 2m 3s", "2m 3s" or "3s".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// MinutesSince returns whole minutes elapsed from ts to now, floored and
// clamped at zero. Nil in, nil out.
func MinutesSince(ts *time.Time, now time.Time) *int {
	if ts == nil || ts.IsZero() {
		return nil
	}
	m := int(math.Floor(now.Sub(*ts).Minutes()))
	if m < 0 {
		m = 0
	}
	return &m
}
