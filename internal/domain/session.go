package domain

import "time"

// Session is one contiguous, single-activity interval.
type Session struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Activity string    `json:"activity"`
}

// Duration returns End-Start without any day-boundary clamping.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Minutes returns the session duration in fractional minutes.
func (s Session) Minutes() float64 {
	return s.Duration().Minutes()
}

// Matches reports exact equality on start, end and activity.
func (s Session) Matches(other Session) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End) && s.Activity == other.Activity
}

// DayLog is the session collection for one local calendar date.
type DayLog struct {
	Date     string    `json:"date"`
	Sessions []Session `json:"sessions"`
}

// LoggedSegments is the single-level undo record for the most recent log.
type LoggedSegments struct {
	PrevStop time.Time `json:"prevStop"`
	Segments []Session `json:"segments"`
}
