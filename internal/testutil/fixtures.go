package testutil

import (
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
)

// At builds a local wall-clock instant, the zone every date key is cut in.
func At(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local)
}

// Session options
type SessionOption func(*domain.Session)

func WithActivity(name string) SessionOption {
	return func(s *domain.Session) {
		s.Activity = name
	}
}

func WithEnd(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.End = t
	}
}

// NewTestSession returns a "Work" session of the given length starting at start.
func NewTestSession(start time.Time, minutes int, opts ...SessionOption) domain.Session {
	s := domain.Session{
		Start:    start,
		End:      start.Add(time.Duration(minutes) * time.Minute),
		Activity: "Work",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// HabitDay options
type HabitOption func(*domain.HabitDay)

func WithDone(habits ...string) HabitOption {
	return func(d *domain.HabitDay) {
		if d.Habits == nil {
			d.Habits = map[string]bool{}
		}
		for _, h := range habits {
			d.Habits[h] = true
		}
	}
}

func WithWeight(w float64) HabitOption {
	return func(d *domain.HabitDay) {
		d.Weight = &w
	}
}

func WithWastedMin(m float64) HabitOption {
	return func(d *domain.HabitDay) {
		d.WastedMin = &m
	}
}

func WithStudy(key string, minutes float64) HabitOption {
	return func(d *domain.HabitDay) {
		if d.Study == nil {
			d.Study = map[string]float64{}
		}
		d.Study[key] = minutes
	}
}

func WithCounter(key string, v float64) HabitOption {
	return func(d *domain.HabitDay) {
		if d.Counters == nil {
			d.Counters = map[string]float64{}
		}
		d.Counters[key] = v
	}
}

func NewTestHabitDay(opts ...HabitOption) domain.HabitDay {
	var d domain.HabitDay
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
