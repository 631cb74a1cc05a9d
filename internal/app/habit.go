package app

import (
	"time"

	"github.com/alexanderramin/daybook/internal/aggregate"
	"github.com/alexanderramin/daybook/internal/domain"
)

type HabitDayRequest struct {
	// Date defaults to today.
	Date string
	Now  *time.Time
}

type HabitDayResponse struct {
	Date     string
	Day      domain.HabitDay
	Habits   []string
	Streaks  map[string]int
	Vacation bool
}

type HabitSummaryRequest struct {
	// Start defaults to the configured tracking start date.
	Start string
	Now   *time.Time
}

type HabitSummaryResponse struct {
	Start        string
	End          string
	Aggregate    aggregate.HabitAggregate
	Weights      []aggregate.WeightPoint
	WeightChange *aggregate.WeightDelta
}

// SinceResponse holds whole minutes since each event counter last
// increased; nil where it never has.
type SinceResponse struct {
	Now       time.Time
	ByCounter map[string]*int
	Any       *int
}
