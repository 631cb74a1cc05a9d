package app

import (
	"time"

	"github.com/alexanderramin/daybook/internal/aggregate"
	"github.com/alexanderramin/daybook/internal/domain"
)

type TodayRequest struct {
	Now *time.Time
}

type TodayResponse struct {
	Date      string
	Sessions  []domain.Session
	Breakdown aggregate.TodayBreakdown
}

type UsualRequest struct {
	Now *time.Time
}

type UsualResponse struct {
	Date      string
	StartDate string
	Today     aggregate.TodayBreakdown
	Summary   aggregate.HistoricalSummary
}

type TrendRequest struct {
	Scope domain.TrendScope
	// Window is the trailing day count; zero or less means every day.
	Window int
	TopN   int
	Now    *time.Time
}

type TrendResponse struct {
	Scope  domain.TrendScope
	Window int
	TopN   int
	Result aggregate.TrendResult
}

type DayViewRequest struct {
	// Date defaults to today.
	Date     string
	Merge    bool
	ShowGaps bool
	Activity string
	Now      *time.Time
}

type DayViewResponse struct {
	Date       string
	Items      []aggregate.ViewItem
	Activities []string
	TotalMin   float64
}
