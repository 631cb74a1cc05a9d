package app

import (
	"context"
	"time"
)

type LoggerUseCase interface {
	LogSince(ctx context.Context, req LogRequest) (*LogResult, error)
	Undo(ctx context.Context) (*UndoResult, error)
	Cursor(ctx context.Context, req CursorRequest) (*CursorResponse, error)
	UndoAvailable(ctx context.Context) bool
}

type ActivityStatsUseCase interface {
	Today(ctx context.Context, req TodayRequest) (*TodayResponse, error)
	Usual(ctx context.Context, req UsualRequest) (*UsualResponse, error)
	Trends(ctx context.Context, req TrendRequest) (*TrendResponse, error)
	DayView(ctx context.Context, req DayViewRequest) (*DayViewResponse, error)
}

type HabitUseCase interface {
	Day(ctx context.Context, req HabitDayRequest) (*HabitDayResponse, error)
	Toggle(ctx context.Context, date, habit string) (*HabitDayResponse, error)
	SetNumber(ctx context.Context, date, key string, value float64, now time.Time) (*HabitDayResponse, error)
	SetStudy(ctx context.Context, date, key string, value float64) (*HabitDayResponse, error)
	Summary(ctx context.Context, req HabitSummaryRequest) (*HabitSummaryResponse, error)
	Since(ctx context.Context, now time.Time) (*SinceResponse, error)
}
