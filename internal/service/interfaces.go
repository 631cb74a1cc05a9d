package service

import (
	"context"
	"time"

	"github.com/alexanderramin/daybook/internal/aggregate"
	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/importer"
)

type LoggerService interface {
	LogSince(ctx context.Context, req app.LogRequest) (*app.LogResult, error)
	Undo(ctx context.Context) (*app.UndoResult, error)
	Cursor(ctx context.Context, req app.CursorRequest) (*app.CursorResponse, error)
	UndoAvailable(ctx context.Context) bool
}

type ActivityService interface {
	Today(ctx context.Context, req app.TodayRequest) (*app.TodayResponse, error)
	Usual(ctx context.Context, req app.UsualRequest) (*app.UsualResponse, error)
	Trends(ctx context.Context, req app.TrendRequest) (*app.TrendResponse, error)
	DayView(ctx context.Context, req app.DayViewRequest) (*app.DayViewResponse, error)
	Names(ctx context.Context) []string
	AddName(ctx context.Context, name string) ([]string, error)
}

type HabitService interface {
	Day(ctx context.Context, req app.HabitDayRequest) (*app.HabitDayResponse, error)
	Toggle(ctx context.Context, date, habit string) (*app.HabitDayResponse, error)
	SetNumber(ctx context.Context, date, key string, value float64, now time.Time) (*app.HabitDayResponse, error)
	SetStudy(ctx context.Context, date, key string, value float64) (*app.HabitDayResponse, error)
	Streaks(ctx context.Context, now time.Time) map[string]int
	Summary(ctx context.Context, req app.HabitSummaryRequest) (*app.HabitSummaryResponse, error)
	Since(ctx context.Context, now time.Time) (*app.SinceResponse, error)
}

type ImportService interface {
	ImportBackup(ctx context.Context, path string, req app.ImportRequest) (*app.ImportResult, error)
	ImportBackupData(ctx context.Context, backup *importer.Backup, req app.ImportRequest) (*app.ImportResult, error)
}

// Settings carries the configured values the services read.
type Settings struct {
	// StartDate is the first tracked date; history reads begin here.
	StartDate string
	Habits    []string
	// WasteLimit is the daily wasted-minutes allowance.
	WasteLimit float64
	TopN       int
	TrendDays  int
	// Overnight lets a log reach back to the previous midnight.
	Overnight bool
}

// DefaultStartDate is the tracking start date used when none is configured.
const DefaultStartDate = "2026-02-16"

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		StartDate:  DefaultStartDate,
		Habits:     append([]string(nil), domain.DefaultHabits...),
		WasteLimit: domain.WasteLimitMinutes,
		TopN:       aggregate.DefaultTopN,
		TrendDays:  30,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if !calendar.ValidDateKey(s.StartDate) {
		s.StartDate = d.StartDate
	}
	if len(s.Habits) == 0 {
		s.Habits = d.Habits
	}
	if s.WasteLimit <= 0 {
		s.WasteLimit = d.WasteLimit
	}
	if s.TopN <= 0 {
		s.TopN = d.TopN
	}
	return s
}
