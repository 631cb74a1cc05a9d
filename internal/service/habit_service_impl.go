package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/daybook/internal/aggregate"
	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/repository"
	"github.com/alexanderramin/daybook/internal/vacation"
)

type habitService struct {
	habits   repository.HabitRepo
	vacation *vacation.Calendar
	settings Settings
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewHabitService(habits repository.HabitRepo, vacations *vacation.Calendar, settings Settings, logger *slog.Logger, observers ...UseCaseObserver) HabitService {
	return &habitService{
		habits:   habits,
		vacation: vacations,
		settings: settings.withDefaults(),
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *habitService) Day(ctx context.Context, req app.HabitDayRequest) (res *app.HabitDayResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": req.Date}
	defer func() { observe(ctx, s.observer, "habit-day", startedAt, fields, err) }()

	now := app.ResolveNow(req.Now)
	date := req.Date
	if date == "" {
		date = calendar.DateKey(now)
	}
	if !calendar.ValidDateKey(date) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidDate, date)
	}
	return s.respond(ctx, date, s.read(ctx, date)), nil
}

func (s *habitService) Toggle(ctx context.Context, date, habit string) (res *app.HabitDayResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date, "habit": habit}
	defer func() { observe(ctx, s.observer, "habit-toggle", startedAt, fields, err) }()

	if habit == "" {
		return nil, fmt.Errorf("%w: empty habit name", domain.ErrUnknownField)
	}
	return s.update(ctx, date, func(d domain.HabitDay) (domain.HabitDay, error) {
		return d.Toggled(habit), nil
	})
}

func (s *habitService) SetNumber(ctx context.Context, date, key string, value float64, now time.Time) (res *app.HabitDayResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date, "key": key, "value": value}
	defer func() { observe(ctx, s.observer, "habit-set", startedAt, fields, err) }()

	return s.update(ctx, date, func(d domain.HabitDay) (domain.HabitDay, error) {
		return d.WithNumber(key, value, now)
	})
}

func (s *habitService) SetStudy(ctx context.Context, date, key string, value float64) (res *app.HabitDayResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date, "key": key, "value": value}
	defer func() { observe(ctx, s.observer, "habit-study", startedAt, fields, err) }()

	if key == "" {
		return nil, fmt.Errorf("%w: empty study key", domain.ErrUnknownField)
	}
	return s.update(ctx, date, func(d domain.HabitDay) (domain.HabitDay, error) {
		return d.WithStudy(key, value), nil
	})
}

func (s *habitService) Streaks(ctx context.Context, now time.Time) map[string]int {
	today := calendar.DateKey(now)
	history := s.history(ctx, calendar.AddDays(today, -aggregate.MaxStreakDays), today)
	s.vacation.Load(ctx)
	return aggregate.Streaks(s.settings.Habits, history, today, s.vacation)
}

func (s *habitService) Summary(ctx context.Context, req app.HabitSummaryRequest) (res *app.HabitSummaryResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"start": req.Start}
	defer func() {
		if res != nil {
			fields["days_observed"] = res.Aggregate.DaysObserved
		}
		observe(ctx, s.observer, "habit-summary", startedAt, fields, err)
	}()

	start := req.Start
	if start == "" {
		start = s.settings.StartDate
	}
	if !calendar.ValidDateKey(start) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidDate, start)
	}
	today := calendar.DateKey(app.ResolveNow(req.Now))

	history := s.history(ctx, start, today)
	s.vacation.Load(ctx)
	kept := s.vacation.FilterHabits(history)

	agg := aggregate.SummarizeHabits(kept, start, today, s.vacation)
	return &app.HabitSummaryResponse{
		Start:        start,
		End:          today,
		Aggregate:    agg,
		Weights:      aggregate.WeightSeries(kept, start, today),
		WeightChange: aggregate.WeightChange(agg),
	}, nil
}

func (s *habitService) Since(ctx context.Context, now time.Time) (res *app.SinceResponse, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "habit-since", startedAt, nil, err) }()

	day := s.read(ctx, calendar.DateKey(now))
	res = &app.SinceResponse{Now: now, ByCounter: make(map[string]*int, len(domain.CounterKeys))}

	var latest *time.Time
	for _, key := range domain.CounterKeys {
		ts, ok := day.LastEvent[key]
		if !ok {
			res.ByCounter[key] = nil
			continue
		}
		res.ByCounter[key] = calendar.MinutesSince(&ts, now)
		if latest == nil || ts.After(*latest) {
			latest = &ts
		}
	}
	res.Any = calendar.MinutesSince(latest, now)
	return res, nil
}

// update applies fn to the stored document for date and saves the result
// with its waste delta rederived.
func (s *habitService) update(ctx context.Context, date string, fn func(domain.HabitDay) (domain.HabitDay, error)) (*app.HabitDayResponse, error) {
	if !calendar.ValidDateKey(date) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidDate, date)
	}
	current, err := s.habits.Get(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("reading habits for %s: %w", date, err)
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	next = next.WithWasteLimit(s.settings.WasteLimit)
	if err := s.habits.Set(ctx, date, next); err != nil {
		return nil, fmt.Errorf("saving habits for %s: %w", date, err)
	}
	return s.respond(ctx, date, next), nil
}

func (s *habitService) respond(ctx context.Context, date string, day domain.HabitDay) *app.HabitDayResponse {
	history := s.history(ctx, calendar.AddDays(date, -aggregate.MaxStreakDays), date)
	history[date] = day
	s.vacation.Load(ctx)
	return &app.HabitDayResponse{
		Date:     date,
		Day:      day,
		Habits:   append([]string(nil), s.settings.Habits...),
		Streaks:  aggregate.Streaks(s.settings.Habits, history, date, s.vacation),
		Vacation: s.vacation.IsVacation(date),
	}
}

func (s *habitService) read(ctx context.Context, date string) domain.HabitDay {
	day, err := s.habits.Get(ctx, date)
	if err != nil {
		s.logger.WarnContext(ctx, "reading habits", "date", date, "error", err)
		return domain.HabitDay{}
	}
	return day
}

func (s *habitService) history(ctx context.Context, start, end string) map[string]domain.HabitDay {
	history, err := s.habits.GetRange(ctx, start, end)
	if err != nil || history == nil {
		if err != nil {
			s.logger.WarnContext(ctx, "reading habit history", "start", start, "end", end, "error", err)
		}
		return map[string]domain.HabitDay{}
	}
	return history
}
