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

type activityService struct {
	dayLogs    repository.DayLogRepo
	activities repository.ActivityRepo
	vacation   *vacation.Calendar
	settings   Settings
	logger     *slog.Logger
	observer   UseCaseObserver
}

func NewActivityService(repos repository.Repos, vacations *vacation.Calendar, settings Settings, logger *slog.Logger, observers ...UseCaseObserver) ActivityService {
	return &activityService{
		dayLogs:    repos.DayLogs,
		activities: repos.Activities,
		vacation:   vacations,
		settings:   settings.withDefaults(),
		logger:     loggerOrDiscard(logger),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *activityService) Today(ctx context.Context, req app.TodayRequest) (res *app.TodayResponse, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "today", startedAt, nil, err) }()

	now := app.ResolveNow(req.Now)
	today := calendar.DateKey(now)
	sessions := s.daySessions(ctx, today)

	return &app.TodayResponse{
		Date:      today,
		Sessions:  aggregate.SortSessions(sessions),
		Breakdown: aggregate.Breakdown(sessions, calendar.MinutesSinceMidnight(now)),
	}, nil
}

func (s *activityService) Usual(ctx context.Context, req app.UsualRequest) (res *app.UsualResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"start_date": s.settings.StartDate}
	defer func() {
		if res != nil {
			fields["days"] = res.Summary.DayCount
		}
		observe(ctx, s.observer, "usual", startedAt, fields, err)
	}()

	now := app.ResolveNow(req.Now)
	today := calendar.DateKey(now)
	todayBreakdown := aggregate.Breakdown(s.daySessions(ctx, today), calendar.MinutesSinceMidnight(now))

	history := s.rangeLogs(ctx, s.settings.StartDate, today)

	return &app.UsualResponse{
		Date:      today,
		StartDate: s.settings.StartDate,
		Today:     todayBreakdown,
		Summary:   aggregate.Historical(history, todayBreakdown),
	}, nil
}

func (s *activityService) Trends(ctx context.Context, req app.TrendRequest) (res *app.TrendResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"scope": string(req.Scope), "window": req.Window, "top_n": req.TopN}
	defer func() { observe(ctx, s.observer, "trends", startedAt, fields, err) }()

	scope := req.Scope
	if scope == "" {
		scope = domain.ScopeAll
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.settings.TopN
	}
	now := app.ResolveNow(req.Now)
	logs := s.rangeLogs(ctx, s.settings.StartDate, calendar.DateKey(now))

	return &app.TrendResponse{
		Scope:  scope,
		Window: req.Window,
		TopN:   topN,
		Result: aggregate.Trends(logs, now, aggregate.TrendOptions{Scope: scope, Window: req.Window, TopN: topN}),
	}, nil
}

func (s *activityService) DayView(ctx context.Context, req app.DayViewRequest) (res *app.DayViewResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": req.Date, "merge": req.Merge, "gaps": req.ShowGaps}
	defer func() { observe(ctx, s.observer, "day-view", startedAt, fields, err) }()

	date := req.Date
	if date == "" {
		date = calendar.DateKey(app.ResolveNow(req.Now))
	}
	if !calendar.ValidDateKey(date) {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidDate, date)
	}
	sessions := s.daySessions(ctx, date)

	return &app.DayViewResponse{
		Date: date,
		Items: aggregate.BuildDayView(sessions, aggregate.DayViewOptions{
			Merge:    req.Merge,
			ShowGaps: req.ShowGaps,
			Activity: req.Activity,
		}),
		Activities: aggregate.ActivitiesIn(sessions),
		TotalMin:   aggregate.TotalMinutes(sessions),
	}, nil
}

func (s *activityService) Names(ctx context.Context) []string {
	names, err := s.activities.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "listing activity names", "error", err)
		return []string{}
	}
	return names
}

func (s *activityService) AddName(ctx context.Context, name string) (names []string, err error) {
	startedAt := time.Now().UTC()
	clean := domain.NormalizeActivityName(name)
	fields := map[string]any{"activity": clean}
	defer func() { observe(ctx, s.observer, "add-activity", startedAt, fields, err) }()

	if clean == "" {
		return s.Names(ctx), nil
	}
	names, err = s.activities.Add(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("adding activity %q: %w", clean, err)
	}
	return names, nil
}

func (s *activityService) daySessions(ctx context.Context, date string) []domain.Session {
	log, err := s.dayLogs.Get(ctx, date)
	if err != nil {
		s.logger.WarnContext(ctx, "reading day log", "date", date, "error", err)
		return []domain.Session{}
	}
	return log.Sessions
}

// rangeLogs reads [start, end] and drops vacation days.
func (s *activityService) rangeLogs(ctx context.Context, start, end string) []domain.DayLog {
	logs, err := s.dayLogs.GetRange(ctx, start, end)
	if err != nil {
		s.logger.WarnContext(ctx, "reading day log range", "start", start, "end", end, "error", err)
		return nil
	}
	s.vacation.Load(ctx)
	return s.vacation.FilterLogs(logs)
}
