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
)

type loggerService struct {
	dayLogs    repository.DayLogRepo
	activities repository.ActivityRepo
	cursor     repository.CursorRepo
	tx         repository.Transactor
	overnight  bool
	logger     *slog.Logger
	observer   UseCaseObserver
}

// NewLoggerService builds the session logger. Undo runs inside tx so its
// deletes and cursor restore commit together where the backend allows.
func NewLoggerService(repos repository.Repos, tx repository.Transactor, settings Settings, logger *slog.Logger, observers ...UseCaseObserver) LoggerService {
	return &loggerService{
		dayLogs:    repos.DayLogs,
		activities: repos.Activities,
		cursor:     repos.Cursor,
		tx:         tx,
		overnight:  settings.Overnight,
		logger:     loggerOrDiscard(logger),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *loggerService) LogSince(ctx context.Context, req app.LogRequest) (res *app.LogResult, err error) {
	startedAt := time.Now().UTC()
	now := app.ResolveNow(req.Now)
	activity := domain.NormalizeActivityName(req.Activity)
	fields := map[string]any{"activity": activity}
	defer func() {
		if res != nil {
			fields["status"] = string(res.Status)
			fields["segments"] = len(res.Segments)
		}
		observe(ctx, s.observer, "log-since", startedAt, fields, err)
	}()

	floor := s.floor(now)
	prev := s.resume(ctx, now, floor)

	start := prev
	if start.Before(floor) {
		start = floor
	}
	if start.After(now) {
		start = now
	}
	end := now
	// Compared in minutes: the Duration conversion overflows past ~1.5e8.
	if req.Minutes > 0 && req.Minutes < now.Sub(start).Minutes() {
		end = start.Add(time.Duration(req.Minutes * float64(time.Minute)))
	}

	res = &app.LogResult{Status: app.LogSkipped, Activity: activity, Start: start, End: end, PrevStop: prev}
	if activity == "" || !end.After(start) {
		return res, nil
	}

	segments, err := aggregate.SplitByLocalMidnight(start, end)
	if err != nil {
		return nil, fmt.Errorf("splitting session: %w", err)
	}

	written := make([]domain.Session, 0, len(segments))
	for i, seg := range segments {
		sess := domain.Session{Start: seg.Start, End: seg.End, Activity: activity}
		if _, err := s.dayLogs.Append(ctx, calendar.DateKey(seg.Start), sess); err != nil {
			return nil, s.partialWrite(ctx, prev, written, i, len(segments), err)
		}
		written = append(written, sess)
	}

	if _, err := s.activities.Add(ctx, activity); err != nil {
		s.logger.WarnContext(ctx, "registering activity name", "activity", activity, "error", err)
	}

	if err := s.cursor.SaveUndo(ctx, &domain.LoggedSegments{PrevStop: prev, Segments: written}); err != nil {
		return nil, &app.LogError{Code: app.LogErrStorage, Message: "saving undo record", Written: len(written), Err: err}
	}
	if err := s.cursor.SetLastStop(ctx, end); err != nil {
		return nil, &app.LogError{Code: app.LogErrStorage, Message: "advancing last stop", Written: len(written), Err: err}
	}

	res.Status = app.LogRecorded
	res.Segments = written
	return res, nil
}

// partialWrite keeps the segments that did land undoable and leaves the
// cursor where it was.
func (s *loggerService) partialWrite(ctx context.Context, prev time.Time, written []domain.Session, failed, total int, cause error) error {
	code := app.LogErrStorage
	if len(written) > 0 {
		code = app.LogErrPartialWrite
		if err := s.cursor.SaveUndo(ctx, &domain.LoggedSegments{PrevStop: prev, Segments: written}); err != nil {
			s.logger.ErrorContext(ctx, "saving undo record after partial write", "written", len(written), "error", err)
		}
	}
	s.logger.ErrorContext(ctx, "appending session segment", "segment", failed+1, "of", total, "error", cause)
	return &app.LogError{
		Code:    code,
		Message: fmt.Sprintf("appending segment %d of %d", failed+1, total),
		Written: len(written),
		Err:     cause,
	}
}

func (s *loggerService) Undo(ctx context.Context) (res *app.UndoResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		if res != nil {
			fields["status"] = string(res.Status)
			fields["removed"] = len(res.Removed)
		}
		observe(ctx, s.observer, "undo", startedAt, fields, err)
	}()

	last, err := s.cursor.LoadUndo(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "loading undo record", "error", err)
		return &app.UndoResult{Status: app.NothingToUndo}, nil
	}
	if last == nil || len(last.Segments) == 0 {
		return &app.UndoResult{Status: app.NothingToUndo}, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		for _, seg := range last.Segments {
			date := calendar.DateKey(seg.Start)
			if _, err := r.DayLogs.Delete(ctx, date, seg); err != nil {
				return fmt.Errorf("deleting %s segment on %s: %w", seg.Activity, date, err)
			}
		}
		if err := r.Cursor.SetLastStop(ctx, last.PrevStop); err != nil {
			return fmt.Errorf("restoring last stop: %w", err)
		}
		return r.Cursor.SaveUndo(ctx, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("undoing last log: %w", err)
	}

	return &app.UndoResult{Status: app.UndoApplied, Removed: last.Segments, RestoredStop: last.PrevStop}, nil
}

func (s *loggerService) Cursor(ctx context.Context, req app.CursorRequest) (res *app.CursorResponse, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "cursor", startedAt, nil, err) }()

	now := app.ResolveNow(req.Now)
	stop := s.resume(ctx, now, s.floor(now))
	elapsed := calendar.DiffMinutes(stop, now)
	if elapsed < 0 {
		elapsed = 0
	}
	return &app.CursorResponse{
		Now:           now,
		LastStop:      stop,
		ElapsedMin:    elapsed,
		UndoAvailable: s.UndoAvailable(ctx),
	}, nil
}

func (s *loggerService) UndoAvailable(ctx context.Context) bool {
	last, err := s.cursor.LoadUndo(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "loading undo record", "error", err)
		return false
	}
	return last != nil && len(last.Segments) > 0
}

// floor is the earliest instant a new session may start at.
func (s *loggerService) floor(now time.Time) time.Time {
	midnight := calendar.StartOfDay(now)
	if s.overnight {
		return calendar.StartOfDay(midnight.Add(-time.Hour))
	}
	return midnight
}

// resume picks the instant the next session starts from: the latest end in
// today's log when there is one, else the stored last stop, never earlier
// than floor.
func (s *loggerService) resume(ctx context.Context, now, floor time.Time) time.Time {
	today := calendar.DateKey(now)
	log, err := s.dayLogs.Get(ctx, today)
	if err != nil {
		s.logger.WarnContext(ctx, "reading day log", "date", today, "error", err)
	} else if latest, ok := latestEnd(log.Sessions); ok {
		if err := s.cursor.SetLastStop(ctx, latest); err != nil {
			s.logger.WarnContext(ctx, "persisting last stop", "error", err)
		}
		return latest
	}

	stop, err := s.cursor.LastStop(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "reading last stop", "error", err)
		return floor
	}
	if stop == nil || stop.Before(floor) {
		return floor
	}
	return *stop
}

func latestEnd(sessions []domain.Session) (time.Time, bool) {
	var latest time.Time
	for _, sess := range sessions {
		if sess.End.After(latest) {
			latest = sess.End
		}
	}
	return latest, !latest.IsZero()
}
