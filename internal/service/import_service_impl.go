package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/importer"
	"github.com/alexanderramin/daybook/internal/repository"
)

type importService struct {
	tx         repository.Transactor
	wasteLimit float64
	logger     *slog.Logger
	observer   UseCaseObserver
}

// NewImportService builds the backup importer. Every write of one import
// runs inside a single tx.
func NewImportService(tx repository.Transactor, settings Settings, logger *slog.Logger, observers ...UseCaseObserver) ImportService {
	return &importService{
		tx:         tx,
		wasteLimit: settings.withDefaults().WasteLimit,
		logger:     loggerOrDiscard(logger),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportBackup(ctx context.Context, path string, req app.ImportRequest) (*app.ImportResult, error) {
	backup, err := importer.LoadBackup(path)
	if err != nil {
		return nil, fmt.Errorf("loading backup file: %w", err)
	}
	return s.ImportBackupData(ctx, backup, req)
}

func (s *importService) ImportBackupData(ctx context.Context, backup *importer.Backup, req app.ImportRequest) (res *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"dry_run": req.DryRun, "overwrite": req.Overwrite}
	defer func() {
		if res != nil {
			fields["sessions"] = res.Sessions
			fields["habit_days"] = res.HabitDays
		}
		observe(ctx, s.observer, "import-backup", startedAt, fields, err)
	}()

	if errs := importer.ValidateBackup(backup); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	im, err := importer.Convert(backup)
	if err != nil {
		return nil, fmt.Errorf("converting backup: %w", err)
	}
	for _, key := range backup.Ignored {
		s.logger.InfoContext(ctx, "skipping unknown backup key", "key", key)
	}

	res = &app.ImportResult{Ignored: backup.Ignored, DryRun: req.DryRun}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := s.importDayLogs(ctx, r, im, req, res); err != nil {
			return err
		}
		if err := s.importHabits(ctx, r, im, req, res); err != nil {
			return err
		}
		for _, name := range im.ActivityNames {
			if !req.DryRun {
				if _, err := r.Activities.Add(ctx, name); err != nil {
					return fmt.Errorf("registering activity %q: %w", name, err)
				}
			}
			res.Activities++
		}
		return s.importLastStop(ctx, r, im, req, res)
	})
	if err != nil {
		return nil, fmt.Errorf("importing backup: %w", err)
	}
	return res, nil
}

// importDayLogs appends every session not already stored on its date, so
// importing the same backup twice writes nothing the second time.
func (s *importService) importDayLogs(ctx context.Context, r repository.Repos, im *importer.Import, req app.ImportRequest, res *app.ImportResult) error {
	for _, log := range im.DayLogs {
		existing, err := r.DayLogs.Get(ctx, log.Date)
		if err != nil {
			return fmt.Errorf("reading day log %s: %w", log.Date, err)
		}
		added := 0
		for _, sess := range log.Sessions {
			if hasSession(existing.Sessions, sess) {
				res.SkippedSessions++
				continue
			}
			if !req.DryRun {
				if _, err := r.DayLogs.Append(ctx, log.Date, sess); err != nil {
					return fmt.Errorf("appending %s session on %s: %w", sess.Activity, log.Date, err)
				}
			}
			existing.Sessions = append(existing.Sessions, sess)
			added++
		}
		if added > 0 {
			res.Days++
			res.Sessions += added
		}
	}
	return nil
}

func (s *importService) importHabits(ctx context.Context, r repository.Repos, im *importer.Import, req app.ImportRequest, res *app.ImportResult) error {
	for _, date := range im.HabitDates {
		if !req.Overwrite {
			existing, err := r.Habits.Get(ctx, date)
			if err != nil {
				return fmt.Errorf("reading habits for %s: %w", date, err)
			}
			if !existing.IsEmpty() {
				res.SkippedHabitDays++
				continue
			}
		}
		day := im.Habits[date]
		if day.WastedMin != nil {
			day = day.WithWasteLimit(s.wasteLimit)
		}
		if !req.DryRun {
			if err := r.Habits.Set(ctx, date, day); err != nil {
				return fmt.Errorf("saving habits for %s: %w", date, err)
			}
		}
		res.HabitDays++
	}
	return nil
}

// importLastStop only ever moves the cursor forward.
func (s *importService) importLastStop(ctx context.Context, r repository.Repos, im *importer.Import, req app.ImportRequest, res *app.ImportResult) error {
	if im.LastStop == nil {
		return nil
	}
	current, err := r.Cursor.LastStop(ctx)
	if err != nil {
		return fmt.Errorf("reading last stop: %w", err)
	}
	if current != nil && !im.LastStop.After(*current) {
		return nil
	}
	if !req.DryRun {
		if err := r.Cursor.SetLastStop(ctx, *im.LastStop); err != nil {
			return fmt.Errorf("setting last stop: %w", err)
		}
	}
	res.LastStop = im.LastStop
	return nil
}

func hasSession(sessions []domain.Session, s domain.Session) bool {
	for _, existing := range sessions {
		if existing.Matches(s) {
			return true
		}
	}
	return false
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("backup validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
