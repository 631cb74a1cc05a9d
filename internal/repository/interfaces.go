package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
)

var (
	// ErrInvalidDate is returned by writes whose date key is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date key")
	// ErrInvalidSession is returned when a session does not end after it starts.
	ErrInvalidSession = errors.New("session must end after it starts")
)

// DayLogRepo stores the session list of each local calendar date.
type DayLogRepo interface {
	Get(ctx context.Context, date string) (domain.DayLog, error)
	Append(ctx context.Context, date string, s domain.Session) (domain.DayLog, error)
	// Delete removes every session equal to s on start, end and activity.
	Delete(ctx context.Context, date string, s domain.Session) (domain.DayLog, error)
	// GetRange returns one DayLog per date in [start, end], empty where
	// nothing was logged.
	GetRange(ctx context.Context, start, end string) ([]domain.DayLog, error)
}

// HabitRepo stores one habit document per date.
type HabitRepo interface {
	Get(ctx context.Context, date string) (domain.HabitDay, error)
	Set(ctx context.Context, date string, day domain.HabitDay) error
	// GetRange returns only the dates that have a document.
	GetRange(ctx context.Context, start, end string) (map[string]domain.HabitDay, error)
}

// ActivityRepo is the registry of known activity names.
type ActivityRepo interface {
	List(ctx context.Context) ([]string, error)
	// Add is idempotent and returns the updated, naturally ordered list.
	Add(ctx context.Context, name string) ([]string, error)
}

// VacationRepo persists the vacation date list.
type VacationRepo interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, days []string) error
}

// CursorRepo holds the logger's last stop instant and its undo record.
type CursorRepo interface {
	LastStop(ctx context.Context) (*time.Time, error)
	SetLastStop(ctx context.Context, t time.Time) error
	LoadUndo(ctx context.Context) (*domain.LoggedSegments, error)
	// SaveUndo replaces the undo record; nil clears it.
	SaveUndo(ctx context.Context, u *domain.LoggedSegments) error
}

// Repos bundles one backend's repositories.
type Repos struct {
	DayLogs    DayLogRepo
	Habits     HabitRepo
	Activities ActivityRepo
	Vacations  VacationRepo
	Cursor     CursorRepo
}

// Transactor runs fn against repositories that commit or roll back together
// where the backend supports it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// TxVacations returns a VacationRepo whose Save replaces the whole list
// inside one transaction of tx. Load reads through base.
func TxVacations(base VacationRepo, tx Transactor) VacationRepo {
	return txVacationRepo{VacationRepo: base, tx: tx}
}

type txVacationRepo struct {
	VacationRepo
	tx Transactor
}

func (r txVacationRepo) Save(ctx context.Context, days []string) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, repos Repos) error {
		return repos.Vacations.Save(ctx, days)
	})
}
