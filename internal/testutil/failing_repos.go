package testutil

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
)

// ErrInjected is the default error returned by the failing fakes.
var ErrInjected = errors.New("injected failure")

type dayLogStore interface {
	Get(ctx context.Context, date string) (domain.DayLog, error)
	Append(ctx context.Context, date string, s domain.Session) (domain.DayLog, error)
	Delete(ctx context.Context, date string, s domain.Session) (domain.DayLog, error)
	GetRange(ctx context.Context, start, end string) ([]domain.DayLog, error)
}

// FailOnNthAppend wraps a day log store and fails the Nth Append (counted
// from 1). Setting FailReads makes every read fail too.
type FailOnNthAppend struct {
	Inner     dayLogStore
	FailOn    int32
	FailReads bool
	Err       error

	appends atomic.Int32
}

// Appends reports how many Append calls were made, including the failed one.
func (f *FailOnNthAppend) Appends() int {
	return int(f.appends.Load())
}

func (f *FailOnNthAppend) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

func (f *FailOnNthAppend) Get(ctx context.Context, date string) (domain.DayLog, error) {
	if f.FailReads {
		return domain.DayLog{}, f.err()
	}
	return f.Inner.Get(ctx, date)
}

func (f *FailOnNthAppend) Append(ctx context.Context, date string, s domain.Session) (domain.DayLog, error) {
	if n := f.appends.Add(1); n == f.FailOn {
		return domain.DayLog{}, f.err()
	}
	return f.Inner.Append(ctx, date, s)
}

func (f *FailOnNthAppend) Delete(ctx context.Context, date string, s domain.Session) (domain.DayLog, error) {
	return f.Inner.Delete(ctx, date, s)
}

func (f *FailOnNthAppend) GetRange(ctx context.Context, start, end string) ([]domain.DayLog, error) {
	if f.FailReads {
		return nil, f.err()
	}
	return f.Inner.GetRange(ctx, start, end)
}

// FailingHabits fails every call.
type FailingHabits struct{ Err error }

func (f FailingHabits) Get(context.Context, string) (domain.HabitDay, error) {
	return domain.HabitDay{}, f.Err
}

func (f FailingHabits) Set(context.Context, string, domain.HabitDay) error { return f.Err }

func (f FailingHabits) GetRange(context.Context, string, string) (map[string]domain.HabitDay, error) {
	return nil, f.Err
}

// FailingActivities fails every call.
type FailingActivities struct{ Err error }

func (f FailingActivities) List(context.Context) ([]string, error) { return nil, f.Err }

func (f FailingActivities) Add(context.Context, string) ([]string, error) { return nil, f.Err }

// FailingCursor fails every call.
type FailingCursor struct{ Err error }

func (f FailingCursor) LastStop(context.Context) (*time.Time, error) { return nil, f.Err }

func (f FailingCursor) SetLastStop(context.Context, time.Time) error { return f.Err }

func (f FailingCursor) LoadUndo(context.Context) (*domain.LoggedSegments, error) {
	return nil, f.Err
}

func (f FailingCursor) SaveUndo(context.Context, *domain.LoggedSegments) error { return f.Err }
