package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/daybook/internal/repository"
	"github.com/alexanderramin/daybook/internal/testutil"
	"github.com/alexanderramin/daybook/internal/vacation"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *sql.DB
	repos    repository.Repos
	tx       repository.Transactor
	calendar *vacation.Calendar
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	tx := repository.NewSQLiteTransactor(testutil.NewTestUoW(database))
	return fixture{
		db:       database,
		repos:    repos,
		tx:       tx,
		calendar: vacation.New(repository.TxVacations(repos.Vacations, tx), nil),
	}
}

func (f fixture) setVacation(t *testing.T, days ...string) {
	t.Helper()
	f.calendar.Load(context.Background())
	_, err := f.calendar.Replace(context.Background(), days)
	require.NoError(t, err)
}

func ptr(t time.Time) *time.Time { return &t }

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.events) == 0 {
		return UseCaseEvent{}
	}
	return o.events[len(o.events)-1]
}
