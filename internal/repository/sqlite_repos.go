package repository

import (
	"context"

	"github.com/alexanderramin/daybook/internal/db"
)

// NewSQLiteRepos builds every SQLite repository on conn, which may be a
// *sql.DB or a transaction.
func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		DayLogs:    NewSQLiteDayLogRepo(conn),
		Habits:     NewSQLiteHabitRepo(conn),
		Activities: NewSQLiteActivityRepo(conn),
		Vacations:  NewSQLiteVacationRepo(conn),
		Cursor:     NewSQLiteCursorRepo(conn),
	}
}

// SQLiteTransactor hands tx-scoped repositories to each callback.
type SQLiteTransactor struct {
	uow db.UnitOfWork
}

// NewSQLiteTransactor creates a Transactor backed by uow.
func NewSQLiteTransactor(uow db.UnitOfWork) *SQLiteTransactor {
	return &SQLiteTransactor{uow: uow}
}

func (t *SQLiteTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return t.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteRepos(tx))
	})
}
