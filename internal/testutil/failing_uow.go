package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/daybook/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose transactions fail the Nth
// ExecContext call (counted from 1 across the whole UoW). Reads pass
// through uncounted. Use it to check that a multi-write operation rolls
// back everything it wrote before the failure.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

// Execs reports how many writes were attempted, including the failed one.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.execs.Load())
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if fnErr := fn(ctx, &failOnNthExec{DBTX: tx, uow: u}); fnErr != nil {
		return errors.Join(fnErr, ignoreDone(tx.Rollback()))
	}
	return tx.Commit()
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

type failOnNthExec struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if n := f.uow.execs.Add(1); n == f.uow.FailOn {
		if f.uow.Err != nil {
			return nil, f.uow.Err
		}
		return nil, ErrInjected
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
