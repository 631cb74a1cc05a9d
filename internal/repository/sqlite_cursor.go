package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/daybook/internal/db"
	"github.com/alexanderramin/daybook/internal/domain"
)

const (
	stateLastStop = "last_stop"
	stateUndo     = "undo"
)

// SQLiteCursorRepo implements CursorRepo on the app_state table.
type SQLiteCursorRepo struct {
	db db.DBTX
}

// NewSQLiteCursorRepo creates a new SQLiteCursorRepo.
func NewSQLiteCursorRepo(conn db.DBTX) *SQLiteCursorRepo {
	return &SQLiteCursorRepo{db: conn}
}

func (r *SQLiteCursorRepo) LastStop(ctx context.Context) (*time.Time, error) {
	raw, err := r.get(ctx, stateLastStop)
	if err != nil {
		return nil, err
	}
	return parseStoredStop(raw), nil
}

func (r *SQLiteCursorRepo) SetLastStop(ctx context.Context, t time.Time) error {
	return r.put(ctx, stateLastStop, formatInstant(t))
}

func (r *SQLiteCursorRepo) LoadUndo(ctx context.Context) (*domain.LoggedSegments, error) {
	raw, err := r.get(ctx, stateUndo)
	if err != nil {
		return nil, err
	}
	return decodeUndo([]byte(raw)), nil
}

func (r *SQLiteCursorRepo) SaveUndo(ctx context.Context, u *domain.LoggedSegments) error {
	if u == nil {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, stateUndo); err != nil {
			return fmt.Errorf("clearing undo record: %w", err)
		}
		return nil
	}
	doc, err := encodeUndo(u)
	if err != nil {
		return fmt.Errorf("encoding undo record: %w", err)
	}
	return r.put(ctx, stateUndo, string(doc))
}

func (r *SQLiteCursorRepo) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteCursorRepo) put(ctx context.Context, key, value string) error {
	query := `INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, nowUTC()); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
