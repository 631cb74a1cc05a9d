package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/daybook/internal/db"
	"github.com/alexanderramin/daybook/internal/domain"
)

// SQLiteHabitRepo implements HabitRepo, storing each day's document as JSON.
type SQLiteHabitRepo struct {
	db db.DBTX
}

// NewSQLiteHabitRepo creates a new SQLiteHabitRepo.
func NewSQLiteHabitRepo(conn db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{db: conn}
}

func (r *SQLiteHabitRepo) Get(ctx context.Context, date string) (domain.HabitDay, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, doc FROM habit_days WHERE date = ?`, date)
	if err != nil {
		return domain.HabitDay{}, fmt.Errorf("loading habit day %s: %w", date, err)
	}
	defer rows.Close()

	docs, err := scanHabitDocs(rows)
	if err != nil {
		return domain.HabitDay{}, err
	}
	return docs[date], nil
}

func (r *SQLiteHabitRepo) Set(ctx context.Context, date string, day domain.HabitDay) error {
	if err := checkDate(date); err != nil {
		return err
	}
	doc, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("encoding habit day: %w", err)
	}

	query := `INSERT INTO habit_days (date, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, date, string(doc), nowUTC()); err != nil {
		return fmt.Errorf("upserting habit day: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetRange(ctx context.Context, start, end string) (map[string]domain.HabitDay, error) {
	if start > end {
		return map[string]domain.HabitDay{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, doc FROM habit_days WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing habit days: %w", err)
	}
	defer rows.Close()
	return scanHabitDocs(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanHabitDocs(rows rowScanner) (map[string]domain.HabitDay, error) {
	out := make(map[string]domain.HabitDay)
	for rows.Next() {
		var date, doc string
		if err := rows.Scan(&date, &doc); err != nil {
			return nil, fmt.Errorf("scanning habit row: %w", err)
		}
		if day, ok := decodeHabit(date, []byte(doc)); ok {
			out[date] = day
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habit rows: %w", err)
	}
	return out, nil
}
