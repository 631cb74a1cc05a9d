package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/daybook/internal/db"
)

// SQLiteVacationRepo implements VacationRepo.
type SQLiteVacationRepo struct {
	db db.DBTX
}

// NewSQLiteVacationRepo creates a new SQLiteVacationRepo.
func NewSQLiteVacationRepo(conn db.DBTX) *SQLiteVacationRepo {
	return &SQLiteVacationRepo{db: conn}
}

func (r *SQLiteVacationRepo) Load(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM vacation_days ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing vacation days: %w", err)
	}
	defer rows.Close()

	days := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning vacation day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vacation days: %w", err)
	}
	return days, nil
}

// Save replaces the stored list. Callers wanting the replace to be atomic
// run it through a Transactor.
func (r *SQLiteVacationRepo) Save(ctx context.Context, days []string) error {
	for _, d := range days {
		if err := checkDate(d); err != nil {
			return err
		}
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vacation_days`); err != nil {
		return fmt.Errorf("clearing vacation days: %w", err)
	}
	for _, d := range days {
		if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO vacation_days (date) VALUES (?)`, d); err != nil {
			return fmt.Errorf("inserting vacation day: %w", err)
		}
	}
	return nil
}
