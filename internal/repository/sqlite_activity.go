package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/db"
)

// SQLiteActivityRepo implements ActivityRepo.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

func (r *SQLiteActivityRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM activity_names`)
	if err != nil {
		return nil, fmt.Errorf("listing activity names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning activity name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity names: %w", err)
	}
	return sortNames(names), nil
}

func (r *SQLiteActivityRepo) Add(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO activity_names (name, created_at) VALUES (?, ?)`, name, nowUTC())
		if err != nil {
			return nil, fmt.Errorf("inserting activity name: %w", err)
		}
	}
	return r.List(ctx)
}
