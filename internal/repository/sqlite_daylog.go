package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/db"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/google/uuid"
)

// SQLiteDayLogRepo implements DayLogRepo with one row per session.
type SQLiteDayLogRepo struct {
	db db.DBTX
}

// NewSQLiteDayLogRepo creates a new SQLiteDayLogRepo.
func NewSQLiteDayLogRepo(conn db.DBTX) *SQLiteDayLogRepo {
	return &SQLiteDayLogRepo{db: conn}
}

func (r *SQLiteDayLogRepo) Get(ctx context.Context, date string) (domain.DayLog, error) {
	query := `SELECT date, start_at, end_at, activity FROM day_sessions
		WHERE date = ? ORDER BY start_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("listing sessions for %s: %w", date, err)
	}
	defer rows.Close()

	byDate, err := r.scanSessions(rows)
	if err != nil {
		return domain.DayLog{}, err
	}
	return domain.DayLog{Date: date, Sessions: nonNil(byDate[date])}, nil
}

func (r *SQLiteDayLogRepo) Append(ctx context.Context, date string, s domain.Session) (domain.DayLog, error) {
	if err := checkDate(date); err != nil {
		return domain.DayLog{}, err
	}
	if err := checkSession(s); err != nil {
		return domain.DayLog{}, err
	}

	query := `INSERT INTO day_sessions (id, date, start_at, end_at, activity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		date,
		formatInstant(s.Start),
		formatInstant(s.End),
		s.Activity,
		nowUTC(),
	)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("inserting session: %w", err)
	}
	return r.Get(ctx, date)
}

func (r *SQLiteDayLogRepo) Delete(ctx context.Context, date string, s domain.Session) (domain.DayLog, error) {
	if err := checkDate(date); err != nil {
		return domain.DayLog{}, err
	}

	query := `DELETE FROM day_sessions
		WHERE date = ? AND start_at = ? AND end_at = ? AND activity = ?`
	_, err := r.db.ExecContext(ctx, query, date, formatInstant(s.Start), formatInstant(s.End), s.Activity)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("deleting session: %w", err)
	}
	return r.Get(ctx, date)
}

func (r *SQLiteDayLogRepo) GetRange(ctx context.Context, start, end string) ([]domain.DayLog, error) {
	dates := calendar.DatesInRange(start, end)
	if len(dates) == 0 {
		return []domain.DayLog{}, nil
	}

	query := `SELECT date, start_at, end_at, activity FROM day_sessions
		WHERE date >= ? AND date <= ? ORDER BY date, start_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing sessions in range: %w", err)
	}
	defer rows.Close()

	byDate, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}

	logs := make([]domain.DayLog, 0, len(dates))
	for _, d := range dates {
		logs = append(logs, domain.DayLog{Date: d, Sessions: nonNil(byDate[d])})
	}
	return logs, nil
}

// scanSessions groups rows by date. Rows with unreadable instants are skipped.
func (r *SQLiteDayLogRepo) scanSessions(rows *sql.Rows) (map[string][]domain.Session, error) {
	out := make(map[string][]domain.Session)
	for rows.Next() {
		var date, startStr, endStr, activity string
		if err := rows.Scan(&date, &startStr, &endStr, &activity); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		start, err1 := parseInstant(startStr)
		end, err2 := parseInstant(endStr)
		if err1 != nil || err2 != nil {
			slog.Debug("skipping session with bad instant", "date", date, "start", startStr, "end", endStr)
			continue
		}
		out[date] = append(out[date], domain.Session{Start: start, End: end, Activity: activity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return out, nil
}

func nonNil(sessions []domain.Session) []domain.Session {
	if sessions == nil {
		return []domain.Session{}
	}
	return sessions
}
