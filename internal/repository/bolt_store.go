package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// ErrStoreLocked means another daybook process holds the database file.
var ErrStoreLocked = errors.New("database is locked by another daybook process")

var (
	bucketDayLogs    = []byte("day_logs")
	bucketHabits     = []byte("habits")
	bucketActivities = []byte("activities")
	bucketVacation   = []byte("vacation")
	bucketState      = []byte("state")
)

// BoltStore keeps every repository in a single bbolt file, one bucket per
// kind, with JSON documents keyed by date.
type BoltStore struct {
	conn *bolt.DB
}

// OpenBoltStore opens or creates the store at path and ensures its buckets.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	conn, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrStoreLocked
		}
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}

	err = conn.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketDayLogs, bucketHabits, bucketActivities, bucketVacation, bucketState} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &BoltStore{conn: conn}, nil
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	return s.conn.Close()
}

// Repos returns repositories that each run in their own transaction.
func (s *BoltStore) Repos() Repos {
	return newBoltRepos(boltDB{s.conn})
}

// WithinTx runs fn in one read-write transaction.
func (s *BoltStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return s.conn.Update(func(tx *bolt.Tx) error {
		return fn(ctx, newBoltRepos(boltTx{tx}))
	})
}

type boltRunner interface {
	view(fn func(*bolt.Tx) error) error
	update(fn func(*bolt.Tx) error) error
}

type boltDB struct{ conn *bolt.DB }

func (b boltDB) view(fn func(*bolt.Tx) error) error   { return b.conn.View(fn) }
func (b boltDB) update(fn func(*bolt.Tx) error) error { return b.conn.Update(fn) }

type boltTx struct{ tx *bolt.Tx }

func (b boltTx) view(fn func(*bolt.Tx) error) error   { return fn(b.tx) }
func (b boltTx) update(fn func(*bolt.Tx) error) error { return fn(b.tx) }

func newBoltRepos(run boltRunner) Repos {
	return Repos{
		DayLogs:    boltDayLogRepo{run},
		Habits:     boltHabitRepo{run},
		Activities: boltActivityRepo{run},
		Vacations:  boltVacationRepo{run},
		Cursor:     boltCursorRepo{run},
	}
}

type boltDayLogRepo struct{ run boltRunner }

func (r boltDayLogRepo) Get(_ context.Context, date string) (domain.DayLog, error) {
	var log domain.DayLog
	err := r.run.view(func(tx *bolt.Tx) error {
		log = decodeLog(date, tx.Bucket(bucketDayLogs).Get([]byte(date)))
		return nil
	})
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("reading day log %s: %w", date, err)
	}
	return log, nil
}

func (r boltDayLogRepo) Append(_ context.Context, date string, s domain.Session) (domain.DayLog, error) {
	if err := checkDate(date); err != nil {
		return domain.DayLog{}, err
	}
	if err := checkSession(s); err != nil {
		return domain.DayLog{}, err
	}
	return r.rewrite(date, func(sessions []domain.Session) []domain.Session {
		sessions = append(sessions, s)
		sortSessions(sessions)
		return sessions
	})
}

func (r boltDayLogRepo) Delete(_ context.Context, date string, s domain.Session) (domain.DayLog, error) {
	if err := checkDate(date); err != nil {
		return domain.DayLog{}, err
	}
	return r.rewrite(date, func(sessions []domain.Session) []domain.Session {
		return withoutSession(sessions, s)
	})
}

// rewrite is the per-date read-modify-write.
func (r boltDayLogRepo) rewrite(date string, edit func([]domain.Session) []domain.Session) (domain.DayLog, error) {
	var log domain.DayLog
	err := r.run.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDayLogs)
		log = decodeLog(date, b.Get([]byte(date)))
		log.Sessions = edit(log.Sessions)

		if len(log.Sessions) == 0 {
			return b.Delete([]byte(date))
		}
		doc, err := encodeLog(log)
		if err != nil {
			return err
		}
		return b.Put([]byte(date), doc)
	})
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("writing day log %s: %w", date, err)
	}
	return log, nil
}

func (r boltDayLogRepo) GetRange(_ context.Context, start, end string) ([]domain.DayLog, error) {
	dates := calendar.DatesInRange(start, end)
	if len(dates) == 0 {
		return []domain.DayLog{}, nil
	}

	found := make(map[string]domain.DayLog)
	err := r.run.view(func(tx *bolt.Tx) error {
		return scanRange(tx.Bucket(bucketDayLogs), start, end, func(date string, v []byte) {
			found[date] = decodeLog(date, v)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading day logs: %w", err)
	}

	logs := make([]domain.DayLog, 0, len(dates))
	for _, d := range dates {
		log, ok := found[d]
		if !ok {
			log = domain.DayLog{Date: d, Sessions: []domain.Session{}}
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// scanRange visits keys in [start, end]. Date keys sort chronologically.
func scanRange(b *bolt.Bucket, start, end string, visit func(key string, v []byte)) error {
	c := b.Cursor()
	max := []byte(end)
	for k, v := c.Seek([]byte(start)); k != nil && bytes.Compare(k, max) <= 0; k, v = c.Next() {
		visit(string(k), v)
	}
	return nil
}

type boltHabitRepo struct{ run boltRunner }

func (r boltHabitRepo) Get(_ context.Context, date string) (domain.HabitDay, error) {
	var day domain.HabitDay
	err := r.run.view(func(tx *bolt.Tx) error {
		day, _ = decodeHabit(date, tx.Bucket(bucketHabits).Get([]byte(date)))
		return nil
	})
	if err != nil {
		return domain.HabitDay{}, fmt.Errorf("reading habit day %s: %w", date, err)
	}
	return day, nil
}

func (r boltHabitRepo) Set(_ context.Context, date string, day domain.HabitDay) error {
	if err := checkDate(date); err != nil {
		return err
	}
	doc, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("encoding habit day: %w", err)
	}
	err = r.run.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHabits).Put([]byte(date), doc)
	})
	if err != nil {
		return fmt.Errorf("writing habit day %s: %w", date, err)
	}
	return nil
}

func (r boltHabitRepo) GetRange(_ context.Context, start, end string) (map[string]domain.HabitDay, error) {
	out := make(map[string]domain.HabitDay)
	if start > end {
		return out, nil
	}
	err := r.run.view(func(tx *bolt.Tx) error {
		return scanRange(tx.Bucket(bucketHabits), start, end, func(date string, v []byte) {
			if day, ok := decodeHabit(date, v); ok {
				out[date] = day
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading habit days: %w", err)
	}
	return out, nil
}

type boltActivityRepo struct{ run boltRunner }

func (r boltActivityRepo) List(_ context.Context) ([]string, error) {
	names := []string{}
	err := r.run.view(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketActivities).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing activity names: %w", err)
	}
	return sortNames(names), nil
}

func (r boltActivityRepo) Add(ctx context.Context, name string) ([]string, error) {
	key := []byte(strings.TrimSpace(name))
	if len(key) > 0 {
		err := r.run.update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketActivities)
			if b.Get(key) != nil {
				return nil
			}
			return b.Put(key, []byte(nowUTC()))
		})
		if err != nil {
			return nil, fmt.Errorf("adding activity name: %w", err)
		}
	}
	return r.List(ctx)
}

type boltVacationRepo struct{ run boltRunner }

func (r boltVacationRepo) Load(_ context.Context) ([]string, error) {
	days := []string{}
	err := r.run.view(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVacation).ForEach(func(k, _ []byte) error {
			days = append(days, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading vacation days: %w", err)
	}
	return days, nil
}

func (r boltVacationRepo) Save(_ context.Context, days []string) error {
	for _, d := range days {
		if err := checkDate(d); err != nil {
			return err
		}
	}
	err := r.run.update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketVacation); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(bucketVacation)
		if err != nil {
			return err
		}
		for _, d := range days {
			if err := b.Put([]byte(d), []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving vacation days: %w", err)
	}
	return nil
}

type boltCursorRepo struct{ run boltRunner }

func (r boltCursorRepo) LastStop(_ context.Context) (*time.Time, error) {
	var raw string
	err := r.run.view(func(tx *bolt.Tx) error {
		raw = string(tx.Bucket(bucketState).Get([]byte(stateLastStop)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading last stop: %w", err)
	}
	return parseStoredStop(raw), nil
}

func (r boltCursorRepo) SetLastStop(_ context.Context, t time.Time) error {
	err := r.run.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(stateLastStop), []byte(formatInstant(t)))
	})
	if err != nil {
		return fmt.Errorf("writing last stop: %w", err)
	}
	return nil
}

func (r boltCursorRepo) LoadUndo(_ context.Context) (*domain.LoggedSegments, error) {
	var u *domain.LoggedSegments
	err := r.run.view(func(tx *bolt.Tx) error {
		u = decodeUndo(tx.Bucket(bucketState).Get([]byte(stateUndo)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading undo record: %w", err)
	}
	return u, nil
}

func (r boltCursorRepo) SaveUndo(_ context.Context, u *domain.LoggedSegments) error {
	err := r.run.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if u == nil {
			return b.Delete([]byte(stateUndo))
		}
		doc, err := encodeUndo(u)
		if err != nil {
			return err
		}
		return b.Put([]byte(stateUndo), doc)
	})
	if err != nil {
		return fmt.Errorf("writing undo record: %w", err)
	}
	return nil
}
