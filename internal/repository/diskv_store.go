package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/peterbourgon/diskv/v3"
)

const (
	diskvDayLogs  = "daylog"
	diskvHabits   = "habit"
	diskvMeta     = "meta"
	diskvFileExt  = ".json"
	metaNames     = diskvMeta + "/activities"
	metaVacation  = diskvMeta + "/vacation"
	metaLastStop  = diskvMeta + "/" + stateLastStop
	metaUndo      = diskvMeta + "/" + stateUndo
	diskvCacheMax = 1024 * 1024 // 1MB
)

// DiskvStore keeps one JSON file per document under a base directory, laid
// out as daylog/2024-03/2024-03-01.json, habit/2024-03/2024-03-01.json and
// meta/*.json so the data stays readable and diffable by hand.
type DiskvStore struct {
	d  *diskv.Diskv
	mu sync.Mutex
}

// OpenDiskvStore creates a store rooted at basePath.
func OpenDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      diskvCacheMax,
	})}
}

// keyToPathTransform maps "kind/2024-03-01" to kind/2024-03/2024-03-01.json
// and "meta/name" to meta/name.json.
func keyToPathTransform(key string) *diskv.PathKey {
	kind, name, _ := strings.Cut(key, "/")
	path := []string{kind}
	if kind != diskvMeta && len(name) >= 7 {
		path = append(path, name[:7])
	}
	return &diskv.PathKey{Path: path, FileName: name + diskvFileExt}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	kind := ""
	if len(pathKey.Path) > 0 {
		kind = pathKey.Path[0]
	}
	return kind + "/" + strings.TrimSuffix(pathKey.FileName, diskvFileExt)
}

// Repos returns the store's repositories.
func (s *DiskvStore) Repos() Repos {
	return Repos{
		DayLogs:    diskvDayLogRepo{s},
		Habits:     diskvHabitRepo{s},
		Activities: diskvActivityRepo{s},
		Vacations:  diskvVacationRepo{s},
		Cursor:     diskvCursorRepo{s},
	}
}

// WithinTx runs fn directly; each document write is atomic on its own but
// a multi-document callback is not.
func (s *DiskvStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return fn(ctx, s.Repos())
}

func (s *DiskvStore) read(key string) []byte {
	if !s.d.Has(key) {
		return nil
	}
	raw, err := s.d.Read(key)
	if err != nil {
		slog.Debug("reading document", "key", key, "error", err)
		return nil
	}
	return raw
}

func (s *DiskvStore) write(key string, v []byte) error {
	if err := s.d.Write(key, v); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *DiskvStore) erase(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("erasing %s: %w", key, err)
	}
	return nil
}

// readList decodes a JSON string array, empty when missing or corrupt.
func (s *DiskvStore) readList(key string) []string {
	raw := s.read(key)
	list := []string{}
	if raw == nil {
		return list
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		slog.Debug("ignoring corrupt list", "key", key, "error", err)
		return []string{}
	}
	return list
}

func (s *DiskvStore) writeList(key string, list []string) error {
	doc, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.write(key, doc)
}

type diskvDayLogRepo struct{ s *DiskvStore }

func dayLogKey(date string) string { return diskvDayLogs + "/" + date }

func (r diskvDayLogRepo) Get(_ context.Context, date string) (domain.DayLog, error) {
	if !calendar.ValidDateKey(date) {
		return domain.DayLog{Date: date, Sessions: []domain.Session{}}, nil
	}
	return decodeLog(date, r.s.read(dayLogKey(date))), nil
}

func (r diskvDayLogRepo) Append(_ context.Context, date string, s domain.Session) (domain.DayLog, error) {
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

func (r diskvDayLogRepo) Delete(_ context.Context, date string, s domain.Session) (domain.DayLog, error) {
	if err := checkDate(date); err != nil {
		return domain.DayLog{}, err
	}
	return r.rewrite(date, func(sessions []domain.Session) []domain.Session {
		return withoutSession(sessions, s)
	})
}

func (r diskvDayLogRepo) rewrite(date string, edit func([]domain.Session) []domain.Session) (domain.DayLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dayLogKey(date)
	log := decodeLog(date, r.s.read(key))
	log.Sessions = edit(log.Sessions)

	if len(log.Sessions) == 0 {
		return log, r.s.erase(key)
	}
	doc, err := encodeLog(log)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("encoding day log %s: %w", date, err)
	}
	return log, r.s.write(key, doc)
}

func (r diskvDayLogRepo) GetRange(ctx context.Context, start, end string) ([]domain.DayLog, error) {
	dates := calendar.DatesInRange(start, end)
	logs := make([]domain.DayLog, 0, len(dates))
	for _, d := range dates {
		log, err := r.Get(ctx, d)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

type diskvHabitRepo struct{ s *DiskvStore }

func habitKey(date string) string { return diskvHabits + "/" + date }

func (r diskvHabitRepo) Get(_ context.Context, date string) (domain.HabitDay, error) {
	if !calendar.ValidDateKey(date) {
		return domain.HabitDay{}, nil
	}
	day, _ := decodeHabit(date, r.s.read(habitKey(date)))
	return day, nil
}

func (r diskvHabitRepo) Set(_ context.Context, date string, day domain.HabitDay) error {
	if err := checkDate(date); err != nil {
		return err
	}
	doc, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("encoding habit day: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.write(habitKey(date), doc)
}

func (r diskvHabitRepo) GetRange(_ context.Context, start, end string) (map[string]domain.HabitDay, error) {
	out := make(map[string]domain.HabitDay)
	for _, d := range calendar.DatesInRange(start, end) {
		if day, ok := decodeHabit(d, r.s.read(habitKey(d))); ok {
			out[d] = day
		}
	}
	return out, nil
}

type diskvActivityRepo struct{ s *DiskvStore }

func (r diskvActivityRepo) List(_ context.Context) ([]string, error) {
	return sortNames(r.s.readList(metaNames)), nil
}

func (r diskvActivityRepo) Add(_ context.Context, name string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current := r.s.readList(metaNames)
	next := mergeName(append([]string(nil), current...), name)
	if len(next) == len(current) {
		return next, nil
	}
	if err := r.s.writeList(metaNames, next); err != nil {
		return nil, err
	}
	return next, nil
}

type diskvVacationRepo struct{ s *DiskvStore }

func (r diskvVacationRepo) Load(_ context.Context) ([]string, error) {
	return r.s.readList(metaVacation), nil
}

func (r diskvVacationRepo) Save(_ context.Context, days []string) error {
	for _, d := range days {
		if err := checkDate(d); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if days == nil {
		days = []string{}
	}
	return r.s.writeList(metaVacation, days)
}

type diskvCursorRepo struct{ s *DiskvStore }

func (r diskvCursorRepo) LastStop(_ context.Context) (*time.Time, error) {
	return parseStoredStop(string(r.s.read(metaLastStop))), nil
}

func (r diskvCursorRepo) SetLastStop(_ context.Context, t time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.write(metaLastStop, []byte(formatInstant(t)))
}

func (r diskvCursorRepo) LoadUndo(_ context.Context) (*domain.LoggedSegments, error) {
	return decodeUndo(r.s.read(metaUndo)), nil
}

func (r diskvCursorRepo) SaveUndo(_ context.Context, u *domain.LoggedSegments) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u == nil {
		return r.s.erase(metaUndo)
	}
	doc, err := encodeUndo(u)
	if err != nil {
		return fmt.Errorf("encoding undo record: %w", err)
	}
	return r.s.write(metaUndo, doc)
}
