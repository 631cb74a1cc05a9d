// Package vacation owns the set of dates excluded from streaks, trends and
// averages.
package vacation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/alexanderramin/daybook/internal/aggregate"
	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
)

// Persistence stores the vacation date list.
type Persistence interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, days []string) error
}

var _ aggregate.VacationFilter = (*Calendar)(nil)

// Calendar is the in-process vacation set. Reads before Load report no
// vacation days. Replacement swaps the whole set under a lock and then
// notifies subscribers synchronously.
type Calendar struct {
	store  Persistence
	logger *slog.Logger

	loadOnce sync.Once

	mu     sync.RWMutex
	days   map[string]struct{}
	sorted []string
	loaded bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func([]string)
}

func New(store Persistence, logger *slog.Logger) *Calendar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calendar{
		store:  store,
		logger: logger,
		days:   map[string]struct{}{},
		subs:   map[int]func([]string){},
	}
}

// Normalize trims, drops malformed keys, dedupes and sorts.
func Normalize(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.TrimSpace(d)
		if !calendar.ValidDateKey(d) {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Load reads the persisted set once. A storage failure is logged and the
// calendar is treated as loaded with no vacation days. Subscribers are
// notified with the loaded set.
func (c *Calendar) Load(ctx context.Context) {
	c.loadOnce.Do(func() {
		var days []string
		if c.store != nil {
			var err error
			days, err = c.store.Load(ctx)
			if err != nil {
				c.logger.WarnContext(ctx, "loading vacation days", "error", err)
				days = nil
			}
		}
		c.swap(Normalize(days))
	})
}

// Loaded reports whether Load has completed.
func (c *Calendar) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// IsVacation reports whether date is a vacation day.
func (c *Calendar) IsVacation(date string) bool {
	if date == "" {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.days[date]
	return ok
}

// Days returns a sorted copy of the set.
func (c *Calendar) Days() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.sorted...)
}

// Replace normalizes and persists days, then installs them as the new set.
// The in-memory set is replaced even when persisting fails; the error is
// returned so the caller can report it.
func (c *Calendar) Replace(ctx context.Context, days []string) ([]string, error) {
	next := Normalize(days)

	var saveErr error
	if c.store != nil {
		if err := c.store.Save(ctx, next); err != nil {
			c.logger.ErrorContext(ctx, "saving vacation days", "error", err)
			saveErr = fmt.Errorf("saving vacation days: %w", err)
		}
	}

	c.swap(next)
	return append([]string(nil), next...), saveErr
}

// Add marks one date as a vacation day.
func (c *Calendar) Add(ctx context.Context, date string) ([]string, error) {
	return c.Replace(ctx, append(c.Days(), date))
}

// Remove unmarks one date.
func (c *Calendar) Remove(ctx context.Context, date string) ([]string, error) {
	date = strings.TrimSpace(date)
	current := c.Days()
	kept := current[:0]
	for _, d := range current {
		if d != date {
			kept = append(kept, d)
		}
	}
	return c.Replace(ctx, kept)
}

// Clear removes every vacation day.
func (c *Calendar) Clear(ctx context.Context) error {
	_, err := c.Replace(ctx, nil)
	return err
}

// Subscribe registers fn to receive the full sorted set after every change.
// The returned func unsubscribes.
func (c *Calendar) Subscribe(fn func(days []string)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Calendar) swap(sorted []string) {
	set := make(map[string]struct{}, len(sorted))
	for _, d := range sorted {
		set[d] = struct{}{}
	}

	c.mu.Lock()
	c.days = set
	c.sorted = sorted
	c.loaded = true
	c.mu.Unlock()

	c.subMu.Lock()
	listeners := make([]func([]string), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.subMu.Unlock()

	for _, fn := range listeners {
		fn(append([]string(nil), sorted...))
	}
}

// FilterLogs drops day logs dated on vacation days.
func (c *Calendar) FilterLogs(logs []domain.DayLog) []domain.DayLog {
	out := make([]domain.DayLog, 0, len(logs))
	for _, l := range logs {
		if !c.IsVacation(l.Date) {
			out = append(out, l)
		}
	}
	return out
}

// FilterHabits drops habit documents dated on vacation days.
func (c *Calendar) FilterHabits(history map[string]domain.HabitDay) map[string]domain.HabitDay {
	out := make(map[string]domain.HabitDay, len(history))
	for d, h := range history {
		if !c.IsVacation(d) {
			out[d] = h
		}
	}
	return out
}
