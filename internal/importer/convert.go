package importer

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
)

// Import is a converted backup ready for persistence. Day logs are ordered
// by date and their sessions by start.
type Import struct {
	DayLogs    []domain.DayLog
	HabitDates []string
	Habits     map[string]domain.HabitDay
	// ActivityNames covers the stored registry plus every session activity.
	ActivityNames []string
	LastStop      *time.Time
}

// SessionCount returns the number of sessions across all day logs.
func (im *Import) SessionCount() int {
	n := 0
	for _, log := range im.DayLogs {
		n += len(log.Sessions)
	}
	return n
}

// Convert transforms a validated Backup into domain objects.
// Call ValidateBackup first; Convert assumes the backup is valid.
func Convert(b *Backup) (*Import, error) {
	names := make(map[string]bool)
	addName := func(name string) string {
		n := domain.NormalizeActivityName(name)
		if n != "" {
			names[n] = true
		}
		return n
	}
	for _, name := range b.ActivityNames {
		addName(name)
	}

	out := &Import{Habits: make(map[string]domain.HabitDay)}

	for _, date := range sortedKeys(b.DayLogs) {
		log := domain.DayLog{Date: date}
		for _, s := range b.DayLogs[date].Sessions {
			start, err := parseInstant(s.Start)
			if err != nil {
				return nil, fmt.Errorf("parsing session start on %s: %w", date, err)
			}
			end, err := parseInstant(s.End)
			if err != nil {
				return nil, fmt.Errorf("parsing session end on %s: %w", date, err)
			}
			log.Sessions = append(log.Sessions, domain.Session{
				Start:    start.Local(),
				End:      end.Local(),
				Activity: addName(s.Activity),
			})
		}
		if len(log.Sessions) == 0 {
			continue
		}
		sort.SliceStable(log.Sessions, func(i, j int) bool {
			return log.Sessions[i].Start.Before(log.Sessions[j].Start)
		})
		out.DayLogs = append(out.DayLogs, log)
	}

	for _, date := range sortedKeys(b.Habits) {
		var day domain.HabitDay
		if err := json.Unmarshal(b.Habits[date], &day); err != nil {
			return nil, fmt.Errorf("parsing habit document for %s: %w", date, err)
		}
		if day.IsEmpty() {
			continue
		}
		out.HabitDates = append(out.HabitDates, date)
		out.Habits[date] = day
	}

	for name := range names {
		out.ActivityNames = append(out.ActivityNames, name)
	}
	sort.Strings(out.ActivityNames)

	if b.LastStop != nil {
		stop, err := parseInstant(*b.LastStop)
		if err != nil {
			return nil, fmt.Errorf("parsing last stop: %w", err)
		}
		stop = stop.Local()
		out.LastStop = &stop
	}

	return out, nil
}
