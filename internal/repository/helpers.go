package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/maruel/natural"
)

// instantLayout is RFC 3339 with a fixed nine-digit fraction so stored
// instants sort lexically in chronological order.
const instantLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatInstant converts t to the stored UTC representation.
func formatInstant(t time.Time) string {
	return t.UTC().Format(instantLayout)
}

// parseInstant parses a stored instant into the local zone.
func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func checkDate(date string) error {
	if !calendar.ValidDateKey(date) {
		return fmt.Errorf("%q: %w", date, ErrInvalidDate)
	}
	return nil
}

func checkSession(s domain.Session) error {
	if !s.End.After(s.Start) {
		return ErrInvalidSession
	}
	return nil
}

// withoutSession drops every session matching target.
func withoutSession(sessions []domain.Session, target domain.Session) []domain.Session {
	kept := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.Matches(target) {
			kept = append(kept, s)
		}
	}
	return kept
}

// sortSessions orders by start; equal starts keep insertion order.
func sortSessions(sessions []domain.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})
}

// sortNames orders activity names the way people read them ("Book 2" before
// "Book 10").
func sortNames(names []string) []string {
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// mergeName adds name to names when missing, keeping natural order.
func mergeName(names []string, name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return sortNames(names)
	}
	for _, n := range names {
		if n == name {
			return sortNames(names)
		}
	}
	return sortNames(append(names, name))
}

// storedLog is the document shape the key-value backends persist per date.
type storedLog struct {
	Sessions []storedSession `json:"sessions"`
}

type storedSession struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Activity string `json:"activity"`
}

func encodeLog(log domain.DayLog) ([]byte, error) {
	doc := storedLog{Sessions: make([]storedSession, 0, len(log.Sessions))}
	for _, s := range log.Sessions {
		doc.Sessions = append(doc.Sessions, storedSession{
			Start:    formatInstant(s.Start),
			End:      formatInstant(s.End),
			Activity: s.Activity,
		})
	}
	return json.Marshal(doc)
}

// decodeLog reads a stored day log. A document that is not valid JSON is
// treated as empty; individual sessions with unreadable instants are skipped.
func decodeLog(date string, raw []byte) domain.DayLog {
	log := domain.DayLog{Date: date, Sessions: []domain.Session{}}
	if len(raw) == 0 {
		return log
	}
	var doc storedLog
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Debug("ignoring corrupt day log", "date", date, "error", err)
		return log
	}
	for _, s := range doc.Sessions {
		start, err1 := parseInstant(s.Start)
		end, err2 := parseInstant(s.End)
		if err1 != nil || err2 != nil {
			slog.Debug("skipping session with bad instant", "date", date, "start", s.Start, "end", s.End)
			continue
		}
		log.Sessions = append(log.Sessions, domain.Session{Start: start, End: end, Activity: s.Activity})
	}
	sortSessions(log.Sessions)
	return log
}

// decodeHabit reads a stored habit document, treating corrupt JSON as empty.
func decodeHabit(date string, raw []byte) (domain.HabitDay, bool) {
	if len(raw) == 0 {
		return domain.HabitDay{}, false
	}
	var day domain.HabitDay
	if err := json.Unmarshal(raw, &day); err != nil {
		slog.Debug("ignoring corrupt habit document", "date", date, "error", err)
		return domain.HabitDay{}, false
	}
	return day, true
}

type storedUndo struct {
	PrevStop string          `json:"prevStop"`
	Segments []storedSession `json:"segments"`
}

func encodeUndo(u *domain.LoggedSegments) ([]byte, error) {
	doc := storedUndo{PrevStop: formatInstant(u.PrevStop), Segments: make([]storedSession, 0, len(u.Segments))}
	for _, s := range u.Segments {
		doc.Segments = append(doc.Segments, storedSession{
			Start:    formatInstant(s.Start),
			End:      formatInstant(s.End),
			Activity: s.Activity,
		})
	}
	return json.Marshal(doc)
}

// decodeUndo returns nil for a missing or unreadable record.
func decodeUndo(raw []byte) *domain.LoggedSegments {
	if len(raw) == 0 {
		return nil
	}
	var doc storedUndo
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Debug("ignoring corrupt undo record", "error", err)
		return nil
	}
	prev, err := parseInstant(doc.PrevStop)
	if err != nil {
		slog.Debug("ignoring undo record with bad prev stop", "value", doc.PrevStop)
		return nil
	}
	u := &domain.LoggedSegments{PrevStop: prev, Segments: make([]domain.Session, 0, len(doc.Segments))}
	for _, s := range doc.Segments {
		start, err1 := parseInstant(s.Start)
		end, err2 := parseInstant(s.End)
		if err1 != nil || err2 != nil {
			slog.Debug("ignoring undo record with bad segment")
			return nil
		}
		u.Segments = append(u.Segments, domain.Session{Start: start, End: end, Activity: s.Activity})
	}
	return u
}

// parseStoredStop parses the persisted last-stop value, nil when unreadable.
func parseStoredStop(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := parseInstant(raw)
	if err != nil {
		slog.Debug("ignoring unreadable last stop", "value", raw)
		return nil
	}
	return &t
}
