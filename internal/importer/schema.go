package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Storage keys used by the mobile app's key/value store.
const (
	KeyActivityNames = "activity_clock_activity_names"
	KeyLastStop      = "activity_clock_last_stop"
	KeyDayLogPrefix  = "activity_log_"
	KeyHabitPrefix   = "habit_"
)

// Backup is a key/value dump of the mobile app's storage, split by key kind.
// Day logs and habit documents are indexed by the date in their key.
type Backup struct {
	ActivityNames []string
	LastStop      *string
	DayLogs       map[string]DayLogImport
	Habits        map[string]json.RawMessage
	// Ignored lists keys that matched no known prefix.
	Ignored []string
}

// DayLogImport is one stored day log.
type DayLogImport struct {
	Date     string          `json:"date"`
	Sessions []SessionImport `json:"sessions"`
}

// SessionImport is one stored session with ISO-8601 instants.
type SessionImport struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Activity string `json:"activity"`
}

// LoadBackup reads and parses a backup file.
func LoadBackup(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBackup(data)
}

// ParseBackup parses a JSON object of storage keys. Values may be the raw
// JSON document or the string the key/value store held it as.
func ParseBackup(data []byte) (*Backup, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing backup file: %w", err)
	}

	b := &Backup{
		DayLogs: make(map[string]DayLogImport),
		Habits:  make(map[string]json.RawMessage),
	}
	for key, raw := range entries {
		value := unwrap(raw)
		switch {
		case key == KeyActivityNames:
			if err := json.Unmarshal(value, &b.ActivityNames); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", key, err)
			}
		case key == KeyLastStop:
			var stop string
			if err := json.Unmarshal(value, &stop); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", key, err)
			}
			b.LastStop = &stop
		case strings.HasPrefix(key, KeyDayLogPrefix):
			var log DayLogImport
			if err := json.Unmarshal(value, &log); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", key, err)
			}
			b.DayLogs[strings.TrimPrefix(key, KeyDayLogPrefix)] = log
		case strings.HasPrefix(key, KeyHabitPrefix):
			b.Habits[strings.TrimPrefix(key, KeyHabitPrefix)] = value
		default:
			b.Ignored = append(b.Ignored, key)
		}
	}
	sort.Strings(b.Ignored)
	return b, nil
}

// unwrap returns the document held inside a JSON string value, or raw
// unchanged when the value is not a string wrapping JSON.
func unwrap(raw json.RawMessage) json.RawMessage {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return raw
	}
	inner := bytes.TrimSpace([]byte(s))
	if len(inner) > 0 && (inner[0] == '{' || inner[0] == '[' || inner[0] == '"') && json.Valid(inner) {
		return inner
	}
	return raw
}
