package importer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
)

// ValidateBackup checks the backup for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateBackup(b *Backup) []error {
	var errs []error

	for i, name := range b.ActivityNames {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is blank", KeyActivityNames, i))
		}
	}

	if b.LastStop != nil {
		if _, err := parseInstant(*b.LastStop); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid instant %q", KeyLastStop, *b.LastStop))
		}
	}

	for _, date := range sortedKeys(b.DayLogs) {
		errs = append(errs, validateDayLog(date, b.DayLogs[date])...)
	}

	for _, date := range sortedKeys(b.Habits) {
		prefix := KeyHabitPrefix + date
		if !calendar.ValidDateKey(date) {
			errs = append(errs, fmt.Errorf("%s: invalid date format (expected YYYY-MM-DD)", prefix))
		}
		if doc := bytes.TrimSpace(b.Habits[date]); len(doc) == 0 || doc[0] != '{' {
			errs = append(errs, fmt.Errorf("%s: document must be a JSON object", prefix))
		}
	}

	return errs
}

func validateDayLog(date string, log DayLogImport) []error {
	var errs []error
	prefix := KeyDayLogPrefix + date

	if !calendar.ValidDateKey(date) {
		errs = append(errs, fmt.Errorf("%s: invalid date format (expected YYYY-MM-DD)", prefix))
	}
	if log.Date != "" && log.Date != date {
		errs = append(errs, fmt.Errorf("%s.date %q does not match its key", prefix, log.Date))
	}

	for i, s := range log.Sessions {
		sp := fmt.Sprintf("%s.sessions[%d]", prefix, i)

		if strings.TrimSpace(s.Activity) == "" {
			errs = append(errs, fmt.Errorf("%s.activity is required", sp))
		}
		start, startErr := parseInstant(s.Start)
		if startErr != nil {
			errs = append(errs, fmt.Errorf("%s.start: invalid instant %q", sp, s.Start))
		}
		end, endErr := parseInstant(s.End)
		if endErr != nil {
			errs = append(errs, fmt.Errorf("%s.end: invalid instant %q", sp, s.End))
		}
		if startErr == nil && endErr == nil && !end.After(start) {
			errs = append(errs, fmt.Errorf("%s: end %q must be after start %q", sp, s.End, s.Start))
		}
	}

	return errs
}

func parseInstant(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
