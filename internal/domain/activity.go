package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Synthetic activity names produced by aggregation. They are never
// persisted as session activities.
const (
	ActivityUntracked = "Untracked"
	ActivityOther     = "Other"
	ActivityAll       = "All"
)

// NormalizeActivityName trims the name and upper-cases its first rune.
// The rest of the name is left unchanged. Returns "" for blank input.
func NormalizeActivityName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
