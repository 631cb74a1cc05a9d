package domain

import "fmt"

type TrendScope string

const (
	ScopeAll      TrendScope = "all"
	ScopeWeekdays TrendScope = "weekdays"
	ScopeWeekends TrendScope = "weekends"
)

// ParseTrendScope accepts the scope names case-sensitively as stored.
func ParseTrendScope(s string) (TrendScope, error) {
	switch TrendScope(s) {
	case ScopeAll, ScopeWeekdays, ScopeWeekends:
		return TrendScope(s), nil
	case "":
		return ScopeAll, nil
	}
	return "", fmt.Errorf("invalid trend scope %q (want all, weekdays or weekends)", s)
}

type StorageBackend string

const (
	BackendSQLite StorageBackend = "sqlite"
	BackendBolt   StorageBackend = "bolt"
	BackendDiskv  StorageBackend = "diskv"
)

// ParseStorageBackend maps a configured backend name; blank means SQLite.
func ParseStorageBackend(s string) (StorageBackend, error) {
	switch StorageBackend(s) {
	case BackendSQLite, BackendBolt, BackendDiskv:
		return StorageBackend(s), nil
	case "":
		return BackendSQLite, nil
	}
	return "", fmt.Errorf("invalid storage backend %q (want sqlite, bolt or diskv)", s)
}
