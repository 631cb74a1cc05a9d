package app

import (
	"context"
	"time"

	"github.com/alexanderramin/daybook/internal/importer"
)

// ImportRequest controls how a backup is merged into the store.
type ImportRequest struct {
	// Overwrite replaces habit documents that already exist.
	Overwrite bool
	// DryRun validates and counts without writing.
	DryRun bool
}

// ImportResult counts what a backup import wrote or would write.
type ImportResult struct {
	Days             int
	Sessions         int
	SkippedSessions  int
	HabitDays        int
	SkippedHabitDays int
	Activities       int
	// LastStop is set when the import moved the logger cursor forward.
	LastStop *time.Time
	Ignored  []string
	DryRun   bool
}

type ImportBackupUseCase interface {
	ImportBackup(ctx context.Context, path string, req ImportRequest) (*ImportResult, error)
	ImportBackupData(ctx context.Context, backup *importer.Backup, req ImportRequest) (*ImportResult, error)
}
