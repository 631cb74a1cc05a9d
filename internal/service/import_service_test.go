package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/importer"
	"github.com/alexanderramin/daybook/internal/repository"
	"github.com/alexanderramin/daybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionImport(start time.Time, minutes int, activity string) importer.SessionImport {
	return importer.SessionImport{
		Start:    start.UTC().Format(time.RFC3339),
		End:      start.Add(time.Duration(minutes) * time.Minute).UTC().Format(time.RFC3339),
		Activity: activity,
	}
}

func validBackup() *importer.Backup {
	stop := testutil.At(2024, 3, 2, 11, 30).UTC().Format(time.RFC3339)
	return &importer.Backup{
		ActivityNames: []string{"Reading"},
		LastStop:      &stop,
		DayLogs: map[string]importer.DayLogImport{
			"2024-03-01": {Date: "2024-03-01", Sessions: []importer.SessionImport{
				sessionImport(testutil.At(2024, 3, 1, 9, 0), 60, "work"),
				sessionImport(testutil.At(2024, 3, 1, 10, 0), 30, "Reading"),
			}},
			"2024-03-02": {Date: "2024-03-02", Sessions: []importer.SessionImport{
				sessionImport(testutil.At(2024, 3, 2, 11, 0), 30, "Gym"),
			}},
		},
		Habits: map[string]json.RawMessage{
			"2024-03-01": json.RawMessage(`{"HIIT": true, "wastedMin": 70}`),
		},
		Ignored: []string{"settings_theme"},
	}
}

func newImporter(f fixture, observers ...UseCaseObserver) ImportService {
	return NewImportService(f.tx, Settings{WasteLimit: 60}, nil, observers...)
}

func TestImportBackup_WritesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	obs := &recordingObserver{}

	res, err := newImporter(f, obs).ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Days)
	assert.Equal(t, 3, res.Sessions)
	assert.Equal(t, 0, res.SkippedSessions)
	assert.Equal(t, 1, res.HabitDays)
	assert.Equal(t, 3, res.Activities)
	assert.Equal(t, []string{"settings_theme"}, res.Ignored)
	require.NotNil(t, res.LastStop)
	assert.True(t, res.LastStop.Equal(testutil.At(2024, 3, 2, 11, 30)))

	log, err := f.repos.DayLogs.Get(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, log.Sessions, 2)
	assert.Equal(t, "Work", log.Sessions[0].Activity)
	assert.True(t, log.Sessions[0].Start.Equal(testutil.At(2024, 3, 1, 9, 0)))

	day, err := f.repos.Habits.Get(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, day.Done("HIIT"))
	require.NotNil(t, day.WasteDelta)
	assert.Equal(t, 10.0, *day.WasteDelta, "delta uses the configured limit")

	names, err := f.repos.Activities.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gym", "Reading", "Work"}, names)

	stop, err := f.repos.Cursor.LastStop(ctx)
	require.NoError(t, err)
	require.NotNil(t, stop)
	assert.True(t, stop.Equal(testutil.At(2024, 3, 2, 11, 30)))

	event := obs.last()
	assert.Equal(t, "import-backup", event.Name)
	assert.True(t, event.Success)
	assert.Equal(t, 3, event.Fields["sessions"])
}

func TestImportBackup_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := newImporter(f)

	_, err := svc.ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.NoError(t, err)

	res, err := svc.ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sessions)
	assert.Equal(t, 0, res.Days)
	assert.Equal(t, 3, res.SkippedSessions)
	assert.Equal(t, 0, res.HabitDays)
	assert.Equal(t, 1, res.SkippedHabitDays)
	assert.Nil(t, res.LastStop, "cursor already at the imported stop")

	log, err := f.repos.DayLogs.Get(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, log.Sessions, 2)
}

func TestImportBackup_OverwriteReplacesHabitDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Habits.Set(ctx, "2024-03-01", testutil.NewTestHabitDay(testutil.WithDone("Sand"))))

	res, err := newImporter(f).ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkippedHabitDays)
	day, err := f.repos.Habits.Get(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, day.Done("Sand"))
	assert.False(t, day.Done("HIIT"))

	res, err = newImporter(f).ImportBackupData(ctx, validBackup(), app.ImportRequest{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.HabitDays)
	day, err = f.repos.Habits.Get(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, day.Done("HIIT"))
	assert.False(t, day.Done("Sand"))
}

func TestImportBackup_NeverMovesCursorBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	later := testutil.At(2024, 3, 5, 8, 0)
	require.NoError(t, f.repos.Cursor.SetLastStop(ctx, later))

	res, err := newImporter(f).ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.NoError(t, err)
	assert.Nil(t, res.LastStop)

	stop, err := f.repos.Cursor.LastStop(ctx)
	require.NoError(t, err)
	assert.True(t, stop.Equal(later))
}

func TestImportBackup_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := newImporter(f).ImportBackupData(ctx, validBackup(), app.ImportRequest{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 3, res.Sessions)
	assert.Equal(t, 1, res.HabitDays)
	assert.NotNil(t, res.LastStop)

	logs, err := f.repos.DayLogs.GetRange(ctx, "2024-03-01", "2024-03-02")
	require.NoError(t, err)
	for _, l := range logs {
		assert.Empty(t, l.Sessions)
	}
	habits, err := f.repos.Habits.GetRange(ctx, "2024-03-01", "2024-03-02")
	require.NoError(t, err)
	assert.Empty(t, habits)
	stop, err := f.repos.Cursor.LastStop(ctx)
	require.NoError(t, err)
	assert.Nil(t, stop)
}

func TestImportBackup_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := validBackup()
	b.DayLogs["2024-03-01"].Sessions[0].Activity = ""
	b.Habits["2024-03-03"] = json.RawMessage(`true`)

	_, err := newImporter(f).ImportBackupData(ctx, b, app.ImportRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup validation failed (2 errors)")

	log, err := f.repos.DayLogs.Get(ctx, "2024-03-02")
	require.NoError(t, err)
	assert.Empty(t, log.Sessions)
}

func TestImportBackup_RollbackOnSessionAppendFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// ExecContext #1 and #2 append the 2024-03-01 sessions, #3 the 2024-03-02 one.
	failing := repository.NewSQLiteTransactor(&testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 3,
		Err:    errors.New("injected append failure"),
	})
	svc := NewImportService(failing, Settings{}, nil)

	_, err := svc.ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected append failure")

	logs, err := f.repos.DayLogs.GetRange(ctx, "2024-03-01", "2024-03-02")
	require.NoError(t, err)
	for _, l := range logs {
		assert.Empty(t, l.Sessions, "%s rolled back", l.Date)
	}
	names, err := f.repos.Activities.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestImportBackup_FromFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := testutil.At(2024, 3, 1, 9, 0).UTC().Format(time.RFC3339)
	end := testutil.At(2024, 3, 1, 9, 45).UTC().Format(time.RFC3339)
	doc, err := json.Marshal(map[string]any{
		"activity_log_2024-03-01": map[string]any{
			"date":     "2024-03-01",
			"sessions": []map[string]string{{"start": start, "end": end, "activity": "Work"}},
		},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	res, err := newImporter(f).ImportBackup(ctx, path, app.ImportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sessions)

	_, err = newImporter(f).ImportBackup(ctx, filepath.Join(t.TempDir(), "missing.json"), app.ImportRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading backup file")
}

func TestImportBackup_KeepsSessionInstants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := newImporter(f).ImportBackupData(ctx, validBackup(), app.ImportRequest{})
	require.NoError(t, err)

	log, err := f.repos.DayLogs.Get(ctx, "2024-03-02")
	require.NoError(t, err)
	require.Len(t, log.Sessions, 1)
	want := domain.Session{
		Start:    testutil.At(2024, 3, 2, 11, 0),
		End:      testutil.At(2024, 3, 2, 11, 30),
		Activity: "Gym",
	}
	assert.True(t, want.Matches(log.Sessions[0]))
}
