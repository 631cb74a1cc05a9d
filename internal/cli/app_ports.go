package cli

import (
	"time"

	"github.com/alexanderramin/daybook/internal/app"
)

func (a *App) loggerUseCase() app.LoggerUseCase {
	return a.Logger
}

func (a *App) statsUseCase() app.ActivityStatsUseCase {
	return a.Activities
}

func (a *App) habitUseCase() app.HabitUseCase {
	return a.Habits
}

func (a *App) importUseCase() app.ImportBackupUseCase {
	return a.Importer
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) activityPicker() func(names []string) (string, error) {
	if a.PickActivity != nil {
		return a.PickActivity
	}
	return promptActivity
}
