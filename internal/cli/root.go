package cli

import (
	"time"

	"github.com/alexanderramin/daybook/internal/service"
	"github.com/alexanderramin/daybook/internal/vacation"
	"github.com/spf13/cobra"
)

// App holds references to all services used by CLI commands.
type App struct {
	Logger     service.LoggerService
	Activities service.ActivityService
	Habits     service.HabitService
	Importer   service.ImportService
	Vacations  *vacation.Calendar
	Settings   service.Settings

	ConfigFile string
	DataDir    string
	LogFile    string

	// Now replaces the wall clock; tests pin it.
	Now func() time.Time
	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool
	// PickActivity asks for an activity name when log gets none.
	PickActivity func(names []string) (string, error)
}

// NewRootCmd creates the top-level "daybook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "daybook",
		Short:         "Time tracker and habit log",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.Vacations != nil {
				app.Vacations.Load(cmd.Context())
			}
		},
	}

	root.AddCommand(
		newLogCmd(app),
		newUndoCmd(app),
		newStatusCmd(app),
		newTodayCmd(app),
		newUsualCmd(app),
		newTrendsCmd(app),
		newDayCmd(app),
		newActivityCmd(app),
		newHabitCmd(app),
		newVacationCmd(app),
		newImportCmd(app),
		newConfigCmd(app),
	)

	return root
}
