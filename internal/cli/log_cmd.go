package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLogCmd(a *App) *cobra.Command {
	var minutes float64

	cmd := &cobra.Command{
		Use:   "log [ACTIVITY]",
		Short: "Log the time since the last stop as one activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := joinArgs(args)
			if name == "" {
				if !a.interactive() {
					return fmt.Errorf("activity name required")
				}
				picked, err := a.activityPicker()(a.Activities.Names(ctx))
				if err != nil {
					return err
				}
				name = picked
			}

			now := a.now()
			res, err := a.loggerUseCase().LogSince(ctx, app.LogRequest{
				Activity: name,
				Minutes:  minutes,
				Now:      &now,
			})
			if err != nil {
				var logErr *app.LogError
				if errors.As(err, &logErr) && logErr.Written > 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render(
						fmt.Sprintf("%d segment(s) were saved before the failure; run 'daybook undo' to remove them.", logErr.Written)))
				}
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLogResult(res))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&minutes, "minutes", "m", 0, "Cap the session at this many minutes from the last stop")

	return cmd
}

func newUndoCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Remove the sessions written by the last log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loggerUseCase().Undo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUndoResult(res))
			return nil
		},
	}
}

func newStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last stop and time since",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			res, err := a.loggerUseCase().Cursor(cmd.Context(), app.CursorRequest{Now: &now})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCursor(res))
			return nil
		},
	}
}

// joinArgs lets multi-word names be passed unquoted.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
