package cli

import (
	"fmt"

	"github.com/alexanderramin/daybook/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newVacationCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacation",
		Short: "Manage days excluded from streaks and averages",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List vacation days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVacations(a.Vacations.Days()))
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add DATE...",
		Short: "Mark days as vacation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			days := a.Vacations.Days()
			for _, arg := range args {
				d, err := parseDate(arg, now)
				if err != nil {
					return err
				}
				days = append(days, d)
			}
			saved, err := a.Vacations.Replace(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVacations(saved))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove DATE",
		Short: "Unmark a vacation day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0], a.now())
			if err != nil {
				return err
			}
			saved, err := a.Vacations.Remove(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVacations(saved))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every vacation day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Vacations.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVacations(nil))
			return nil
		},
	}

	cmd.AddCommand(list, add, remove, clearCmd)
	return cmd
}

func newConfigCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file, data directory and log file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("config"), a.ConfigFile)
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("data  "), a.DataDir)
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("log   "), a.LogFile)
			return nil
		},
	})

	return cmd
}
