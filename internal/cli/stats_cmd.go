package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/cli/formatter"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/spf13/cobra"
)

func newTodayCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's time per activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			res, err := a.statsUseCase().Today(cmd.Context(), app.TodayRequest{Now: &now})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToday(res))
			return nil
		},
	}
}

func newUsualCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "usual",
		Short: "Compare today against the usual day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			res, err := a.statsUseCase().Usual(cmd.Context(), app.UsualRequest{Now: &now})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsual(res))
			return nil
		},
	}
}

func newTrendsCmd(a *App) *cobra.Command {
	var scope scopeFlag
	var days, top int
	var pct bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show per-day trends for the top activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			res, err := a.statsUseCase().Trends(cmd.Context(), app.TrendRequest{
				Scope:  scope.scope,
				Window: days,
				TopN:   top,
				Now:    &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrends(res, pct))
			return nil
		},
	}

	cmd.Flags().Var(&scope, "scope", "Days to include: all, weekdays or weekends")
	cmd.Flags().IntVar(&days, "days", a.Settings.TrendDays, "Trailing days to include (0 for all)")
	cmd.Flags().IntVar(&top, "top", 0, "Activities to chart before grouping the rest as Other")
	cmd.Flags().BoolVar(&pct, "pct", false, "Show share of the day instead of minutes")

	return cmd
}

func newDayCmd(a *App) *cobra.Command {
	var merge, gaps bool
	var activity string

	cmd := &cobra.Command{
		Use:   "day [DATE]",
		Short: "List one day's sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			date := ""
			if len(args) == 1 {
				d, err := parseDate(args[0], now)
				if err != nil {
					return err
				}
				date = d
			}
			if strings.EqualFold(activity, domain.ActivityAll) {
				activity = ""
			}
			res, err := a.statsUseCase().DayView(cmd.Context(), app.DayViewRequest{
				Date:     date,
				Merge:    merge,
				ShowGaps: gaps,
				Activity: activity,
				Now:      &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayView(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Merge same-activity sessions separated by short gaps")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "Show untracked gaps between sessions")
	cmd.Flags().StringVar(&activity, "activity", "", "Only show this activity (All shows every session)")

	return cmd
}

func newActivityCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage activity names",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List known activity names",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityNames(a.Activities.Names(cmd.Context())))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Register an activity name",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := a.Activities.AddName(cmd.Context(), joinArgs(args))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityNames(names))
				return nil
			},
		},
	)

	return cmd
}
