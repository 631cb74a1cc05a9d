package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/cli/formatter"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/spf13/cobra"
)

// numberAliases are the short names accepted by "habit set".
var numberAliases = map[string]string{
	"weight": domain.FieldWeight,
	"wasted": domain.FieldWastedMin,
	"news":   domain.CounterNews,
	"music":  domain.CounterMusic,
	"jl":     domain.CounterJL,
}

func newHabitCmd(a *App) *cobra.Command {
	var dateFlag string

	resolveDate := func() (string, error) {
		return parseDate(dateFlag, a.now())
	}
	show := func(cmd *cobra.Command, res *app.HabitDayResponse) {
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHabitDay(res))
	}

	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Check off habits and record daily numbers",
	}
	cmd.PersistentFlags().StringVar(&dateFlag, "date", "", "Day to read or edit (default today)")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the habit checklist with streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate()
			if err != nil {
				return err
			}
			now := a.now()
			res, err := a.habitUseCase().Day(cmd.Context(), app.HabitDayRequest{Date: date, Now: &now})
			if err != nil {
				return err
			}
			show(cmd, res)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle NAME",
		Short: "Flip a habit's checkbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			habit, err := matchHabit(joinArgs(args), a.habitNames())
			if err != nil {
				return err
			}
			date, err := resolveDate()
			if err != nil {
				return err
			}
			res, err := a.habitUseCase().Toggle(cmd.Context(), date, habit)
			if err != nil {
				return err
			}
			show(cmd, res)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set weight, wasted minutes or an event counter",
		Long: "Set a numeric field for the day. KEY is one of weight, wasted, " +
			"news, music or jl (or the stored field name).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if alias, ok := numberAliases[strings.ToLower(key)]; ok {
				key = alias
			}
			value, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			date, err := resolveDate()
			if err != nil {
				return err
			}
			res, err := a.habitUseCase().SetNumber(cmd.Context(), date, key, value, a.now())
			if err != nil {
				return err
			}
			show(cmd, res)
			return nil
		},
	}

	study := &cobra.Command{
		Use:   "study KEY MINUTES",
		Short: "Set study minutes for BK, SD or AP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(strings.TrimSpace(args[0]))
			if !contains(domain.StudyKeys, key) {
				return fmt.Errorf("unknown study key %q (want %s)", args[0], strings.Join(domain.StudyKeys, ", "))
			}
			value, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			date, err := resolveDate()
			if err != nil {
				return err
			}
			res, err := a.habitUseCase().SetStudy(cmd.Context(), date, key, value)
			if err != nil {
				return err
			}
			show(cmd, res)
			return nil
		},
	}

	var startFlag string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Summarize study, waste and counters since the start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.habitSummary(cmd, startFlag)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHabitSummary(res))
			return nil
		},
	}
	summary.Flags().StringVar(&startFlag, "start", "", "First day to include (default the tracking start date)")

	weights := &cobra.Command{
		Use:   "weights",
		Short: "Show recorded weights and the overall change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.habitSummary(cmd, "")
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeights(res))
			return nil
		},
	}

	since := &cobra.Command{
		Use:   "since",
		Short: "Show minutes since each counted event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.habitUseCase().Since(cmd.Context(), a.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSince(res))
			return nil
		},
	}

	cmd.AddCommand(list, toggle, set, study, summary, weights, since)
	return cmd
}

func (a *App) habitSummary(cmd *cobra.Command, start string) (*app.HabitSummaryResponse, error) {
	now := a.now()
	if start != "" {
		d, err := parseDate(start, now)
		if err != nil {
			return nil, err
		}
		start = d
	}
	return a.habitUseCase().Summary(cmd.Context(), app.HabitSummaryRequest{Start: start, Now: &now})
}

func (a *App) habitNames() []string {
	if len(a.Settings.Habits) > 0 {
		return a.Settings.Habits
	}
	return domain.DefaultHabits
}

// matchHabit resolves a habit name case-insensitively against the
// configured list.
func matchHabit(name string, habits []string) (string, error) {
	for _, h := range habits {
		if strings.EqualFold(h, name) {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown habit %q", name)
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
