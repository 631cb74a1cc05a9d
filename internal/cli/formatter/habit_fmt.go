package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/domain"
)

// FormatHabitDay renders the checklist, streaks and numeric fields of one day.
func FormatHabitDay(res *app.HabitDayResponse) string {
	rows := make([][]string, 0, len(res.Habits))
	for _, h := range res.Habits {
		streak := res.Streaks[h]
		streakText := Dim("-")
		if streak > 0 {
			streakText = StyleYellow.Render(fmt.Sprintf("%dd", streak))
		}
		rows = append(rows, []string{Check(res.Day.Done(h)), h, streakText})
	}

	var out strings.Builder
	out.WriteString(RenderTable([]string{"", "HABIT", "STREAK"}, rows, 2))
	out.WriteString("\n")

	d := res.Day
	fields := []string{
		field("weight", optional(d.Weight, "%.1f")),
		field("wasted", optional(d.WastedMin, "%.0fm")),
	}
	if delta, ok := d.EffectiveWasteDelta(); ok {
		fields = append(fields, field("waste delta", DeltaStyle(-delta).Render(fmt.Sprintf("%+.0fm", delta))))
	}
	out.WriteString(strings.Join(fields, "  ") + "\n")

	study := make([]string, 0, len(domain.StudyKeys))
	for _, k := range domain.StudyKeys {
		study = append(study, field(k, Minutes(d.StudyMinutes(k))))
	}
	out.WriteString(strings.Join(study, "  ") + "\n")

	counters := make([]string, 0, len(domain.CounterKeys))
	for _, k := range domain.CounterKeys {
		v, _ := d.Counter(k)
		counters = append(counters, field(k, fmt.Sprintf("%.0f", v)))
	}
	out.WriteString(strings.Join(counters, "  ") + "\n")

	title := "Habits " + res.Date
	if res.Vacation {
		title += " (vacation)"
	}
	return RenderBox(title, out.String())
}

// FormatHabitSummary renders study, waste and counter aggregates.
func FormatHabitSummary(res *app.HabitSummaryResponse) string {
	a := res.Aggregate
	rows := [][]string{
		{domain.StudyBK, Minutes(a.BK), Minutes(a.AvgBKPerDay)},
		{domain.StudySD, Minutes(a.SD), Minutes(a.AvgSDPerDay)},
		{domain.StudyAP, Minutes(a.AP), Minutes(a.AvgAPPerDay)},
		{Bold("Study"), Bold(Minutes(a.TotalStudy)), Minutes(a.AvgTotalStudyPerDay)},
		{"Wasted", Minutes(a.TotalWaste), Minutes(a.AvgWastePerDay)},
		{"News", fmt.Sprintf("%.0f", a.TotalNewsAccess), fmt.Sprintf("%.1f", a.AvgNewsPerDay)},
		{"Music", fmt.Sprintf("%.0f", a.TotalMusicListen), fmt.Sprintf("%.1f", a.AvgMusicPerDay)},
		{"JL", fmt.Sprintf("%.0f", a.TotalJL), fmt.Sprintf("%.1f", a.AvgJLPerDay)},
	}

	var out strings.Builder
	out.WriteString(RenderTable([]string{"", "TOTAL", "PER DAY"}, rows, 1, 2))
	fmt.Fprintf(&out, "\n%s %s  %s %s\n",
		Dim("Days observed"), Bold(fmt.Sprint(a.DaysObserved)),
		Dim("waste vs limit"), DeltaStyle(-a.TotalWasteDelta).Render(fmt.Sprintf("%+.0fm", a.TotalWasteDelta)))
	if res.WeightChange != nil {
		fmt.Fprintf(&out, "%s %s", Dim("Weight"), formatWeightChange(res))
	}
	return RenderBox(fmt.Sprintf("Summary %s → %s", res.Start, res.End), out.String())
}

// FormatWeights renders the weight series with the overall change.
func FormatWeights(res *app.HabitSummaryResponse) string {
	if len(res.Weights) == 0 {
		return RenderBox("Weight", EmptyState("No weights recorded."))
	}
	rows := make([][]string, 0, len(res.Weights))
	for _, w := range res.Weights {
		rows = append(rows, []string{w.Date, fmt.Sprintf("%.1f", w.Weight)})
	}
	out := RenderTable([]string{"DATE", "WEIGHT"}, rows, 1)
	if res.WeightChange != nil {
		out += "\n" + formatWeightChange(res)
	}
	return RenderBox("Weight", out)
}

func formatWeightChange(res *app.HabitSummaryResponse) string {
	wc := res.WeightChange
	text := fmt.Sprintf("%+.1f", wc.Diff)
	if wc.Pct != nil {
		text += fmt.Sprintf(" (%+.1f%%)", *wc.Pct)
	}
	return DeltaStyle(-wc.Diff).Render(text) + "\n"
}

// FormatSince renders minutes since each counted event.
func FormatSince(res *app.SinceResponse) string {
	var b strings.Builder
	for _, k := range domain.CounterKeys {
		b.WriteString(field(k, sinceText(res.ByCounter[k])) + "\n")
	}
	b.WriteString(field("any", sinceText(res.Any)) + "\n")
	return b.String()
}

func sinceText(m *int) string {
	if m == nil {
		return Dim("never")
	}
	return Minutes(float64(*m)) + " ago"
}

// FormatVacations renders the vacation date list.
func FormatVacations(days []string) string {
	if len(days) == 0 {
		return EmptyState("No vacation days.")
	}
	var b strings.Builder
	for _, d := range days {
		b.WriteString(StylePurple.Render("✈ ") + d + "\n")
	}
	return b.String()
}

func field(label, value string) string {
	return Dim(label+":") + " " + value
}

func optional(v *float64, format string) string {
	if v == nil {
		return Dim("-")
	}
	return fmt.Sprintf(format, *v)
}
