package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
)

const barWidth = 20

// FormatToday renders today's per-activity breakdown.
func FormatToday(res *app.TodayResponse) string {
	b := res.Breakdown
	rows := make([][]string, 0, len(b.Rows))
	for _, r := range b.Rows {
		style := ActivityStyle(r.Activity)
		rows = append(rows, []string{
			style.Render(r.Activity),
			Minutes(r.Minutes),
			Pct(r.Pct),
			RenderBar(r.Pct, barWidth, func(s string) string { return style.Render(s) }),
		})
	}

	var out strings.Builder
	out.WriteString(RenderTable([]string{"ACTIVITY", "TIME", "SHARE", ""}, rows, 1, 2))
	fmt.Fprintf(&out, "\n%s %s  %s %s\n",
		Dim("Tracked"), Bold(Minutes(b.TotalTracked)),
		Dim("since midnight"), Minutes(b.SinceMidnight))
	return RenderBox("Today "+res.Date, out.String())
}

// FormatUsual renders today against the per-activity averages.
func FormatUsual(res *app.UsualResponse) string {
	s := res.Summary
	if s.DayCount == 0 {
		return RenderBox("Usual", EmptyState("No history since "+res.StartDate+"."))
	}

	rows := make([][]string, 0, len(s.Deltas))
	for _, d := range s.Deltas {
		style := DeltaStyle(d.Delta)
		rows = append(rows, []string{
			ActivityStyle(d.Activity).Render(d.Activity),
			Minutes(d.TodayM),
			Minutes(d.AvgM),
			style.Render(SignedMinutes(d.Delta, Minutes)),
			style.Render(fmt.Sprintf("%+.0f%%", d.DeltaPct)),
		})
	}

	var out strings.Builder
	out.WriteString(RenderTable([]string{"ACTIVITY", "TODAY", "USUAL", "DELTA", "%"}, rows, 1, 2, 3, 4))
	fmt.Fprintf(&out, "\n%s %s %s %d %s\n",
		Dim("Usual tracked per day"), Bold(Minutes(s.AvgTrackedPerDay)),
		Dim("over"), s.DayCount, Dim("days since "+res.StartDate))
	return RenderBox("Today vs usual", out.String())
}

// FormatTrends renders one sparkline row per chosen activity. With pct
// set the cells show each day's share instead of minutes.
func FormatTrends(res *app.TrendResponse, pct bool) string {
	r := res.Result
	if len(r.Days) == 0 {
		return RenderBox("Trends", EmptyState("No days in range."))
	}

	rows := make([][]string, 0, len(r.Series.Activities))
	for _, a := range r.Series.Activities {
		points := r.Series.ByActivity[a]
		values := make([]float64, len(points))
		var sum float64
		for i, p := range points {
			values[i] = p.M
			if pct {
				values[i] = p.Pct
			}
			sum += values[i]
		}
		peak := r.Series.MaxPerActivity[a]
		avg := Minutes(sum / float64(len(points)))
		if pct {
			peak = 100
			avg = Pct(sum / float64(len(points)))
		}
		style := ActivityStyle(a)
		rows = append(rows, []string{
			style.Render(a),
			style.Render(Sparkline(values, peak)),
			Minutes(r.WindowTotals[a]),
			avg,
		})
	}

	window := "all days"
	if res.Window > 0 {
		window = fmt.Sprintf("last %d days", res.Window)
	}
	title := fmt.Sprintf("Trends · %s · %s · top %d", res.Scope, window, res.TopN)
	body := RenderTable([]string{"ACTIVITY", r.Days[0].Date + " → " + r.Days[len(r.Days)-1].Date, "TOTAL", "AVG/DAY"}, rows, 2, 3)
	return RenderBox(title, body)
}

// FormatDayView renders a single day's sessions with optional gap rows.
func FormatDayView(res *app.DayViewResponse) string {
	if len(res.Items) == 0 {
		return RenderBox(res.Date, EmptyState("No sessions."))
	}

	rows := make([][]string, 0, len(res.Items))
	for _, it := range res.Items {
		if it.Gap {
			rows = append(rows, []string{"", Dim("· gap"), Dim(Minutes(it.GapMin))})
			continue
		}
		s := it.Session
		rows = append(rows, []string{
			Clock(s.Start) + "–" + Clock(s.End),
			ActivityStyle(s.Activity).Render(s.Activity),
			Minutes(s.Minutes()),
		})
	}

	var out strings.Builder
	out.WriteString(RenderTable([]string{"TIME", "ACTIVITY", "LENGTH"}, rows, 2))
	fmt.Fprintf(&out, "\n%s %s  %s %s\n",
		Dim("Total"), Bold(Minutes(res.TotalMin)),
		Dim("Activities"), strings.Join(res.Activities, ", "))
	return RenderBox(res.Date, out.String())
}

// FormatActivityNames renders the registered activity list.
func FormatActivityNames(names []string) string {
	if len(names) == 0 {
		return EmptyState("No activities yet.")
	}
	var b strings.Builder
	for _, n := range names {
		b.WriteString(ActivityStyle(n).Render("• "+n) + "\n")
	}
	return b.String()
}
