package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
	"github.com/alexanderramin/daybook/internal/calendar"
)

// FormatLogResult renders the outcome of a log command.
func FormatLogResult(res *app.LogResult) string {
	if res.Status == app.LogSkipped {
		return StyleYellow.Render("Nothing logged") +
			Dim(fmt.Sprintf(" (no time since %s)", Clock(res.Start))) + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s–%s %s\n",
		StyleGreen.Render("✔ Logged"),
		ActivityStyle(res.Activity).Render(res.Activity),
		Clock(res.Start), Clock(res.End),
		Dim("("+Minutes(res.End.Sub(res.Start).Minutes())+")"))
	if len(res.Segments) > 1 {
		for _, s := range res.Segments {
			fmt.Fprintf(&b, "  %s %s–%s %s\n",
				Dim(calendar.DateKey(s.Start)), Clock(s.Start), Clock(s.End),
				Dim(Minutes(s.Minutes())))
		}
	}
	return b.String()
}

// FormatUndoResult renders the outcome of an undo command.
func FormatUndoResult(res *app.UndoResult) string {
	if res.Status == app.NothingToUndo {
		return EmptyState("Nothing to undo.")
	}
	var total float64
	for _, s := range res.Removed {
		total += s.Minutes()
	}
	activity := ""
	if len(res.Removed) > 0 {
		activity = res.Removed[0].Activity + " "
	}
	return fmt.Sprintf("%s %s%s\n%s %s\n",
		StyleYellow.Render("↺ Removed"), activity, Dim("("+Minutes(total)+")"),
		Dim("Last stop restored to"), res.RestoredStop.Format("2006-01-02 15:04"))
}

// FormatCursor renders the status command.
func FormatCursor(res *app.CursorResponse) string {
	undo := Dim("no")
	if res.UndoAvailable {
		undo = StyleGreen.Render("yes")
	}
	lines := []string{
		fmt.Sprintf("%s  %s", Dim("Last stop "), res.LastStop.Format("2006-01-02 15:04")),
		fmt.Sprintf("%s  %s", Dim("Untracked "), StyleYellow.Render(calendar.FormatElapsed(res.Now.Sub(res.LastStop)))),
		fmt.Sprintf("%s  %s", Dim("Undo      "), undo),
	}
	return RenderBox("Status", strings.Join(lines, "\n"))
}
