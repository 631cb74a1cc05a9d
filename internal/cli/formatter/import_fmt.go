package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/app"
)

// FormatImportResult renders the counts of a backup import.
func FormatImportResult(res *app.ImportResult) string {
	title := "Import"
	if res.DryRun {
		title = "Import (dry run)"
	}

	lines := []string{
		field("Sessions", fmt.Sprintf("%d on %d day(s)", res.Sessions, res.Days)),
		field("Habit days", fmt.Sprintf("%d", res.HabitDays)),
		field("Activities", fmt.Sprintf("%d", res.Activities)),
	}
	if res.SkippedSessions > 0 || res.SkippedHabitDays > 0 {
		lines = append(lines, field("Skipped", Dim(fmt.Sprintf("%d session(s), %d habit day(s) already stored",
			res.SkippedSessions, res.SkippedHabitDays))))
	}
	if res.LastStop != nil {
		lines = append(lines, field("Last stop", res.LastStop.Format("2006-01-02 15:04")))
	}
	if len(res.Ignored) > 0 {
		lines = append(lines, field("Ignored", Dim(strings.Join(res.Ignored, ", "))))
	}
	return RenderBox(title, strings.Join(lines, "\n"))
}
