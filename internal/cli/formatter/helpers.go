package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	content = strings.TrimRight(content, "\n")
	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title))+"\n\n"+content) + "\n"
	}
	return boxStyle.Render(content) + "\n"
}

// Clock renders a local wall-clock time as 15:04.
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// HumanDate returns "Today", "Yesterday" or a short date for a date key.
func HumanDate(date string, now time.Time) string {
	switch date {
	case calendar.DateKey(now):
		return "Today"
	case calendar.AddDays(calendar.DateKey(now), -1):
		return "Yesterday"
	}
	t, err := calendar.ParseDateKey(date, now.Location())
	if err != nil {
		return date
	}
	return t.Format("Mon Jan 2, 2006")
}

// Minutes renders minutes as "1h 5m" or "35m".
func Minutes(m float64) string {
	return calendar.FormatHM(m)
}

// Pct renders a percentage with one decimal.
func Pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// EmptyState renders a dimmed placeholder line.
func EmptyState(msg string) string {
	return StyleDim.Render(msg) + "\n"
}
