package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ActivityStyle colors synthetic rows apart from logged activities.
func ActivityStyle(activity string) lipgloss.Style {
	switch activity {
	case domain.ActivityUntracked:
		return StyleDim
	case domain.ActivityOther:
		return StylePurple
	default:
		return StyleBlue
	}
}

// DeltaStyle colors a change against the usual: more time is green,
// less is red, anything within a minute is dim.
func DeltaStyle(delta float64) lipgloss.Style {
	switch {
	case delta >= 1:
		return StyleGreen
	case delta <= -1:
		return StyleRed
	default:
		return StyleDim
	}
}

// SignedMinutes renders a delta like "+1h 5m" or "-20m".
func SignedMinutes(delta float64, format func(float64) string) string {
	if delta < 0 {
		return "-" + format(-delta)
	}
	return "+" + format(delta)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Check renders a habit checkbox.
func Check(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}
