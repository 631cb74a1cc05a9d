package formatter

import (
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders a share of the day as a fixed-width bar. pct is a
// percentage in [0,100]; values outside are clamped.
func RenderBar(pct float64, width int, color func(string) string) string {
	pct = min(max(pct, 0), 100)
	if width < 2 {
		width = 2
	}

	filled := min(int(pct/100*float64(width)+0.5), width)
	bar := strings.Repeat(filledBlock, filled)
	if color != nil {
		bar = color(bar)
	}
	return bar + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// Sparkline renders one block per value, scaled against peak.
func Sparkline(values []float64, peak float64) string {
	const ticks = "▁▂▃▄▅▆▇█"
	levels := []rune(ticks)
	var b strings.Builder
	for _, v := range values {
		if peak <= 0 || v <= 0 {
			b.WriteRune(' ')
			continue
		}
		i := int(v / peak * float64(len(levels)-1))
		b.WriteRune(levels[min(max(i, 0), len(levels)-1)])
	}
	return b.String()
}
