package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// barStyle colors a bar by how much of it is done.
func barStyle(ratio float64) lipgloss.Style {
	switch {
	case ratio >= 1:
		return StyleGreen
	case ratio >= 0.5:
		return StyleYellow
	case ratio > 0:
		return StyleRed
	default:
		return StyleDim
	}
}

func bar(ratio float64, width int) string {
	ratio = math.Max(0, math.Min(1, ratio))
	width = max(width, 2)
	filled := min(int(math.Round(ratio*float64(width))), width)
	return barStyle(ratio).Render(strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled))
}

// RenderProgress draws "[████░░░░]  50%" for a ratio between 0 and 1.
func RenderProgress(ratio float64, width int) string {
	ratio = math.Max(0, math.Min(1, ratio))
	return fmt.Sprintf("[%s] %3d%%", bar(ratio, width), int(math.Round(ratio*100)))
}

// RenderPercent draws a bar for a whole-number percentage.
func RenderPercent(pct int, width int) string {
	return RenderProgress(float64(pct)/100, width)
}

// RenderCount draws a bar for done out of total tasks followed by "done/total".
func RenderCount(done, total, width int) string {
	if total <= 0 {
		return Dim("görev yok")
	}
	return fmt.Sprintf("[%s] %s", bar(float64(done)/float64(total), width), Dim(fmt.Sprintf("%d/%d", done, total)))
}
