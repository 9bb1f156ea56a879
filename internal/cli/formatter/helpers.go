package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/studyplan/internal/domain"
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

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDay describes day relative to today.
func RelativeDay(day, today domain.Day) string {
	days := int(day.Time().Sub(today.Time()).Hours() / 24)

	switch {
	case days == 0:
		return "Bugün"
	case days == 1:
		return "Yarın"
	case days == -1:
		return "Dün"
	case days > 0:
		return fmt.Sprintf("%d gün sonra", days)
	default:
		return fmt.Sprintf("%d gün önce", -days)
	}
}

// Timestamp renders t in local time, or "--" for the zero value.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatSeconds renders a timer duration as "15 dk" or "1 sa 30 dk".
func FormatSeconds(sec int) string {
	if sec <= 0 {
		return "0 dk"
	}
	min := (sec + 59) / 60
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%d sa %d dk", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%d sa", h)
	}
	return fmt.Sprintf("%d dk", m)
}

// FormatNet renders an exam net with at most two decimals.
func FormatNet(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s
}

// Truncate shortens s to max visible runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
