package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

const colGap = "  "

// Table is a header row plus data rows, measured by visible width so
// styled cells line up.
type Table struct {
	Headers []string
	Rows    [][]string
	Align   []Align // per column; missing entries are left-aligned
}

// RenderTable renders a left-aligned table with a separator under the header.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

func (t Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	header := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = t.pad(StyleHeader.Render(h), lipgloss.Width(h), widths[i], i)
	}
	b.WriteString(joinRow(header))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	b.WriteString(joinRow(sep))

	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range cells {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = t.pad(cell, lipgloss.Width(cell), widths[i], i)
		}
		b.WriteString(joinRow(cells))
	}
	return b.String()
}

func (t Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

func (t Table) pad(cell string, visible, width, col int) string {
	fill := strings.Repeat(" ", max(width-visible, 0))
	if col < len(t.Align) && t.Align[col] == AlignRight {
		return fill + cell
	}
	return cell + fill
}

// joinRow drops the trailing padding of the last column.
func joinRow(cells []string) string {
	return strings.TrimRight(strings.Join(cells, colGap), " ") + "\n"
}
