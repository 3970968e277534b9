package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type align int

const (
	alignLeft align = iota
	alignRight
)

// tableColumn describes one column of a list view.
type tableColumn struct {
	title string
	width int
	align align
}

// tableRow is one rendered row. tone, when set, colors the cell at toneCol.
type tableRow struct {
	cells   []string
	tone    string
	toneCol int
	danger  bool // whole row in the danger color
}

// renderTable draws a header and the rows that fit in height, keeping the
// selected row visible.
func renderTable(styles Styles, cols []tableColumn, rows []tableRow, selected, height, width int) string {
	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = fitCell(c.title, c)
	}
	b.WriteString(styles.ColumnHeader.Render(truncateLine(strings.Join(header, " "), width)))
	b.WriteString("\n")

	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
	}

	for i := start; i < end; i++ {
		row := rows[i]
		cells := make([]string, len(cols))
		for j, c := range cols {
			value := ""
			if j < len(row.cells) {
				value = row.cells[j]
			}
			cells[j] = fitCell(value, c)
		}

		if i == selected {
			line := padRight(truncateLine(strings.Join(cells, " "), width), width)
			b.WriteString(styles.Selected.Render(line))
		} else {
			base := styles.Text
			if row.danger {
				base = styles.DangerText
			}
			rendered := make([]string, len(cells))
			for j, cell := range cells {
				style := base
				if row.tone != "" && j == row.toneCol {
					style = styles.Tone(row.tone)
				}
				rendered[j] = style.Render(cell)
			}
			b.WriteString(strings.Join(rendered, " "))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func fitCell(value string, c tableColumn) string {
	value = truncate(value, c.width)
	if c.align == alignRight {
		return padLeft(value, c.width)
	}
	return padRight(value, c.width)
}

func truncateLine(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	return truncate(line, width)
}

// clampSelection keeps selected inside [0, n).
func clampSelection(selected, n int) int {
	if n == 0 || selected < 0 {
		return 0
	}
	if selected >= n {
		return n - 1
	}
	return selected
}
