package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/view"
)

// dashboardRows are the items as displayed: filtered, then sorted by name or
// by safety gap.
func (m Model) dashboardRows() []inventory.Item {
	return view.Dashboard(m.snapshot.Items, m.dashboard.term(), m.priority)
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.dashboardRows()
	switch {
	case key.Matches(msg, m.keys.TogglePriority):
		m.priority = !m.priority
		m.dashboard.selected = 0
		return m, nil
	case key.Matches(msg, m.keys.Export):
		exporter := m.exporter
		return m, exportCmd(func() (string, error) { return exporter.Dashboard(rows) })
	}
	m.dashboard.navigate(msg, m.keys, len(rows), m.contentHeight()/2)
	return m, nil
}

func (m Model) renderDashboard(height int) string {
	styles := m.theme.Styles()
	if msg, ok := m.loadingMessage(styles); ok {
		return msg
	}

	kpis := view.ComputeKPIs(m.snapshot.Items)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.kpiCard("Total products", fmt.Sprintf("%d", kpis.Total), styles.AccentText),
		" ",
		m.kpiCard("Low stock", fmt.Sprintf("%d", kpis.Low), ternaryStyle(kpis.Low > 0, styles.DangerText, styles.SuccessText)),
	)

	order := "name"
	if m.priority {
		order = "priority"
	}
	rows := m.dashboardRows()
	status := styles.MutedText.Render(fmt.Sprintf("Sorted by %s · %d shown", order, len(rows)))
	searchLine := m.searchLine(&m.dashboard, status)

	cols := []tableColumn{
		{title: "Product Name", width: 30},
		{title: "Quantity", width: 14, align: alignRight},
		{title: "Alt Quantity", width: 14, align: alignRight},
		{title: "Status", width: 6},
	}
	if m.priority && m.width >= LayoutCompactWidth {
		cols = append(cols, tableColumn{title: "Gap", width: 10, align: alignRight})
	}

	tableRows := make([]tableRow, len(rows))
	for i, item := range rows {
		cells := []string{
			item.Name,
			view.FormatQuantity(item),
			view.FormatAltQuantity(item),
			view.Status(item),
		}
		if len(cols) > 4 {
			cells = append(cells, view.FormatDecimal(view.SafetyGap(item)))
		}
		tableRows[i] = tableRow{cells: cells, tone: view.Status(item), toneCol: 3}
	}

	used := lipgloss.Height(cards) + 1
	body := m.emptyOr(len(rows), "No products match", func() string {
		return renderTable(styles, cols, tableRows, m.dashboard.selected, height-used, m.width)
	})
	return strings.Join([]string{cards, searchLine, body}, "\n")
}

func (m Model) kpiCard(label, value string, tone lipgloss.Style) string {
	styles := m.theme.Styles()
	content := styles.MutedText.Render(label) + "\n" + tone.Bold(true).Render(value)
	return styles.Panel.Width(20).Render(content)
}

// searchLine shows the search box while typing, the active term otherwise.
func (m Model) searchLine(list *listState, status string) string {
	styles := m.theme.Styles()
	switch {
	case list.searching:
		return list.search.View()
	case list.term() != "":
		return styles.AccentText.Render("/ "+list.term()) + "  " + status
	}
	return status
}

// loadingMessage covers the first load, before any data exists.
func (m Model) loadingMessage(styles Styles) (string, bool) {
	if !m.snapshot.Loading() {
		return "", false
	}
	if m.snapshot.LastError != nil {
		return styles.DangerText.Render("Cannot reach the server: ") +
			styles.MutedText.Render(m.snapshot.LastError.Error()), true
	}
	return styles.WarningText.Render("Loading inventory..."), true
}

func (m Model) emptyOr(n int, empty string, render func() string) string {
	if n == 0 {
		return m.theme.Styles().FaintText.Render(empty)
	}
	return render()
}

func ternaryStyle(cond bool, a, b lipgloss.Style) lipgloss.Style {
	if cond {
		return a
	}
	return b
}
