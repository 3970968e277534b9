package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/view"
)

// itemRows are the catalog sorted by name and filtered by the search term.
func (m Model) itemRows() []inventory.Item {
	return view.FilterItems(view.SortByName(m.snapshot.Items), m.items.term())
}

func (m Model) selectedItem() (inventory.Item, bool) {
	rows := m.itemRows()
	if len(rows) == 0 {
		return inventory.Item{}, false
	}
	return rows[clampSelection(m.items.selected, len(rows))], true
}

func (m Model) handleItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.itemRows()
	switch {
	case key.Matches(msg, m.keys.Export):
		exporter := m.exporter
		return m, exportCmd(func() (string, error) { return exporter.Items(rows) })

	case key.Matches(msg, m.keys.Add):
		if m.submitting || !m.requireAdmin() {
			return m, nil
		}
		return m.openItemForm(nil)

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.selectedItem()
		if !ok || m.submitting || !m.requireAdmin() {
			return m, nil
		}
		return m.openItemForm(&item)

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.selectedItem()
		if !ok || m.submitting || !m.requireAdmin() {
			return m, nil
		}
		ctx, mut := m.ctx, m.mutator
		m.modal = confirmModal{
			title:   "Delete item",
			body:    fmt.Sprintf("Delete %q?", item.Name),
			warning: "Transactions that mention this item are kept and still show its name.",
			onConfirm: func() tea.Cmd {
				return mutationCmd(ctx, targetList, "Item deleted", func(ctx context.Context) error {
					return mut.DeleteItem(ctx, item.ID)
				})
			},
		}
		return m, nil
	}
	m.items.navigate(msg, m.keys, len(rows), m.contentHeight()/2)
	return m, nil
}

func (m Model) renderItems(height int) string {
	styles := m.theme.Styles()
	if msg, ok := m.loadingMessage(styles); ok {
		return msg
	}

	rows := m.itemRows()
	status := styles.MutedText.Render(fmt.Sprintf("%d of %d items", len(rows), len(m.snapshot.Items)))
	searchLine := m.searchLine(&m.items, status)

	cols := []tableColumn{
		{title: "Item Name", width: 28},
		{title: "Unit", width: 6},
		{title: "Alt Unit", width: 8},
		{title: "Conversion", width: 18},
		{title: "Alert Qty", width: 9, align: alignRight},
	}
	if m.width >= LayoutCompactWidth {
		cols = append(cols, tableColumn{title: "In Stock", width: 14, align: alignRight})
	}

	tableRows := make([]tableRow, len(rows))
	for i, item := range rows {
		alt := view.Placeholder
		if item.HasAltUnit() {
			alt = string(item.AltUnit)
		}
		cells := []string{
			item.Name,
			string(item.Unit),
			alt,
			view.FormatConversion(item),
			strconv.Itoa(item.AlertQty),
		}
		if len(cols) > 5 {
			cells = append(cells, view.FormatQuantity(item))
		}
		tableRows[i] = tableRow{cells: cells, danger: view.IsLow(item)}
	}

	body := m.emptyOr(len(rows), "No items match", func() string {
		return renderTable(styles, cols, tableRows, m.items.selected, height-1, m.width)
	})
	return searchLine + "\n" + body
}
