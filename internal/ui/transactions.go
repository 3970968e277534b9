package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockpile/internal/view"
)

// ledgerRows are the transactions newest first, filtered by term and range.
func (m Model) ledgerRows() []view.LedgerRow {
	return view.Ledger(m.snapshot.Transactions, m.transactions.term(), m.dateRange, m.catalog())
}

func (m Model) selectedLedgerRow() (view.LedgerRow, bool) {
	rows := m.ledgerRows()
	if len(rows) == 0 {
		return view.LedgerRow{}, false
	}
	return rows[clampSelection(m.transactions.selected, len(rows))], true
}

func (m Model) handleTransactionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.ledgerRows()
	switch {
	case key.Matches(msg, m.keys.Export):
		exporter := m.exporter
		return m, exportCmd(func() (string, error) { return exporter.Transactions(rows) })

	case key.Matches(msg, m.keys.DateRange):
		m.rangeForm = newRangeForm(m.dateRange)
		return m, m.rangeForm.focus(0)

	case key.Matches(msg, m.keys.ClearFilters):
		m.dateRange = view.DateRange{}
		m.transactions.search.SetValue("")
		m.transactions.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Add):
		if m.submitting {
			return m, nil
		}
		return m.openTxnForm(nil, "")

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selectedLedgerRow()
		if !ok || m.submitting || !m.requireAdmin() {
			return m, nil
		}
		txn := row.Transaction
		return m.openTxnForm(&txn, row.Name)

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedLedgerRow()
		if !ok || m.submitting || !m.requireAdmin() {
			return m, nil
		}
		ctx, mut, id := m.ctx, m.mutator, row.ID
		m.modal = confirmModal{
			title: "Delete transaction",
			body: fmt.Sprintf("Delete %s %s %s of %s on %s?",
				row.Type, view.FormatDecimal(row.Quantity), row.Unit, row.Name, row.Date),
			warning: "Stock levels will not change unless the server recomputes them.",
			onConfirm: func() tea.Cmd {
				return mutationCmd(ctx, targetList, "Transaction deleted", func(ctx context.Context) error {
					return mut.DeleteTransaction(ctx, id)
				})
			},
		}
		return m, nil
	}
	m.transactions.navigate(msg, m.keys, len(rows), m.contentHeight()/2)
	return m, nil
}

func (m Model) renderTransactions(height int) string {
	styles := m.theme.Styles()
	if msg, ok := m.loadingMessage(styles); ok {
		return msg
	}

	rows := m.ledgerRows()
	parts := []string{fmt.Sprintf("%d of %d transactions", len(rows), len(m.snapshot.Transactions))}
	if !m.dateRange.IsZero() {
		parts = append(parts, "range "+formatRange(m.dateRange))
	}
	status := styles.MutedText.Render(strings.Join(parts, " · "))
	searchLine := m.searchLine(&m.transactions, status)

	cols := []tableColumn{
		{title: "Date", width: 10},
		{title: "Type", width: 4},
		{title: "Item", width: 24},
		{title: "Qty", width: 10, align: alignRight},
		{title: "Alt Qty", width: 10, align: alignRight},
		{title: "Rate", width: 10, align: alignRight},
	}
	if m.width >= LayoutWideWidth {
		cols = append(cols, tableColumn{title: "Remarks", width: maxInt(m.width-80, 10)})
	}

	tableRows := make([]tableRow, len(rows))
	for i, row := range rows {
		cells := []string{
			row.Date.String(),
			string(row.Type),
			row.Name,
			view.FormatDecimal(row.Quantity),
			view.FormatTxnAltQty(row.Transaction),
			view.FormatRate(row.Transaction),
		}
		if len(cols) > 6 {
			cells = append(cells, row.Remarks)
		}
		tableRows[i] = tableRow{cells: cells, tone: string(row.Type), toneCol: 1}
	}

	body := m.emptyOr(len(rows), "No transactions match", func() string {
		return renderTable(styles, cols, tableRows, m.transactions.selected, height-1, m.width)
	})
	return searchLine + "\n" + body
}

func formatRange(r view.DateRange) string {
	from, to := "…", "…"
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	return from + " to " + to
}
