package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockpile/internal/dispatch"
	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/quickadd"
)

// fieldMove reports how a key moves focus inside a form: -1, +1, or 0 for
// none. submit is true for ctrl+s, or enter on the last editable field.
func (m Model) fieldMove(msg tea.KeyMsg, f *form) (dir int, submit bool) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return 0, true
	case key.Matches(msg, m.keys.Confirm):
		if f.lastEditable() {
			return 0, true
		}
		return 1, false
	case key.Matches(msg, m.keys.NextField):
		return 1, false
	case key.Matches(msg, m.keys.PrevField):
		return -1, false
	}
	return 0, false
}

func (m Model) refreshCmd() tea.Cmd {
	if m.cache == nil {
		return nil
	}
	return fetchSnapshotCmd(m.cache)
}

func (m *Model) requireAdmin() bool {
	if m.session.IsAdmin() {
		return true
	}
	m.setToast("Only admins can change records", true)
	return false
}

// Item form

func (m Model) openItemForm(item *inventory.Item) (tea.Model, tea.Cmd) {
	if item == nil {
		m.itemForm = newItemForm("Add item", dispatch.ItemDraft{}, "")
	} else {
		m.itemForm = newItemForm("Edit item", dispatch.DraftFromItem(*item), item.ID)
	}
	return m, m.itemForm.focus(0)
}

func (m Model) handleItemFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	f := m.itemForm
	if key.Matches(msg, m.keys.Escape) {
		m.itemForm = nil
		return m, nil
	}
	dir, submit := m.fieldMove(msg, &f.form)
	if submit {
		return m.submitItemForm()
	}
	if dir != 0 {
		return m, f.step(dir)
	}
	return m, f.updateFocused(msg)
}

func (m Model) submitItemForm() (tea.Model, tea.Cmd) {
	f := m.itemForm
	draft := f.draft()
	mut := m.mutator
	f.setError(nil)

	if f.editID == "" {
		m.submitting = true
		return m, mutationCmd(m.ctx, targetItemForm, "Item added", func(ctx context.Context) error {
			_, err := mut.AddItem(ctx, draft)
			return err
		})
	}

	item, err := draft.Item()
	if err != nil {
		f.setError(err)
		return m, nil
	}
	item.ID = f.editID
	m.submitting = true
	return m, mutationCmd(m.ctx, targetItemForm, "Item updated", func(ctx context.Context) error {
		_, err := mut.UpdateItem(ctx, item)
		return err
	})
}

// Transaction form

func (m Model) openTxnForm(row *inventory.Transaction, name string) (tea.Model, tea.Cmd) {
	catalog := m.catalog()
	if row == nil {
		m.txnForm = newTxnForm("Add transaction", dispatch.TransactionDraft{}, "", catalog)
	} else {
		m.txnForm = newTxnForm("Edit transaction", dispatch.DraftFromTransaction(*row, name), row.ID, catalog)
	}
	return m, m.txnForm.focus(0)
}

func (m Model) handleTxnFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.txnForm
	if f.nested != nil {
		return m.handleQuickAddKey(msg)
	}
	if m.submitting {
		return m, nil
	}
	if key.Matches(msg, m.keys.Escape) {
		m.txnForm = nil
		return m, nil
	}

	dir, submit := m.fieldMove(msg, &f.form)
	if submit {
		return m.submitTxnForm()
	}
	if dir != 0 {
		if f.focusedKey() == "itemName" && f.blurItem(m.catalog()) {
			return m, nil
		}
		return m, f.step(dir)
	}

	cmd := f.updateFocused(msg)
	switch f.focusedKey() {
	case "itemName":
		f.flow.Type(f.value("itemName"))
	case "quantity":
		f.recomputeAlt()
	case "type":
		f.applyType()
	}
	return m, cmd
}

func (m Model) submitTxnForm() (tea.Model, tea.Cmd) {
	f := m.txnForm
	catalog := m.catalog()
	f.setError(nil)

	if f.focusedKey() == "itemName" || f.item.Name != strings.TrimSpace(f.value("itemName")) {
		if f.blurItem(catalog) {
			return m, nil
		}
	}
	f.applyType()

	draft := f.draft()
	mut := m.mutator
	if f.editID == "" {
		m.submitting = true
		return m, mutationCmd(m.ctx, targetTxnForm, "Transaction recorded", func(ctx context.Context) error {
			_, err := mut.AddTransaction(ctx, draft)
			return err
		})
	}

	txn, err := draft.Transaction(catalog)
	if err != nil {
		f.setError(err)
		return m, nil
	}
	txn.ID = f.editID
	m.submitting = true
	return m, mutationCmd(m.ctx, targetTxnForm, "Transaction updated", func(ctx context.Context) error {
		_, err := mut.UpdateTransaction(ctx, txn)
		return err
	})
}

// handleQuickAddKey drives the nested item form of a transaction.
func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.txnForm
	n := f.nested

	if key.Matches(msg, m.keys.Escape) {
		f.flow.Cancel()
		f.nested = nil
		return m, f.focusKey("itemName")
	}
	if f.flow.State() == quickadd.CreatingItem {
		return m, nil
	}

	dir, submit := m.fieldMove(msg, &n.form)
	if submit {
		if err := f.flow.Submit(); err != nil {
			return m, nil
		}
		n.setError(nil)
		draft := n.draft()
		ctx, mut := m.ctx, m.mutator
		return m, func() tea.Msg {
			item, err := mut.AddItem(ctx, draft)
			return quickAddMsg{item: item, err: err}
		}
	}
	if dir != 0 {
		return m, n.step(dir)
	}
	return m, n.updateFocused(msg)
}

func (m Model) handleQuickAddResult(msg quickAddMsg) (tea.Model, tea.Cmd) {
	f := m.txnForm
	if msg.err != nil {
		if f != nil && f.nested != nil {
			f.flow.Failed(msg.err)
			f.nested.setError(msg.err)
			return m, nil
		}
		m.setToast("Quick add failed: "+msg.err.Error(), true)
		return m, nil
	}

	if f != nil && f.flow.Created(msg.item) {
		f.nested = nil
		f.merge(msg.item)
		f.flow.Resume()
		m.setToast("Item "+msg.item.Name+" added", false)
		return m, tea.Batch(f.focusKey("quantity"), m.refreshCmd())
	}

	// The nested form was cancelled after the server accepted the item.
	m.setToast("Item "+msg.item.Name+" was created", false)
	return m, m.refreshCmd()
}

// Date range form

func (m Model) handleRangeFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.rangeForm
	if key.Matches(msg, m.keys.Escape) {
		m.rangeForm = nil
		return m, nil
	}
	dir, submit := m.fieldMove(msg, &f.form)
	if submit {
		r, err := f.dateRange()
		if err != nil {
			f.setError(err)
			return m, nil
		}
		m.dateRange = r
		m.transactions.selected = 0
		m.rangeForm = nil
		return m, nil
	}
	if dir != 0 {
		return m, f.step(dir)
	}
	return m, f.updateFocused(msg)
}

// Results

func (m Model) handleMutationResult(msg mutationMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		switch msg.target {
		case targetItemForm:
			if m.itemForm != nil {
				m.itemForm.setError(msg.err)
			}
		case targetTxnForm:
			if m.txnForm != nil {
				m.txnForm.setError(msg.err)
			}
		}
		var vErr *dispatch.ValidationError
		if !errors.As(msg.err, &vErr) {
			m.setToast("Error: "+msg.err.Error(), true)
		}
		return m, nil
	}

	switch msg.target {
	case targetItemForm:
		m.itemForm = nil
	case targetTxnForm:
		m.txnForm = nil
	}
	m.setToast(msg.success, false)
	return m, m.refreshCmd()
}
