package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks a yes/no question before a destructive action.
type confirmModal struct {
	title     string
	body      string
	warning   string
	onConfirm func() tea.Cmd
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Accept):
		var cmd tea.Cmd
		if c.onConfirm != nil {
			cmd = c.onConfirm()
		}
		return c, cmd, true
	case key.Matches(keyMsg, keys.Reject):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.body))
	if c.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningText.Render(c.warning))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y confirm · n cancel"))

	w := 56
	if width > 0 && width-4 < w {
		w = maxInt(width-4, 20)
	}
	return styles.Modal.BorderForeground(styles.DangerText.GetForeground()).Width(w).Render(b.String())
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	modal, cmd, closed := m.modal.Update(msg, m.keys)
	if !closed {
		m.modal = modal
		return m, cmd
	}
	m.modal = nil
	if cmd != nil {
		m.submitting = true
	}
	return m, cmd
}
