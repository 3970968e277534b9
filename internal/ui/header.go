package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockpile/internal/quickadd"
	"github.com/five82/stockpile/internal/view"
)

// renderHeader renders the status bar: sync state, counts and the session.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{bg.Render("stockpile", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("● OFFLINE", styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case snap.Loading():
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("● SYNC ERROR", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	if !snap.Loading() {
		kpis := view.ComputeKPIs(snap.Items)
		parts = append(parts,
			bg.Render("Items:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", kpis.Total), styles.Text),
		)
		lowStyle := styles.SuccessText
		if kpis.Low > 0 {
			lowStyle = styles.DangerText
		}
		parts = append(parts,
			bg.Render("Low:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", kpis.Low), lowStyle),
		)
	}

	if !compact && !snap.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render("Updated", styles.FaintText)+bg.Space()+
				bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText),
		)
	}

	if m.session.Valid() {
		who := bg.Render(m.session.Username, styles.Text)
		if m.session.IsAdmin() {
			who += bg.Space() + bg.Render("(admin)", styles.AccentText)
		}
		parts = append(parts, who)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the view tabs.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf(" %d %s ", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Render(label))
		}
	}
	bar := strings.Join(tabs, " ")
	theme := styles.FaintText.Render(m.theme.Name)
	gap := maxInt(m.width-lipgloss.Width(bar)-lipgloss.Width(theme)-1, 1)
	return bar + strings.Repeat(" ", gap) + theme
}

// renderFooter shows the latest toast or the key hints for the view.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	if m.toast.text != "" {
		style := styles.SuccessText
		if m.toast.isErr {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(style.Render(truncate(m.toast.text, maxInt(m.width-2, 10))))
	}
	return styles.Footer.Width(m.width).Render(truncate(m.hints(), maxInt(m.width-2, 10)))
}

func (m Model) hints() string {
	var hints []string
	switch {
	case m.modal != nil:
		return "y confirm · n cancel"
	case m.itemForm != nil, m.txnForm != nil, m.rangeForm != nil:
		return "tab next · shift+tab back · ctrl+s save · esc cancel"
	}
	switch m.currentView {
	case ViewDashboard:
		hints = []string{"/ search", "p priority", "x export"}
	case ViewItems:
		hints = []string{"/ search", "x export"}
		if m.session.IsAdmin() {
			hints = append(hints, "a add", "e edit", "d delete")
		}
	case ViewTransactions:
		hints = []string{"/ search", "r range", "c clear", "a add", "x export"}
		if m.session.IsAdmin() {
			hints = append(hints, "e edit", "d delete")
		}
	case ViewActivity:
		hints = []string{"/ filter", "g/G top/bottom"}
	}
	hints = append(hints, "T theme", "L logout", "? help", "q quit")
	return strings.Join(hints, " · ")
}

// placeCenter centers an overlay in the content area.
func (m Model) placeCenter(content string, height int) string {
	return lipgloss.Place(
		m.width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// renderTxnForm shows the nested quick-add form in place of its parent.
func (m Model) renderTxnForm() string {
	f := m.txnForm
	styles := m.theme.Styles()
	if f.nested != nil {
		creating := f.flow.State() == quickadd.CreatingItem
		note := styles.WarningText.Render(fmt.Sprintf("%q is not in the catalog. Add it to continue.", f.flow.Name()))
		return lipgloss.JoinVertical(lipgloss.Left, note, f.nested.view(styles, creating))
	}
	return f.view(styles, m.submitting)
}
