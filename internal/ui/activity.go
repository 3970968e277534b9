package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockpile/internal/logtail"
)

func (a *activityState) resize(width, height int) {
	a.viewport.Width = width
	a.viewport.Height = maxInt(height-1, 1)
}

// apply stores a fresh tail, following the end of the log when the view
// was already at the bottom.
func (a *activityState) apply(msg activityMsg, theme Theme) {
	a.err = msg.err
	if msg.err != nil {
		return
	}
	follow := !a.loaded || a.viewport.AtBottom()
	a.entries = msg.entries
	a.loaded = true
	a.render(theme)
	if follow {
		a.viewport.GotoBottom()
	}
}

// visible returns the entries matching the filter box.
func (a *activityState) visible() []logtail.Entry {
	term := a.list.term()
	if term == "" {
		return a.entries
	}
	out := make([]logtail.Entry, 0, len(a.entries))
	for _, e := range a.entries {
		if e.Matches(term) {
			out = append(out, e)
		}
	}
	return out
}

func (a *activityState) render(theme Theme) {
	styles := theme.Styles()
	entries := a.visible()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(styles, e))
	}
	a.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatEntry(styles Styles, e logtail.Entry) string {
	if e.Level == "" && e.Logger == "" {
		return styles.MutedText.Render(e.Message)
	}
	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.Local().Format("15:04:05")
	}
	level := styles.InfoText
	switch e.Level {
	case "WARN":
		level = styles.WarningText.Bold(true)
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		level = styles.DangerText
	case "DEBUG":
		level = styles.FaintText
	}
	parts := []string{
		styles.FaintText.Render(ts),
		level.Render(padRight(e.Level, 5)),
		styles.AccentText.Render(padRight(strings.TrimPrefix(e.Logger, "stockpile."), 9)),
		styles.Text.Render(e.Message),
	}
	if fields := e.FieldList(); fields != "" {
		parts = append(parts, styles.MutedText.Render(fields))
	}
	return strings.Join(parts, " ")
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.activity.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.activity.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.activity.viewport, cmd = m.activity.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderActivity(height int) string {
	styles := m.theme.Styles()
	a := m.activity

	var status string
	switch {
	case m.logPath == "":
		return styles.FaintText.Render("Logging is disabled; set log_path to record activity.")
	case a.err != nil:
		status = styles.DangerText.Render("Cannot read log: ") + styles.MutedText.Render(a.err.Error())
	case !a.loaded:
		status = styles.WarningText.Render("Reading log...")
	default:
		status = styles.MutedText.Render(truncate(m.logPath, maxInt(m.width-30, 10)))
	}
	searchLine := m.searchLine(&m.activity.list, status)

	if a.loaded && len(a.visible()) == 0 {
		return searchLine + "\n" + styles.FaintText.Render("No activity recorded yet")
	}
	return lipgloss.JoinVertical(lipgloss.Left, searchLine, a.viewport.View())
}
