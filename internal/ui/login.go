package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/session"
)

// loginForm is the sign-in screen shown while no session is persisted.
type loginForm struct {
	inputs     [2]textinput.Model // username, password
	focusIdx   int
	err        string
	submitting bool
}

func newLoginForm(username string) loginForm {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	user.CharLimit = 64
	user.SetValue(username)

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	f := loginForm{inputs: [2]textinput.Model{user, pass}}
	if strings.TrimSpace(username) != "" {
		f.focus(1)
	} else {
		f.focus(0)
	}
	return f
}

func (f *loginForm) focus(idx int) tea.Cmd {
	f.focusIdx = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f loginForm) credentials() inventory.Credentials {
	return inventory.Credentials{
		Username: f.inputs[0].Value(),
		Password: f.inputs[1].Value(),
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		return m, m.login.focus(1 - m.login.focusIdx)
	case tea.KeyEnter:
		if m.login.focusIdx == 0 {
			return m, m.login.focus(1)
		}
		return m.submitLogin()
	}
	var cmd tea.Cmd
	idx := m.login.focusIdx
	m.login.inputs[idx], cmd = m.login.inputs[idx].Update(msg)
	m.login.err = ""
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	creds := m.login.credentials()
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		m.login.err = session.ErrMissingCredentials.Error()
		return m, nil
	}
	if m.auth == nil {
		m.login.err = "no server configured"
		return m, nil
	}
	m.login.submitting = true
	m.login.err = ""
	ctx, auth := m.ctx, m.auth
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoginTimeout)
		defer cancel()
		s, err := session.Login(ctx, auth, creds)
		return loginMsg{session: s, err: err}
	}
}

func (m Model) handleLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		m.logger.Info("login failed", zap.Error(msg.err))
		m.login.err = msg.err.Error()
		m.login.inputs[1].SetValue("")
		return m, m.login.focus(1)
	}
	m.session = msg.session
	m.login = newLoginForm(msg.session.Username)
	m.savePrefs()
	m.logger.Info("signed in", zap.String("username", msg.session.Username), zap.String("role", msg.session.Role))
	m.setToast("Signed in as "+msg.session.Username, false)
	var cmd tea.Cmd
	if m.cache != nil {
		cmd = fetchSnapshotCmd(m.cache)
	}
	return m, cmd
}

// renderLogin renders the centered sign-in card.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("stockpile"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Sign in to manage inventory"))
	b.WriteString("\n\n")

	labels := [2]string{"Username", "Password"}
	for i, in := range m.login.inputs {
		label := styles.MutedText
		if i == m.login.focusIdx {
			label = styles.AccentText
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.login.submitting:
		b.WriteString(styles.WarningText.Render("Signing in..."))
	case m.login.err != "":
		b.WriteString(styles.DangerText.Render(m.login.err))
	default:
		b.WriteString(styles.FaintText.Render("enter to sign in · esc to quit"))
	}

	card := styles.Modal.Width(44).Render(b.String())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		card,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
