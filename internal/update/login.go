package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/auth"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/views"
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

func (m Model) handleLoginKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.Login.Register = !m.Login.Register
		m.Login.Err = ""
		m.focusLoginField(m.firstLoginField())
		return m, nil
	case "tab", "down":
		m.focusLoginField(m.nextLoginField(1))
		return m, nil
	case "shift+tab", "up":
		m.focusLoginField(m.nextLoginField(-1))
		return m, nil
	case "enter":
		if m.Login.Field != fieldPassword {
			m.focusLoginField(m.nextLoginField(1))
			return m, nil
		}
		return m.submitLogin()
	}

	in := m.loginInput(m.Login.Field)
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (Model, tea.Cmd) {
	if m.svc.Auth == nil {
		return m, nil
	}
	name := strings.TrimSpace(m.nameInput.Value())
	email := strings.TrimSpace(m.emailInput.Value())
	pass := m.passInput.Value()

	var (
		user model.UserProfile
		err  error
	)
	if m.Login.Register {
		user, err = m.svc.Auth.Register(m.svc.Ctx, name, email, pass)
	} else {
		user, err = m.svc.Auth.Login(m.svc.Ctx, email, pass)
	}
	if err != nil {
		m.Login.Err = auth.Message(err)
		m.passInput.SetValue("")
		return m, nil
	}
	m.Login = LoginState{}
	m.nameInput.SetValue("")
	m.emailInput.SetValue("")
	m.passInput.SetValue("")
	m.enterApp(user)
	m.Status = StatusBar{Text: "bem-vindo, " + user.Name}
	return m, nil
}

// enterApp loads everything scoped to the signed-in user and lands on the most recent session.
func (m *Model) enterApp(user model.UserProfile) {
	m.User = &user
	m.Chat = ChatState{Pending: make(map[string]bool)}
	m.MindMap = MindMapState{}
	m.History = HistoryState{}
	if m.svc.Chat != nil {
		id := m.svc.Chat.Resume(m.svc.Ctx)
		if err := m.openSession(id); err != nil {
			m.svc.Log.Warn("resume session failed", "session", id, "error", err)
			m.newSession()
		}
	}
	if m.svc.Ledger != nil {
		m.Stats = m.svc.Ledger.Stats(m.svc.Ctx)
	}
	m.refreshMaps()
	m.refreshHistory()
	m.CurrentView = ViewChat
	m.startCapture()
}

func (m Model) logout() Model {
	if m.svc.Auth != nil {
		if err := m.svc.Auth.Logout(m.svc.Ctx); err != nil {
			m.svc.Log.Warn("logout failed", "error", err)
		}
	}
	m.stopCapture()
	m.User = nil
	m.Stats = model.DefaultUserStats()
	m.Chat = ChatState{Pending: make(map[string]bool)}
	m.MindMap = MindMapState{}
	m.History = HistoryState{}
	m.Toast = nil
	m.ProgressionVisible = false
	m.Login = LoginState{}
	m.focusLoginField(fieldEmail)
	return m
}

func (m Model) firstLoginField() int {
	if m.Login.Register {
		return fieldName
	}
	return fieldEmail
}

func (m Model) nextLoginField(step int) int {
	first := m.firstLoginField()
	n := fieldPassword - first + 1
	return first + ((m.Login.Field-first+step)%n+n)%n
}

func (m *Model) focusLoginField(field int) {
	m.Login.Field = field
	for i, in := range []*textinput.Model{&m.nameInput, &m.emailInput, &m.passInput} {
		if i == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *Model) loginInput(field int) *textinput.Model {
	switch field {
	case fieldName:
		return &m.nameInput
	case fieldPassword:
		return &m.passInput
	default:
		return &m.emailInput
	}
}

func (m Model) renderLoginView() string {
	return views.RenderLoginScreen(views.LoginData{
		Register:  m.Login.Register,
		NameView:  m.nameInput.View(),
		EmailView: m.emailInput.View(),
		PassView:  m.passInput.View(),
		Error:     m.Login.Err,
	})
}
