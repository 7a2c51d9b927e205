package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/views"
)

func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.History.Cursor = clampCursor(m.History.Cursor+1, len(m.History.Sessions))
	case "k", "up":
		m.History.Cursor = clampCursor(m.History.Cursor-1, len(m.History.Sessions))
	case "enter":
		if len(m.History.Sessions) == 0 {
			return m, nil
		}
		return m.openHistorySession(m.History.Sessions[m.History.Cursor].ID)
	case "d":
		if len(m.History.Sessions) == 0 {
			return m, nil
		}
		return m.deleteSession(m.History.Sessions[m.History.Cursor].ID)
	case "n":
		m.newSession()
		m = m.switchView(ViewChat)
		m.Status = StatusBar{Text: "nova sessão"}
	}
	return m, nil
}

func (m Model) openHistorySession(id string) (Model, tea.Cmd) {
	if err := m.openSession(id); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("abrir sessão falhou: %v", err), IsError: true}
		return m, nil
	}
	m = m.switchView(ViewChat)
	return m, nil
}

// deleteSession removes id. Deleting the active conversation starts a fresh one.
func (m Model) deleteSession(id string) (Model, tea.Cmd) {
	if m.svc.Chat == nil {
		return m, nil
	}
	list, err := m.svc.Chat.Sessions().Delete(m.svc.Ctx, id)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("apagar sessão falhou: %v", err), IsError: true}
		return m, nil
	}
	m.History.Sessions = list
	m.History.Cursor = clampCursor(m.History.Cursor, len(list))
	if id == m.Chat.SessionID {
		m.newSession()
	}
	m.Status = StatusBar{Text: "sessão apagada"}
	return m, nil
}

func (m *Model) refreshHistory() {
	if m.svc.Chat == nil {
		return
	}
	list, err := m.svc.Chat.Sessions().List(m.svc.Ctx)
	if err != nil {
		m.svc.Log.Warn("list sessions failed", "error", err)
		return
	}
	m.History.Sessions = list
	m.History.Cursor = clampCursor(m.History.Cursor, len(list))
}

func (m Model) renderHistoryView() string {
	return views.RenderHistoryPanel(views.HistoryPanelData{
		ListView: m.historyList.View(),
		Empty:    len(m.History.Sessions) == 0,
	})
}
