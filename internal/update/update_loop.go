package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/scheduler"
	"github.com/sandeepkv93/mentord/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStatsCmd(m.statsCh)}
	if m.svc.Scheduler != nil {
		cmds = append(cmds, waitForSchedulerCmd(m.svc.Scheduler.C()))
	}
	if m.Timer.State == model.TimerRunning {
		cmds = append(cmds, timerTickCmd(m.cfg.TickInterval, m.tickSeq))
		m.scheduleDeadline()
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.loadingSpinner, cmd = m.loadingSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case StatsChangedMsg:
		if m.svc.Ledger != nil {
			m.Stats = m.svc.Ledger.Stats(m.svc.Ctx)
		}
		return m, waitForStatsCmd(m.statsCh)
	case ChatReplyMsg:
		return m.onChatReply(typed)
	case MindMapResultMsg:
		return m.onMindMapResult(typed)
	case TimerTickMsg:
		return m.onTimerTick(typed)
	case SchedulerEventMsg:
		var cmd tea.Cmd
		switch typed.Event.Kind {
		case scheduler.KindTimerDeadline:
			m = m.onDeadline()
		case scheduler.KindToastExpired:
			m.Toast = nil
		}
		if m.svc.Scheduler != nil {
			cmd = waitForSchedulerCmd(m.svc.Scheduler.C())
		}
		return m, cmd
	case ToastExpiredMsg:
		if typed.Seq == m.toastSeq {
			m.Toast = nil
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) && m.User != nil {
			m = m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Erro", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.User == nil {
		return m.handleLoginKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.ProgressionVisible {
		if keyStr == m.Keys.Progression || keyStr == "esc" {
			m.ProgressionVisible = false
		}
		return m, nil
	}
	if m.Capture {
		return m.handleCaptureKey(msg)
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "paleta de comandos ativa"}
		return m, nil
	case m.Keys.Chat:
		return m.switchView(ViewChat), nil
	case m.Keys.MindMap:
		return m.switchView(ViewMindMap), nil
	case m.Keys.Execution:
		return m.switchView(ViewExecution), nil
	case m.Keys.History:
		return m.switchView(ViewHistory), nil
	case m.Keys.Progression:
		m.ProgressionVisible = true
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "i":
		if m.CurrentView == ViewChat || m.CurrentView == ViewMindMap {
			m.startCapture()
			return m, nil
		}
	}

	switch m.CurrentView {
	case ViewExecution:
		return m.handleExecutionKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	case ViewMindMap:
		return m.handleMindMapKey(msg)
	}
	return m, nil
}

// handleCaptureKey routes keys to the focused input. Esc leaves capture mode and enter submits.
func (m Model) handleCaptureKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopCapture()
		return m, nil
	case "enter":
		switch {
		case m.CurrentView == ViewChat:
			return m.submitChat()
		case m.CurrentView == ViewMindMap:
			return m.submitTopic()
		case m.CurrentView == ViewExecution && m.TaskEditing:
			return m.submitTask()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.CurrentView == ViewChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case m.CurrentView == ViewMindMap:
		m.topicInput, cmd = m.topicInput.Update(msg)
	case m.CurrentView == ViewExecution && m.TaskEditing:
		m.taskInput, cmd = m.taskInput.Update(msg)
	}
	return m, cmd
}

func (m Model) switchView(v View) Model {
	m.stopCapture()
	m.CurrentView = v
	switch v {
	case ViewChat, ViewMindMap:
		m.startCapture()
	case ViewHistory:
		m.refreshHistory()
	}
	return m
}

func (m *Model) startCapture() {
	m.Capture = true
	switch m.CurrentView {
	case ViewChat:
		m.chatInput.Focus()
	case ViewMindMap:
		m.topicInput.Focus()
	case ViewExecution:
		m.TaskEditing = true
		m.taskInput.SetValue(m.Timer.Task)
		m.taskInput.Focus()
	}
}

func (m *Model) stopCapture() {
	m.Capture = false
	m.TaskEditing = false
	m.chatInput.Blur()
	m.topicInput.Blur()
	m.taskInput.Blur()
}

func (m Model) busy() bool {
	return m.Chat.Pending[m.Chat.SessionID] || m.MindMap.Loading
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if m.User == nil {
		return m.renderLoginView()
	}

	status := ""
	if m.Status.Text != "" {
		status = m.Status.Text
	}

	main := ""
	switch m.CurrentView {
	case ViewChat:
		main = m.renderChatView()
	case ViewMindMap:
		main = m.renderMindMapView()
	case ViewExecution:
		main = m.renderExecutionView()
	case ViewHistory:
		main = m.renderHistoryView()
	}
	if palette := m.renderCommandPalette(); palette != "" {
		main += "\n" + palette
	}
	main += m.renderHelpIfVisible()

	overlay := ""
	if m.ProgressionVisible {
		overlay = m.renderProgressionView()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("mentord | %s | nível %d | %d pts", strings.ToLower(string(m.CurrentView)), m.Stats.Level, m.Stats.Points),
		Sidebar:    m.renderSidebar(),
		Main:       main,
		Overlay:    overlay,
		Toast:      m.renderToast(),
		StatusLine: status,
		StatusErr:  m.Status.IsError,
		Footer:     m.footer(),
	})
}

func (m Model) footer() string {
	if m.Capture {
		return "esc navegar | enter enviar | ctrl+c sair"
	}
	return fmt.Sprintf("keys: %s chat | %s mapa | %s execução | %s histórico | %s progressão | / cmd | %s ajuda | %s sair",
		m.Keys.Chat, m.Keys.MindMap, m.Keys.Execution, m.Keys.History, m.Keys.Progression, m.Keys.Help, m.Keys.Quit)
}

func isKnownView(v View) bool {
	switch v {
	case ViewChat, ViewMindMap, ViewExecution, ViewHistory:
		return true
	default:
		return false
	}
}
