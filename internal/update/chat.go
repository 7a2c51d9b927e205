package update

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sandeepkv93/mentord/internal/chat"
	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/scheduler"
	"github.com/sandeepkv93/mentord/internal/views"
)

// submitChat shows the user turn immediately and runs the mentor call off the update loop.
// Only one call per session may be in flight.
func (m Model) submitChat() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" || m.svc.Chat == nil {
		return m, nil
	}
	id := m.Chat.SessionID
	if m.Chat.Pending[id] {
		m.Status = StatusBar{Text: "aguarde a resposta do mentor"}
		return m, nil
	}

	history := append([]model.Message(nil), m.Chat.Messages...)
	m.Chat.Messages = append(history, model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	})
	m.Chat.Pending[id] = true
	m.chatInput.Reset()
	m.Status = StatusBar{}

	svc := m.svc.Chat
	ctx, timeout := m.svc.Ctx, m.cfg.AITimeout
	send := func() tea.Msg {
		callCtx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		reply, err := svc.Send(callCtx, id, history, text)
		return ChatReplyMsg{Reply: reply, Err: err}
	}
	return m, tea.Batch(send, m.loadingSpinner.Tick)
}

func (m Model) onChatReply(msg ChatReplyMsg) (Model, tea.Cmd) {
	reply := msg.Reply
	delete(m.Chat.Pending, reply.SessionID)
	if reply.Failure != nil {
		m.svc.Log.Warn("mentor reply failed", "session", reply.SessionID, "error", reply.Failure)
	}
	if msg.Err != nil {
		if len(reply.Messages) == 0 {
			m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: "falha ao salvar a sessão: " + msg.Err.Error(), IsError: true}
	}
	if reply.SessionID == m.Chat.SessionID && len(reply.Messages) > 0 {
		m.Chat.Messages = reply.Messages
	}
	m.refreshHistory()
	if reply.Notice == nil {
		return m, nil
	}
	return m.showToast(Toast{
		Points: reply.Notice.Points,
		Label:  reply.Notice.Label,
		Kind:   reply.Notice.Kind,
	})
}

// showToast replaces any visible toast. Expiry goes through the scheduler when there is one.
func (m Model) showToast(t Toast) (Model, tea.Cmd) {
	now := time.Now()
	t.Expires = toastDeadline(now, m.cfg.ToastDuration)
	m.toastSeq++
	m.Toast = &t
	if t.Points > 0 {
		m.notify("Recompensa", t.Label, "info")
	}
	if m.svc.Scheduler != nil {
		err := m.svc.Scheduler.Schedule(scheduler.Event{ID: toastEventID, Kind: scheduler.KindToastExpired, At: t.Expires})
		if err == nil {
			return m, nil
		}
		m.svc.Log.Warn("toast expiry not scheduled", "error", err)
	}
	seq := m.toastSeq
	return m, tea.Tick(t.Expires.Sub(now), func(time.Time) tea.Msg { return ToastExpiredMsg{Seq: seq} })
}

// openSession makes id the active conversation. Opening counts as activity for the streak.
func (m *Model) openSession(id string) error {
	if m.svc.Chat == nil {
		return nil
	}
	messages, err := m.svc.Chat.Open(m.svc.Ctx, id)
	if err != nil {
		return err
	}
	m.Chat.SessionID = id
	m.Chat.Messages = messages
	m.chatInput.Reset()
	m.chatViewport.GotoBottom()
	return nil
}

func (m *Model) newSession() {
	m.Chat.SessionID = chat.NewID()
	if m.svc.Chat != nil {
		m.Chat.Messages = []model.Message{m.svc.Chat.Greeting()}
	}
	m.chatInput.Reset()
}

func (m Model) renderChatView() string {
	return views.RenderChatPanel(views.ChatPanelData{
		Title:     chat.TitleFor(m.Chat.Messages),
		Viewport:  m.chatViewport.View(),
		InputView: m.chatInput.View(),
		Loading:   m.Chat.Pending[m.Chat.SessionID],
		Spinner:   m.loadingSpinner.View(),
	})
}

func (m Model) chatTranscript() string {
	data := make([]views.ChatMessageData, 0, len(m.Chat.Messages))
	for _, msg := range m.Chat.Messages {
		data = append(data, views.ChatMessageData{
			FromUser: msg.Role == model.RoleUser,
			Text:     msg.Text,
			IsError:  msg.IsError,
			Time:     msg.Timestamp.Format("15:04"),
		})
	}
	return views.RenderChatTranscript(data, m.chatViewport.Width-2)
}

func (m Model) renderToast() string {
	if m.Toast == nil {
		return ""
	}
	return views.RenderToast(views.ToastData{
		Points:  m.Toast.Points,
		Label:   m.Toast.Label,
		Extreme: m.Toast.Kind == gamification.SignalExtreme,
		Text:    m.Toast.Text,
	})
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
