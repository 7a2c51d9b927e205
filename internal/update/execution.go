package update

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/scheduler"
	"github.com/sandeepkv93/mentord/internal/timer"
	"github.com/sandeepkv93/mentord/internal/views"
)

func (m Model) handleExecutionKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Timer.State == model.TimerRunning {
			return m.pauseTimer()
		}
		if m.Timer.Task == "" {
			m.startCapture()
			m.Status = StatusBar{Text: "defina a missão antes de iniciar"}
			return m, nil
		}
		return m.startTimer(0)
	case "r":
		return m.resetTimer(0)
	case "t":
		if m.Timer.State == model.TimerCompleted {
			return m, nil
		}
		m.startCapture()
		return m, nil
	case "y":
		return m.resolveTimer(true)
	case "n":
		return m.resolveTimer(false)
	}
	return m, nil
}

func (m Model) submitTask() (Model, tea.Cmd) {
	if m.svc.Timer == nil {
		m.stopCapture()
		return m, nil
	}
	if err := m.svc.Timer.SetTask(m.svc.Ctx, m.taskInput.Value()); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("salvar missão falhou: %v", err), IsError: true}
	}
	m.Timer = m.svc.Timer.Snapshot()
	m.stopCapture()
	if m.Timer.Task != "" {
		m.Status = StatusBar{Text: "missão definida: " + m.Timer.Task}
	}
	return m, nil
}

func (m Model) startTimer(seconds int) (Model, tea.Cmd) {
	if m.svc.Timer == nil {
		return m, nil
	}
	if err := m.svc.Timer.Start(m.svc.Ctx, seconds); err != nil {
		m.Status = StatusBar{Text: timerErrorText(err), IsError: true}
		return m, nil
	}
	m.Timer = m.svc.Timer.Snapshot()
	m.tickSeq++
	m.scheduleDeadline()
	m.Status = StatusBar{Text: "execução iniciada"}
	return m, timerTickCmd(m.cfg.TickInterval, m.tickSeq)
}

func (m Model) pauseTimer() (Model, tea.Cmd) {
	if m.svc.Timer == nil {
		return m, nil
	}
	if err := m.svc.Timer.Pause(m.svc.Ctx); err != nil {
		m.Status = StatusBar{Text: timerErrorText(err), IsError: true}
		return m, nil
	}
	m.tickSeq++
	m.cancelDeadline()
	m.Timer = m.svc.Timer.Snapshot()
	if m.Timer.State == model.TimerCompleted {
		m.onCompleted()
		return m, nil
	}
	m.Status = StatusBar{Text: "pausado"}
	return m, nil
}

func (m Model) resetTimer(seconds int) (Model, tea.Cmd) {
	if m.svc.Timer == nil {
		return m, nil
	}
	if err := m.svc.Timer.Reset(m.svc.Ctx, seconds); err != nil {
		m.Status = StatusBar{Text: timerErrorText(err), IsError: true}
		return m, nil
	}
	m.tickSeq++
	m.cancelDeadline()
	m.Timer = m.svc.Timer.Snapshot()
	m.Status = StatusBar{Text: "timer reiniciado"}
	return m, nil
}

func (m Model) resolveTimer(success bool) (Model, tea.Cmd) {
	if m.svc.Timer == nil || m.Timer.State != model.TimerCompleted {
		return m, nil
	}
	err := m.svc.Timer.Resolve(m.svc.Ctx, success)
	m.Timer = m.svc.Timer.Snapshot()
	if err != nil {
		m.Status = StatusBar{Text: timerErrorText(err), IsError: true}
		return m, nil
	}
	if !success {
		m.Status = StatusBar{Text: "sessão registrada sem pontos"}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("+%d pontos: missão executada", gamification.TaskReward)}
	return m.showToast(Toast{Points: gamification.TaskReward, Label: "EXECUÇÃO CONFIRMADA"})
}

func (m Model) onTimerTick(msg TimerTickMsg) (Model, tea.Cmd) {
	if msg.Seq != m.tickSeq || m.svc.Timer == nil {
		return m, nil
	}
	if m.svc.Timer.Tick(m.svc.Ctx) {
		m.cancelDeadline()
		m.Timer = m.svc.Timer.Snapshot()
		m.onCompleted()
		return m, nil
	}
	m.Timer = m.svc.Timer.Snapshot()
	if m.Timer.State != model.TimerRunning {
		return m, nil
	}
	return m, timerTickCmd(m.cfg.TickInterval, m.tickSeq)
}

// onDeadline handles the scheduler firing at the countdown end. The tick loop may already
// have completed the session; Tick only reports true once.
func (m Model) onDeadline() Model {
	if m.svc.Timer == nil {
		return m
	}
	if m.svc.Timer.Tick(m.svc.Ctx) {
		m.Timer = m.svc.Timer.Snapshot()
		m.onCompleted()
		return m
	}
	m.Timer = m.svc.Timer.Snapshot()
	return m
}

func (m *Model) onCompleted() {
	m.tickSeq++
	m.Status = StatusBar{Text: "tempo esgotado: você executou a missão? [y/n]"}
	m.notify("Modo Execução", "Tempo esgotado: "+m.Timer.Task, "info")
}

func (m *Model) scheduleDeadline() {
	if m.svc.Scheduler == nil || m.svc.Timer == nil {
		return
	}
	at, ok := m.svc.Timer.Deadline()
	if !ok {
		return
	}
	err := m.svc.Scheduler.Schedule(scheduler.Event{ID: timerEventID, Kind: scheduler.KindTimerDeadline, At: at})
	if err != nil {
		m.svc.Log.Warn("deadline not scheduled", "error", err)
	}
}

func (m *Model) cancelDeadline() {
	if m.svc.Scheduler != nil {
		m.svc.Scheduler.Cancel(timerEventID)
	}
}

func timerErrorText(err error) string {
	switch {
	case errors.Is(err, timer.ErrTaskRequired):
		return "defina a missão antes de iniciar"
	case errors.Is(err, timer.ErrInvalidTransition):
		return "ação indisponível no estado atual do timer"
	case errors.Is(err, timer.ErrNotCompleted):
		return "a sessão ainda não terminou"
	case errors.Is(err, timer.ErrInvalidDuration):
		return "duração inválida"
	default:
		return fmt.Sprintf("timer: %v", err)
	}
}

func (m Model) renderExecutionView() string {
	return views.RenderTimerPanel(views.TimerPanelData{
		State:        string(m.Timer.State),
		Task:         m.Timer.Task,
		TaskEditing:  m.TaskEditing,
		TaskInput:    m.taskInput.View(),
		Clock:        formatDuration(m.Timer.TimeLeft),
		ProgressView: m.timerProgress.ViewAs(m.Timer.Elapsed()),
		Sessions:     m.Timer.SessionsCompleted,
		Reward:       gamification.TaskReward,
	})
}

func toastDeadline(now time.Time, d time.Duration) time.Time {
	if d <= 0 {
		d = 4 * time.Second
	}
	return now.Add(d)
}
