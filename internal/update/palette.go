package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/commands"
	"github.com/sandeepkv93/mentord/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "paleta fechada"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	// step runs a timer or view action and turns its status into a command result.
	step := func(fn func(Model) (Model, tea.Cmd)) (commands.Result, error) {
		m, next = fn(m)
		if m.Status.IsError {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Status.Text}
		}
		return commands.Result{Message: m.Status.Text}, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Task: func(a commands.TaskArgs) (commands.Result, error) {
			if m.svc.Timer == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "timer unavailable"}
			}
			if err := m.svc.Timer.SetTask(m.svc.Ctx, a.Label); err != nil {
				return commands.Result{}, err
			}
			m.Timer = m.svc.Timer.Snapshot()
			m.CurrentView = ViewExecution
			return commands.Result{Message: "missão definida: " + m.Timer.Task}, nil
		},
		Start: func(a commands.DurationArgs) (commands.Result, error) {
			m.CurrentView = ViewExecution
			return step(func(m Model) (Model, tea.Cmd) { return m.startTimer(a.Seconds) })
		},
		Pause: func() (commands.Result, error) {
			if m.Timer.State != model.TimerRunning {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "o timer não está rodando"}
			}
			return step(Model.pauseTimer)
		},
		Reset: func(a commands.DurationArgs) (commands.Result, error) {
			return step(func(m Model) (Model, tea.Cmd) { return m.resetTimer(a.Seconds) })
		},
		Resolve: func(success bool) (commands.Result, error) {
			if m.Timer.State != model.TimerCompleted {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "a sessão ainda não terminou"}
			}
			return step(func(m Model) (Model, tea.Cmd) { return m.resolveTimer(success) })
		},
		Map: func(a commands.MapArgs) (commands.Result, error) {
			if m.MindMap.Loading {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "um mapa já está sendo gerado"}
			}
			m.CurrentView = ViewMindMap
			m, next = m.generateMap(a.Topic)
			return commands.Result{Message: "estruturando: " + a.Topic}, nil
		},
		New: func() (commands.Result, error) {
			m.newSession()
			m = m.switchView(ViewChat)
			return commands.Result{Message: "nova sessão"}, nil
		},
		Open: func(a commands.TargetArgs) (commands.Result, error) {
			id, ok := m.matchSession(a.ID)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("sessão não encontrada: %s", a.ID)}
			}
			return step(func(m Model) (Model, tea.Cmd) { return m.openHistorySession(id) })
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			id, ok := m.matchSession(a.ID)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("sessão não encontrada: %s", a.ID)}
			}
			return step(func(m Model) (Model, tea.Cmd) { return m.deleteSession(id) })
		},
		Logout: func() (commands.Result, error) {
			m = m.logout()
			return commands.Result{Message: "sessão encerrada"}, nil
		},
		Progress: func() (commands.Result, error) {
			m.ProgressionVisible = true
			return commands.Result{Message: "mapa de progressão"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Comando falhou", err.Error(), "error")
		return m, next
	}
	m.Status = StatusBar{Text: res.Message}
	return m, next
}

// matchSession resolves a full id or a unique prefix of one.
func (m Model) matchSession(ref string) (string, bool) {
	found := ""
	for _, s := range m.History.Sessions {
		if s.ID == ref {
			return s.ID, true
		}
		if strings.HasPrefix(s.ID, ref) {
			if found != "" {
				return "", false
			}
			found = s.ID
		}
	}
	return found, found != ""
}
