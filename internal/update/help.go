package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/mentord/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Chat, Action: "mentor IA"},
		{Key: m.Keys.MindMap, Action: "mapa mental"},
		{Key: m.Keys.Execution, Action: "modo execução"},
		{Key: m.Keys.History, Action: "histórico"},
		{Key: m.Keys.Progression, Action: "mapa de progressão"},
		{Key: "/", Action: "paleta de comandos"},
		{Key: m.Keys.Help, Action: "ajuda"},
		{Key: m.Keys.Quit, Action: "sair"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewChat:
		return []KeyBinding{
			{Key: "i", Action: "escrever mensagem"},
			{Key: "enter", Action: "enviar"},
			{Key: "esc", Action: "sair do campo"},
		}
	case ViewMindMap:
		return []KeyBinding{
			{Key: "i", Action: "novo tema"},
			{Key: "j/k", Action: "mover"},
			{Key: "enter", Action: "abrir mapa"},
			{Key: "d", Action: "apagar mapa"},
		}
	case ViewExecution:
		return []KeyBinding{
			{Key: "space", Action: "iniciar/pausar"},
			{Key: "r", Action: "reiniciar"},
			{Key: "t", Action: "definir missão"},
			{Key: "y/n", Action: "confirmar execução"},
		}
	case ViewHistory:
		return []KeyBinding{
			{Key: "j/k", Action: "mover"},
			{Key: "enter", Action: "abrir sessão"},
			{Key: "d", Action: "apagar sessão"},
			{Key: "n", Action: "nova sessão"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "sem atalhos"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
