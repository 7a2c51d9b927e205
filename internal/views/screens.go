package views

import (
	"fmt"
	"strings"
)

type NavItem struct {
	Key    string
	Label  string
	Active bool
}

type AchievementData struct {
	Icon     string
	Title    string
	Unlocked bool
}

type SidebarData struct {
	UserName     string
	UserTag      string
	Level        int
	StageName    string
	Points       int
	Streak       int
	Nav          []NavItem
	Achievements []AchievementData
}

func RenderSidebar(data SidebarData) string {
	var b strings.Builder
	b.WriteString(redStyle.Render("O MENTOR") + "\n")
	if data.UserName != "" {
		b.WriteString(fmt.Sprintf("%s #%s\n", data.UserName, data.UserTag))
	}
	b.WriteString("\n")
	b.WriteString(goldStyle.Render(fmt.Sprintf("NÍVEL %d", data.Level)) + " " + mutedStyle.Render(data.StageName) + "\n")
	b.WriteString(fmt.Sprintf("%d pts | 🔥 %d dias\n\n", data.Points, data.Streak))
	for _, item := range data.Nav {
		cursor := "  "
		label := item.Label
		if item.Active {
			cursor = redStyle.Render("▌ ")
			label = titleStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s[%s] %s\n", cursor, item.Key, label))
	}
	if len(data.Achievements) > 0 {
		b.WriteString("\nCONQUISTAS\n")
		for _, a := range data.Achievements {
			if a.Unlocked {
				b.WriteString(fmt.Sprintf("%s %s\n", a.Icon, a.Title))
			} else {
				b.WriteString(mutedStyle.Render("🔒 "+a.Title) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type ChatMessageData struct {
	FromUser bool
	Text     string
	IsError  bool
	Time     string
}

type ChatPanelData struct {
	Title     string
	Viewport  string
	InputView string
	Loading   bool
	Spinner   string
}

// RenderChatTranscript lays out the conversation; mentor turns are rendered as Markdown.
func RenderChatTranscript(messages []ChatMessageData, width int) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.FromUser:
			parts = append(parts, titleStyle.Render("VOCÊ "+msg.Time)+"\n"+msg.Text)
		case msg.IsError:
			parts = append(parts, redStyle.Render("MENTOR "+msg.Time)+"\n"+errorStyle.Render(msg.Text))
		default:
			parts = append(parts, redStyle.Render("MENTOR "+msg.Time)+"\n"+RenderMarkdown(msg.Text, width))
		}
	}
	return strings.Join(parts, "\n\n")
}

func RenderChatPanel(data ChatPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MENTOR IA") + " " + mutedStyle.Render(data.Title) + "\n")
	b.WriteString(data.Viewport + "\n")
	if data.Loading {
		b.WriteString(data.Spinner + " o mentor está analisando...\n")
	}
	b.WriteString(data.InputView)
	return b.String()
}

type TimerPanelData struct {
	State        string
	Task         string
	TaskEditing  bool
	TaskInput    string
	Clock        string
	ProgressView string
	Sessions     int
	Reward       int
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MODO EXECUÇÃO") + "\n")
	b.WriteString(mutedStyle.Render("CLAREZA SEM AÇÃO É ILUSÃO.") + "\n\n")
	if data.TaskEditing {
		b.WriteString("missão: " + data.TaskInput + "\n")
	} else if data.Task != "" {
		b.WriteString("missão: " + data.Task + "\n")
	} else {
		b.WriteString(mutedStyle.Render("missão: (defina com [t] ou /task)") + "\n")
	}

	clock := data.Clock
	switch data.State {
	case "RUNNING":
		clock = redStyle.Render(clock)
	case "PAUSED":
		clock = goldStyle.Render(clock)
	}
	b.WriteString(fmt.Sprintf("\n   %s   %s\n", clock, mutedStyle.Render(data.State)))
	b.WriteString(data.ProgressView + "\n\n")
	b.WriteString(fmt.Sprintf("sessões concluídas: %d\n", data.Sessions))

	if data.State == "COMPLETED" {
		b.WriteString("\n" + goldStyle.Render("A VERDADE") + "\n")
		b.WriteString(fmt.Sprintf("Você executou a missão? %q\n", data.Task))
		b.WriteString(fmt.Sprintf("[y] SIM +%d PONTOS   [n] NÃO 0 PONTOS", data.Reward))
		return b.String()
	}
	b.WriteString(mutedStyle.Render("[space] iniciar/pausar [r] reset [t] missão | /start 25 /reset 5"))
	return b.String()
}

type MindMapItemData struct {
	ID       string
	Topic    string
	When     string
	Selected bool
}

type MindMapPanelData struct {
	InputView string
	Loading   bool
	Spinner   string
	Topic     string
	Content   string
	Maps      []MindMapItemData
}

func RenderMindMapPanel(data MindMapPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MAPA MENTAL") + "\n")
	b.WriteString(data.InputView + "\n")
	if data.Loading {
		b.WriteString(data.Spinner + " estruturando...\n")
	}
	if data.Content != "" {
		b.WriteString("\n" + goldStyle.Render("MAPA_ESTRUTURAL_TXT: "+data.Topic) + "\n")
		b.WriteString(data.Content + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("Histórico de Estruturas") + "\n")
	if len(data.Maps) == 0 {
		b.WriteString(mutedStyle.Render("Nenhum mapa gravado ainda. Gere sua primeira estrutura."))
		return b.String()
	}
	for _, m := range data.Maps {
		cursor := " "
		if m.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, m.When, m.Topic, mutedStyle.Render(shortID(m.ID))))
	}
	return strings.TrimRight(b.String(), "\n")
}

type HistoryPanelData struct {
	ListView string
	Empty    bool
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📜 HISTÓRICO") + "\n")
	if data.Empty {
		b.WriteString("Nenhum registro encontrado.\n")
		b.WriteString(mutedStyle.Render("Inicie uma nova sessão para começar a evoluir."))
		return b.String()
	}
	b.WriteString(data.ListView + "\n")
	b.WriteString(mutedStyle.Render("[enter] abrir [d] apagar [j/k] mover"))
	return b.String()
}

type ProgressionData struct {
	Points       int
	StageName    string
	ProgressView string
	Percent      float64
	TableView    string
	NextLabel    string
	PointsToNext int
	MaxReached   bool
}

func RenderProgressionModal(data ProgressionData) string {
	var b strings.Builder
	b.WriteString(goldStyle.Render("🏆 MAPA DE PROGRESSÃO VISUAL") + "\n\n")
	b.WriteString(fmt.Sprintf("STATUS ATUAL: %s (%d pts)\n", data.StageName, data.Points))
	b.WriteString(fmt.Sprintf("%s %.0f%%\n\n", data.ProgressView, data.Percent))
	b.WriteString(data.TableView + "\n\n")
	if data.MaxReached {
		b.WriteString(goldStyle.Render("MÁXIMO ATINGIDO") + " Você é a Lenda.")
	} else {
		b.WriteString(fmt.Sprintf("PRÓXIMO MARCO: %s (faltam %d pts)", data.NextLabel, data.PointsToNext))
	}
	b.WriteString("\n" + mutedStyle.Render("[p/esc] fechar"))
	return b.String()
}

type ToastData struct {
	Points  int
	Label   string
	Extreme bool
	Text    string
}

func RenderToast(data ToastData) string {
	style := panelStyle.BorderForeground(red)
	if data.Extreme {
		style = overlayStyle
	}
	if data.Text != "" {
		return style.Render(data.Text)
	}
	return style.Render(fmt.Sprintf("%s  %s", goldStyle.Render(fmt.Sprintf("+%d PONTOS", data.Points)), data.Label))
}

type LoginData struct {
	Register  bool
	NameView  string
	EmailView string
	PassView  string
	Error     string
}

func RenderLoginScreen(data LoginData) string {
	var b strings.Builder
	b.WriteString(redStyle.Render("O MENTOR") + "\n")
	b.WriteString(mutedStyle.Render("Acesso Restrito ao Código") + "\n\n")
	if data.Register {
		b.WriteString("Nome de Guerra\n" + data.NameView + "\n")
	}
	b.WriteString("E-mail\n" + data.EmailView + "\n")
	b.WriteString("Senha de Acesso\n" + data.PassView + "\n\n")
	if data.Error != "" {
		b.WriteString(errorStyle.Render(data.Error) + "\n\n")
	}
	action := "[enter] entrar  [ctrl+r] criar conta"
	if data.Register {
		action = "[enter] cadastrar  [ctrl+r] já tenho conta"
	}
	b.WriteString(mutedStyle.Render(action + "  [tab] próximo campo  [ctrl+c] sair"))
	return panelStyle.Render(b.String())
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nview: %s\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
