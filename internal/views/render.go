package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Sidebar    string
	Main       string
	Overlay    string
	Toast      string
	StatusLine string
	StatusErr  bool
	Footer     string
}

var (
	red   = lipgloss.Color("#E50914")
	gold  = lipgloss.Color("#FFD700")
	steel = lipgloss.Color("#9FB4C7")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(red)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	overlayStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(gold).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(steel)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goldStyle    = lipgloss.NewStyle().Bold(true).Foreground(gold)
	redStyle     = lipgloss.NewStyle().Bold(true).Foreground(red)
)

const (
	sidebarWidth = 30
	mainWidth    = 84
)

func RenderApp(data AppData) string {
	sidebar := panelStyle.Width(sidebarWidth).Render(data.Sidebar)
	main := data.Main
	if data.Overlay != "" {
		main = overlayStyle.Render(data.Overlay)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, panelStyle.Width(mainWidth).Render(main))

	lines := []string{headerStyle.Render(data.Header)}
	if data.Toast != "" {
		lines = append(lines, data.Toast)
	}
	lines = append(lines, row)
	if data.StatusLine != "" {
		if data.StatusErr {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders mentor replies. On renderer failure the source is shown as is.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = mainWidth - 4
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
