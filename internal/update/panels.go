package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderSidebar() string {
	data := views.SidebarData{
		Level:     m.Stats.Level,
		StageName: gamification.StageName(m.Stats.Points),
		Points:    m.Stats.Points,
		Streak:    m.Stats.CurrentStreak,
	}
	if m.User != nil {
		data.UserName = m.User.Name
		data.UserTag = shortTag(m.User.ID)
	}
	for _, nav := range []struct {
		key  string
		view View
		text string
	}{
		{m.Keys.Chat, ViewChat, "Mentor IA"},
		{m.Keys.MindMap, ViewMindMap, "Mapa Mental"},
		{m.Keys.Execution, ViewExecution, "Modo Execução"},
		{m.Keys.History, ViewHistory, "Histórico"},
	} {
		data.Nav = append(data.Nav, views.NavItem{Key: nav.key, Label: nav.text, Active: m.CurrentView == nav.view})
	}
	for _, a := range m.Stats.Achievements {
		data.Achievements = append(data.Achievements, views.AchievementData{Icon: a.Icon, Title: a.Title, Unlocked: a.Unlocked})
	}
	return views.RenderSidebar(data)
}

func (m Model) renderProgressionView() string {
	p := gamification.DeriveProgress(m.Stats.Points, model.DefaultMilestones())
	data := views.ProgressionData{
		Points:       m.Stats.Points,
		StageName:    gamification.StageName(m.Stats.Points),
		ProgressView: m.levelProgress.ViewAs(p.VisualPercentage / 100),
		Percent:      p.VisualPercentage,
		TableView:    m.milestoneTable.View(),
		MaxReached:   p.NextMilestone == nil,
	}
	if p.NextMilestone != nil {
		data.NextLabel = p.NextMilestone.Label
		data.PointsToNext = p.PointsToNext
	}
	return views.RenderProgressionModal(data)
}

func milestoneRows(points int) []table.Row {
	milestones := model.DefaultMilestones()
	p := gamification.DeriveProgress(points, milestones)
	rows := make([]table.Row, 0, len(milestones))
	for i, ms := range milestones {
		mark := " "
		switch {
		case points >= ms.Points:
			mark = "✓"
		case i == p.CurrentSegmentIndex+1:
			mark = "›"
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", ms.Points), ms.Label, ms.Description, mark})
	}
	return rows
}

// syncBubbleData copies model state into the bubble widgets before every render.
func (m *Model) syncBubbleData() {
	width := m.width - 40
	if width < 40 {
		width = 40
	}
	m.chatViewport.Width = width
	m.chatInput.SetWidth(width)
	m.historyList.SetSize(width, 18)

	atBottom := m.chatViewport.AtBottom()
	m.chatViewport.SetContent(m.chatTranscript())
	if atBottom || m.Chat.Pending[m.Chat.SessionID] {
		m.chatViewport.GotoBottom()
	}

	items := make([]list.Item, 0, len(m.History.Sessions))
	for _, s := range m.History.Sessions {
		desc := s.LastModified.Format("02/01 15:04") + " | " + s.Preview
		items = append(items, listItem{title: s.Title, description: desc})
	}
	m.historyList.SetItems(items)
	if len(items) > 0 {
		m.historyList.Select(m.History.Cursor)
	}

	m.milestoneTable.SetRows(milestoneRows(m.Stats.Points))
	m.Palette.Input = m.commandInput.Value()
}

func shortTag(id string) string {
	id = strings.TrimPrefix(id, "usr_")
	if len(id) > 4 {
		return strings.ToUpper(id[:4])
	}
	return strings.ToUpper(id)
}
