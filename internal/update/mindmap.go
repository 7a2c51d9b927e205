package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mentord/internal/mentor"
	"github.com/sandeepkv93/mentord/internal/mindmap"
	"github.com/sandeepkv93/mentord/internal/views"
)

func (m Model) handleMindMapKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.MindMap.Cursor = clampCursor(m.MindMap.Cursor+1, len(m.MindMap.Maps))
	case "k", "up":
		m.MindMap.Cursor = clampCursor(m.MindMap.Cursor-1, len(m.MindMap.Maps))
	case "enter":
		if len(m.MindMap.Maps) == 0 {
			return m, nil
		}
		selected := m.MindMap.Maps[m.MindMap.Cursor]
		m.MindMap.Current = &selected
	case "d":
		if len(m.MindMap.Maps) == 0 {
			return m, nil
		}
		return m.deleteMap(m.MindMap.Maps[m.MindMap.Cursor].ID)
	}
	return m, nil
}

func (m Model) submitTopic() (Model, tea.Cmd) {
	topic := strings.TrimSpace(m.topicInput.Value())
	if topic == "" {
		m.Status = StatusBar{Text: m.mapErrorText(mindmap.ErrEmptyTopic), IsError: true}
		return m, nil
	}
	return m.generateMap(topic)
}

func (m Model) generateMap(topic string) (Model, tea.Cmd) {
	if m.MindMap.Loading || m.svc.MindMaps == nil {
		return m, nil
	}
	m.MindMap.Loading = true
	m.stopCapture()
	gen := m.svc.MindMaps
	ctx, timeout := m.svc.Ctx, m.cfg.AITimeout
	run := func() tea.Msg {
		callCtx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		mm, err := gen.Generate(callCtx, topic)
		return MindMapResultMsg{Map: mm, Err: err}
	}
	return m, tea.Batch(run, m.loadingSpinner.Tick)
}

func (m Model) onMindMapResult(msg MindMapResultMsg) (Model, tea.Cmd) {
	m.MindMap.Loading = false
	if msg.Err != nil {
		m.Status = StatusBar{Text: m.mapErrorText(msg.Err), IsError: true}
		m.svc.Log.Warn("mind map failed", "error", msg.Err)
		return m, nil
	}
	result := msg.Map
	m.MindMap.Current = &result
	m.topicInput.SetValue("")
	m.refreshMaps()
	m.MindMap.Cursor = 0
	m.Status = StatusBar{Text: "estrutura gerada: " + result.Topic}
	return m, nil
}

func (m Model) deleteMap(id string) (Model, tea.Cmd) {
	if m.svc.MindMaps == nil {
		return m, nil
	}
	maps, err := m.svc.MindMaps.Store().Delete(m.svc.Ctx, id)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("apagar mapa falhou: %v", err), IsError: true}
		return m, nil
	}
	m.MindMap.Maps = maps
	m.MindMap.Cursor = clampCursor(m.MindMap.Cursor, len(maps))
	if m.MindMap.Current != nil && m.MindMap.Current.ID == id {
		m.MindMap.Current = nil
	}
	m.Status = StatusBar{Text: "mapa apagado"}
	return m, nil
}

func (m *Model) refreshMaps() {
	if m.svc.MindMaps == nil {
		return
	}
	maps, err := m.svc.MindMaps.Store().List(m.svc.Ctx)
	if err != nil {
		m.svc.Log.Warn("list mind maps failed", "error", err)
		return
	}
	m.MindMap.Maps = maps
	m.MindMap.Cursor = clampCursor(m.MindMap.Cursor, len(maps))
}

func (m Model) mapErrorText(err error) string {
	switch {
	case errors.Is(err, mindmap.ErrEmptyTopic):
		return "informe um tema"
	case errors.Is(err, mindmap.ErrNoOutline):
		return "Não foi possível gerar o mapa. Tente novamente."
	default:
		return mentor.Diagnose(err, m.cfg.GeminiModel)
	}
}

func (m Model) renderMindMapView() string {
	items := make([]views.MindMapItemData, 0, len(m.MindMap.Maps))
	for i, mm := range m.MindMap.Maps {
		items = append(items, views.MindMapItemData{
			ID:       mm.ID,
			Topic:    mm.Topic,
			When:     mm.Timestamp.Format("02/01 15:04"),
			Selected: i == m.MindMap.Cursor && !m.Capture,
		})
	}
	data := views.MindMapPanelData{
		InputView: m.topicInput.View(),
		Loading:   m.MindMap.Loading,
		Spinner:   m.loadingSpinner.View(),
		Maps:      items,
	}
	if m.MindMap.Current != nil {
		data.Topic = m.MindMap.Current.Topic
		data.Content = m.MindMap.Current.Content
	}
	return views.RenderMindMapPanel(data)
}
