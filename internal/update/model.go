package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/mentord/internal/auth"
	"github.com/sandeepkv93/mentord/internal/chat"
	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/mindmap"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/scheduler"
	"github.com/sandeepkv93/mentord/internal/timer"
)

type View string

const (
	ViewChat      View = "Chat"
	ViewMindMap   View = "MindMap"
	ViewExecution View = "Execution"
	ViewHistory   View = "History"
)

// Services are the long-lived collaborators the UI drives. They outlive any single view.
type Services struct {
	Ctx       context.Context
	Auth      *auth.LocalProvider
	Ledger    *gamification.Ledger
	Timer     *timer.Machine
	Chat      *chat.Service
	MindMaps  *mindmap.Generator
	Scheduler *scheduler.Engine
	Log       *logging.Logger
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Chat        string
	MindMap     string
	Execution   string
	History     string
	Progression string
	Help        string
	Quit        string
}

type ChatState struct {
	SessionID string
	Messages  []model.Message
	// Pending holds sessions with a mentor call in flight.
	Pending map[string]bool
}

type MindMapState struct {
	Current *model.MindMap
	Maps    []model.MindMap
	Cursor  int
	Loading bool
}

type HistoryState struct {
	Sessions []model.ChatSession
	Cursor   int
}

type LoginState struct {
	Register bool
	Field    int
	Err      string
}

type Toast struct {
	Points  int
	Label   string
	Kind    gamification.SignalKind
	Text    string
	Expires time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView        View
	User               *model.UserProfile
	Stats              model.UserStats
	Chat               ChatState
	MindMap            MindMapState
	History            HistoryState
	Login              LoginState
	Timer              timer.Snapshot
	TaskEditing        bool
	Capture            bool
	Toast              *Toast
	ProgressionVisible bool
	Palette            CommandPaletteState
	HelpVisible        bool
	Notifications      []Notification
	Status             StatusBar
	Keys               GlobalKeyMap
	Quitting           bool
	LastError          error

	svc       Services
	cfg       RuntimeConfig
	notifier  DesktopNotifier
	statsCh   chan struct{}
	stopStats func()
	tickSeq   int
	toastSeq  int

	chatInput      textarea.Model
	chatViewport   viewport.Model
	topicInput     textinput.Model
	taskInput      textinput.Model
	commandInput   textinput.Model
	nameInput      textinput.Model
	emailInput     textinput.Model
	passInput      textinput.Model
	historyList    list.Model
	milestoneTable table.Model
	timerProgress  progress.Model
	levelProgress  progress.Model
	loadingSpinner spinner.Model
	helpModel      help.Model
	width          int
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// StatsChangedMsg follows every persisted ledger mutation.
type StatsChangedMsg struct{}

type ChatReplyMsg struct {
	Reply chat.Reply
	Err   error
}

type MindMapResultMsg struct {
	Map model.MindMap
	Err error
}

type TimerTickMsg struct {
	Seq int
}

type SchedulerEventMsg struct {
	Event scheduler.Event
}

type ToastExpiredMsg struct {
	Seq int
}

const (
	timerEventID = "timer"
	toastEventID = "toast"
)

func NewModel(svc Services, cfg RuntimeConfig, notifier DesktopNotifier) Model {
	if svc.Ctx == nil {
		svc.Ctx = context.Background()
	}
	svc.Log = logging.OrNop(svc.Log)
	if notifier == nil {
		notifier = NoopDesktopNotifier{}
	}
	m := Model{
		CurrentView: ViewChat,
		Chat:        ChatState{Pending: make(map[string]bool)},
		Stats:       model.DefaultUserStats(),
		Keys: GlobalKeyMap{
			Chat:        "1",
			MindMap:     "2",
			Execution:   "3",
			History:     "4",
			Progression: "p",
			Help:        "?",
			Quit:        "q",
		},
		svc:      svc,
		cfg:      cfg,
		notifier: notifier,
		statsCh:  make(chan struct{}, 1),
		width:    84,
	}
	m.initBubbleComponents()

	if svc.Ledger != nil {
		ch := m.statsCh
		m.stopStats = svc.Ledger.Subscribe(func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		})
	}
	if svc.Timer != nil {
		m.Timer = svc.Timer.Snapshot()
	}
	if svc.Auth != nil {
		if user, ok := svc.Auth.CurrentUser(svc.Ctx); ok {
			m.enterApp(user)
		}
	}
	if m.User == nil {
		m.focusLoginField(fieldEmail)
	}
	m.syncBubbleData()
	return m
}

// Close releases the ledger subscription.
func (m Model) Close() {
	if m.stopStats != nil {
		m.stopStats()
	}
}

func (m *Model) initBubbleComponents() {
	m.chatInput = textarea.New()
	m.chatInput.Placeholder = "Descreva sua trava ou relate sua execução..."
	m.chatInput.ShowLineNumbers = false
	m.chatInput.SetWidth(80)
	m.chatInput.SetHeight(3)
	m.chatInput.CharLimit = 4000

	m.chatViewport = viewport.New(80, 18)

	m.topicInput = textinput.New()
	m.topicInput.Prompt = "tema> "
	m.topicInput.Placeholder = "Ex: Lançamento de produto"
	m.topicInput.CharLimit = 200
	m.topicInput.Width = 60

	m.taskInput = textinput.New()
	m.taskInput.Prompt = "missão> "
	m.taskInput.CharLimit = 200
	m.taskInput.Width = 60

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Seu nome"
	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "voce@exemplo.com"
	m.passInput = textinput.New()
	m.passInput.EchoMode = textinput.EchoPassword
	m.passInput.EchoCharacter = '•'
	for _, in := range []*textinput.Model{&m.nameInput, &m.emailInput, &m.passInput} {
		in.CharLimit = 128
		in.Width = 40
	}

	m.historyList = list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 18)
	m.historyList.Title = "Direcionamento"
	m.historyList.SetShowHelp(false)
	m.historyList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Pts", Width: 7},
		{Title: "Marco", Width: 14},
		{Title: "", Width: 26},
		{Title: "", Width: 3},
	}
	m.milestoneTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(8))

	m.timerProgress = progress.New(progress.WithGradient("#9FB4C7", "#E50914"), progress.WithWidth(60))
	m.levelProgress = progress.New(progress.WithGradient("#E50914", "#FFD700"), progress.WithWidth(60))

	m.loadingSpinner = spinner.New()
	m.loadingSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}
