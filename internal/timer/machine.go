package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/storage"
)

var (
	ErrTaskRequired      = errors.New("timer: task label required")
	ErrInvalidTransition = errors.New("timer: invalid transition")
	ErrInvalidDuration   = errors.New("timer: invalid duration")
	ErrNotCompleted      = errors.New("timer: session not completed")
)

// Rewarder receives confirmed focus sessions.
type Rewarder interface {
	AddPoints(ctx context.Context, amount int) (model.UserStats, error)
	RecordTimerSession(ctx context.Context, sessionsCompleted int) error
}

// Snapshot is a read-only view of the machine at one instant.
type Snapshot struct {
	State             model.TimerState
	TimeLeft          int
	InitialTime       int
	Task              string
	SessionsCompleted int
	EndTime           time.Time
}

// Elapsed is the fraction of InitialTime already consumed, in [0,1].
func (s Snapshot) Elapsed() float64 {
	if s.InitialTime <= 0 {
		return 0
	}
	f := float64(s.InitialTime-s.TimeLeft) / float64(s.InitialTime)
	return max(0, min(1, f))
}

// Machine is the focus countdown. While running, the absolute end time is authoritative;
// the remaining seconds are always derived from it and the wall clock.
type Machine struct {
	mu       sync.Mutex
	store    storage.Store
	key      storage.Key
	rewarder Rewarder
	alarm    Alarm
	now      func() time.Time
	log      *logging.Logger

	state       model.TimerState
	endTime     time.Time
	timeLeft    int
	initialTime int
	task        string
	sessions    int
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

func WithAlarm(alarm Alarm) Option {
	return func(m *Machine) {
		if alarm != nil {
			m.alarm = alarm
		}
	}
}

func WithLogger(log *logging.Logger) Option {
	return func(m *Machine) {
		m.log = logging.OrNop(log)
	}
}

// WithDefaultDuration sets the countdown used before anything is persisted.
func WithDefaultDuration(seconds int) Option {
	return func(m *Machine) {
		if seconds > 0 {
			m.initialTime = seconds
			m.timeLeft = seconds
		}
	}
}

func New(store storage.Store, rewarder Rewarder, opts ...Option) *Machine {
	m := &Machine{
		store:       store,
		key:         storage.GlobalKey(storage.ResourceTimer),
		rewarder:    rewarder,
		alarm:       AlarmFunc(func() error { return nil }),
		now:         time.Now,
		log:         logging.Nop(),
		state:       model.TimerIdle,
		timeLeft:    model.DefaultFocusSeconds,
		initialTime: model.DefaultFocusSeconds,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Remaining is the whole seconds left until endTime, rounded up and never negative.
func Remaining(endTime, now time.Time) int {
	d := endTime.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Restore rebuilds the machine from the persisted record. A countdown whose end time passed
// while the app was closed comes back completed, not paused.
func (m *Machine) Restore(ctx context.Context) error {
	var rec model.TimerRecord
	err := storage.LoadJSON(ctx, m.store, m.key, &rec)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err == nil {
		err = rec.Validate()
	}
	if err != nil {
		m.log.Warn("timer record unreadable, using defaults", "error", err)
		return nil
	}

	m.mu.Lock()
	if rec.InitialTime > 0 {
		m.initialTime = rec.InitialTime
	}
	m.task = rec.Task
	m.sessions = rec.SessionsCompleted
	m.endTime = time.Time{}

	ring := false
	switch rec.State {
	case model.TimerRunning:
		end := time.UnixMilli(*rec.EndTime)
		if left := Remaining(end, m.now()); left > 0 {
			m.state = model.TimerRunning
			m.endTime = end
			m.timeLeft = left
		} else {
			ring = m.completeLocked(ctx)
		}
	case model.TimerPaused:
		m.state = model.TimerPaused
		m.timeLeft = rec.RemainingWhenPaused
	case model.TimerCompleted:
		m.state = model.TimerCompleted
		m.timeLeft = 0
	default:
		m.state = model.TimerIdle
		m.timeLeft = m.initialTime
	}
	m.mu.Unlock()

	m.ringIf(ring)
	return nil
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:             m.state,
		TimeLeft:          m.timeLeft,
		InitialTime:       m.initialTime,
		Task:              m.task,
		SessionsCompleted: m.sessions,
	}
	if m.state == model.TimerRunning {
		s.TimeLeft = Remaining(m.endTime, m.now())
		s.EndTime = m.endTime
	}
	return s
}

// Deadline reports the absolute end time while running.
func (m *Machine) Deadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != model.TimerRunning {
		return time.Time{}, false
	}
	return m.endTime, true
}

func (m *Machine) SetTask(ctx context.Context, task string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.task = strings.TrimSpace(task)
	return m.persistLocked(ctx)
}

// Start begins or resumes the countdown. A positive duration replaces the initial time;
// zero resumes from the current remaining time.
func (m *Machine) Start(ctx context.Context, duration int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(m.task) == "" {
		return ErrTaskRequired
	}
	if m.state != model.TimerIdle && m.state != model.TimerPaused {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, m.state)
	}
	if duration < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, duration)
	}
	if duration > 0 {
		m.initialTime = duration
		m.timeLeft = duration
	}
	if m.timeLeft <= 0 {
		return fmt.Errorf("%w: nothing left to run", ErrInvalidDuration)
	}

	m.endTime = m.now().Add(time.Duration(m.timeLeft) * time.Second)
	m.state = model.TimerRunning
	m.log.Debug("timer started", "task", m.task, "seconds", m.timeLeft)
	return m.persistLocked(ctx)
}

// Pause freezes the remaining time. Pausing after the deadline passed completes the session.
func (m *Machine) Pause(ctx context.Context) error {
	m.mu.Lock()
	if m.state != model.TimerRunning {
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, state)
	}
	left := Remaining(m.endTime, m.now())
	if left == 0 {
		ring := m.completeLocked(ctx)
		m.mu.Unlock()
		m.ringIf(ring)
		return nil
	}
	m.timeLeft = left
	m.endTime = time.Time{}
	m.state = model.TimerPaused
	err := m.persistLocked(ctx)
	m.mu.Unlock()
	return err
}

// Tick checks the wall clock against the deadline. It reports true when this call moved the
// machine to COMPLETED. Missed ticks do not matter since nothing is counted down.
func (m *Machine) Tick(ctx context.Context) bool {
	m.mu.Lock()
	if m.state != model.TimerRunning {
		m.mu.Unlock()
		return false
	}
	m.timeLeft = Remaining(m.endTime, m.now())
	if m.timeLeft > 0 {
		m.mu.Unlock()
		return false
	}
	ring := m.completeLocked(ctx)
	m.mu.Unlock()
	m.ringIf(ring)
	return true
}

// Resolve settles a completed session. A confirmed session credits TaskReward before it is
// counted; if the credit fails the machine stays COMPLETED so the confirmation can be retried.
// Otherwise the machine returns to IDLE at its initial time.
func (m *Machine) Resolve(ctx context.Context, success bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != model.TimerCompleted {
		return fmt.Errorf("%w: state %s", ErrNotCompleted, m.state)
	}
	if success && m.rewarder != nil {
		if _, err := m.rewarder.AddPoints(ctx, gamification.TaskReward); err != nil {
			return fmt.Errorf("credit session: %w", err)
		}
	}
	if success {
		m.sessions++
	}
	m.state = model.TimerIdle
	m.endTime = time.Time{}
	m.timeLeft = m.initialTime
	if err := m.persistLocked(ctx); err != nil {
		return err
	}
	m.log.Info("focus session resolved", "success", success, "sessions", m.sessions)
	if !success || m.rewarder == nil {
		return nil
	}
	if err := m.rewarder.RecordTimerSession(ctx, m.sessions); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// Reset returns to IDLE. A positive duration becomes the new initial time.
func (m *Machine) Reset(ctx context.Context, duration int) error {
	if duration < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, duration)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.TimerIdle
	m.endTime = time.Time{}
	if duration > 0 {
		m.initialTime = duration
	}
	m.timeLeft = m.initialTime
	return m.persistLocked(ctx)
}

// completeLocked enters COMPLETED and reports whether the alarm should ring.
func (m *Machine) completeLocked(ctx context.Context) bool {
	if m.state == model.TimerCompleted {
		return false
	}
	m.state = model.TimerCompleted
	m.timeLeft = 0
	m.endTime = time.Time{}
	_ = m.persistLocked(ctx)
	m.log.Info("focus session completed", "task", m.task)
	return true
}

func (m *Machine) ringIf(ring bool) {
	if !ring {
		return
	}
	if err := m.alarm.Ring(); err != nil {
		m.log.Warn("alarm failed", "error", err)
	}
}

func (m *Machine) persistLocked(ctx context.Context) error {
	rec := model.TimerRecord{
		RemainingWhenPaused: m.timeLeft,
		InitialTime:         m.initialTime,
		State:               m.state,
		Task:                m.task,
		SessionsCompleted:   m.sessions,
	}
	if m.state == model.TimerRunning {
		ms := m.endTime.UnixMilli()
		rec.EndTime = &ms
	}
	if err := storage.SaveJSON(ctx, m.store, m.key, rec); err != nil {
		m.log.Error("persist timer failed", "error", err)
		return fmt.Errorf("persist timer: %w", err)
	}
	return nil
}
