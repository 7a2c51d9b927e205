package timer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingRewarder struct {
	points   []int
	sessions []int
	addErr   error
}

func (r *recordingRewarder) AddPoints(_ context.Context, amount int) (model.UserStats, error) {
	if r.addErr != nil {
		return model.UserStats{}, r.addErr
	}
	r.points = append(r.points, amount)
	return model.DefaultUserStats(), nil
}

func (r *recordingRewarder) RecordTimerSession(_ context.Context, n int) error {
	r.sessions = append(r.sessions, n)
	return nil
}

type countingAlarm struct{ rings int }

func (a *countingAlarm) Ring() error {
	a.rings++
	return nil
}

type fixture struct {
	machine  *Machine
	store    *storage.MemoryStore
	clock    *fakeClock
	rewarder *recordingRewarder
	alarm    *countingAlarm
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store:    storage.NewMemoryStore(),
		clock:    &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		rewarder: &recordingRewarder{},
		alarm:    &countingAlarm{},
	}
	f.machine = f.restart(t)
	return f
}

// restart builds a fresh machine over the same store, as a relaunch would.
func (f fixture) restart(t *testing.T) *Machine {
	t.Helper()
	m := New(f.store, f.rewarder, WithClock(f.clock.Now), WithAlarm(f.alarm))
	require.NoError(t, m.Restore(context.Background()))
	return m
}

func TestRemaining(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exact seconds", base.Add(10 * time.Second), 10},
		{"rounds partial second up", base.Add(9*time.Second + time.Millisecond), 10},
		{"sub second left", base.Add(200 * time.Millisecond), 1},
		{"deadline now", base, 0},
		{"deadline passed", base.Add(-time.Minute), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Remaining(tc.end, base))
		})
	}
}

func TestMachine_StartRequiresTask(t *testing.T) {
	f := newFixture(t)
	err := f.machine.Start(context.Background(), 0)
	require.ErrorIs(t, err, ErrTaskRequired)
	assert.Equal(t, model.TimerIdle, f.machine.Snapshot().State)

	require.NoError(t, f.machine.SetTask(context.Background(), "   "))
	require.ErrorIs(t, f.machine.Start(context.Background(), 0), ErrTaskRequired)
}

func TestMachine_RunPauseResume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.machine.SetTask(ctx, "Escrever copy"))
	require.NoError(t, f.machine.Start(ctx, 60))

	snap := f.machine.Snapshot()
	assert.Equal(t, model.TimerRunning, snap.State)
	assert.Equal(t, 60, snap.TimeLeft)
	assert.Equal(t, 60, snap.InitialTime)

	f.clock.Advance(20*time.Second + 300*time.Millisecond)
	require.NoError(t, f.machine.Pause(ctx))
	snap = f.machine.Snapshot()
	assert.Equal(t, model.TimerPaused, snap.State)
	assert.Equal(t, 40, snap.TimeLeft)

	f.clock.Advance(time.Hour)
	assert.Equal(t, 40, f.machine.Snapshot().TimeLeft, "paused time does not drain")

	require.NoError(t, f.machine.Start(ctx, 0))
	end, ok := f.machine.Deadline()
	require.True(t, ok)
	assert.Equal(t, f.clock.Now().Add(40*time.Second), end)

	require.ErrorIs(t, f.machine.Start(ctx, 0), ErrInvalidTransition)
}

func TestMachine_TickCompletesOnceAndRingsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.machine.SetTask(ctx, "Deep work"))
	require.NoError(t, f.machine.Start(ctx, 5))

	f.clock.Advance(4 * time.Second)
	assert.False(t, f.machine.Tick(ctx))
	assert.Equal(t, 1, f.machine.Snapshot().TimeLeft)

	f.clock.Advance(2 * time.Second)
	assert.True(t, f.machine.Tick(ctx))
	assert.False(t, f.machine.Tick(ctx))
	assert.Equal(t, model.TimerCompleted, f.machine.Snapshot().State)
	assert.Equal(t, 1, f.alarm.rings)
}

func TestMachine_PauseAfterDeadlineCompletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.machine.SetTask(ctx, "Deep work"))
	require.NoError(t, f.machine.Start(ctx, 5))
	f.clock.Advance(10 * time.Second)

	require.NoError(t, f.machine.Pause(ctx))
	assert.Equal(t, model.TimerCompleted, f.machine.Snapshot().State)
	assert.Equal(t, 1, f.alarm.rings)
}

func TestMachine_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("success credits reward and counts session", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.machine.SetTask(ctx, "Prospecção"))
		require.NoError(t, f.machine.Start(ctx, 30))
		f.clock.Advance(31 * time.Second)
		require.True(t, f.machine.Tick(ctx))

		require.NoError(t, f.machine.Resolve(ctx, true))
		snap := f.machine.Snapshot()
		assert.Equal(t, model.TimerIdle, snap.State)
		assert.Equal(t, 30, snap.TimeLeft)
		assert.Equal(t, 1, snap.SessionsCompleted)
		assert.Equal(t, []int{gamification.TaskReward}, f.rewarder.points)
		assert.Equal(t, []int{1}, f.rewarder.sessions)
	})

	t.Run("failure resets without reward", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.machine.SetTask(ctx, "Prospecção"))
		require.NoError(t, f.machine.Start(ctx, 30))
		f.clock.Advance(time.Minute)
		f.machine.Tick(ctx)

		require.NoError(t, f.machine.Resolve(ctx, false))
		assert.Equal(t, 0, f.machine.Snapshot().SessionsCompleted)
		assert.Empty(t, f.rewarder.points)
		assert.Empty(t, f.rewarder.sessions)
	})

	t.Run("credit failure keeps session unclaimed", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.machine.SetTask(ctx, "Prospecção"))
		require.NoError(t, f.machine.Start(ctx, 30))
		f.clock.Advance(31 * time.Second)
		require.True(t, f.machine.Tick(ctx))

		f.rewarder.addErr = errors.New("disk full")
		require.ErrorContains(t, f.machine.Resolve(ctx, true), "disk full")
		snap := f.machine.Snapshot()
		assert.Equal(t, model.TimerCompleted, snap.State)
		assert.Equal(t, 0, snap.SessionsCompleted)
		assert.Empty(t, f.rewarder.sessions)
		assert.Equal(t, model.TimerCompleted, f.restart(t).Snapshot().State)

		f.rewarder.addErr = nil
		require.NoError(t, f.machine.Resolve(ctx, true))
		snap = f.machine.Snapshot()
		assert.Equal(t, model.TimerIdle, snap.State)
		assert.Equal(t, 1, snap.SessionsCompleted)
		assert.Equal(t, []int{gamification.TaskReward}, f.rewarder.points)
		assert.Equal(t, []int{1}, f.rewarder.sessions)
	})

	t.Run("only from completed", func(t *testing.T) {
		f := newFixture(t)
		require.ErrorIs(t, f.machine.Resolve(ctx, true), ErrNotCompleted)
		assert.Empty(t, f.rewarder.points)
	})
}

func TestMachine_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.machine.SetTask(ctx, "Leitura"))
	require.NoError(t, f.machine.Start(ctx, 0))
	f.clock.Advance(time.Minute)

	require.NoError(t, f.machine.Reset(ctx, 0))
	snap := f.machine.Snapshot()
	assert.Equal(t, model.TimerIdle, snap.State)
	assert.Equal(t, model.DefaultFocusSeconds, snap.TimeLeft)

	require.NoError(t, f.machine.Reset(ctx, 600))
	assert.Equal(t, 600, f.machine.Snapshot().InitialTime)
	require.ErrorIs(t, f.machine.Reset(ctx, -1), ErrInvalidDuration)
}

func TestMachine_RestoreAcrossRestart(t *testing.T) {
	ctx := context.Background()

	t.Run("running keeps absolute deadline", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.machine.SetTask(ctx, "Planejamento"))
		require.NoError(t, f.machine.Start(ctx, 120))

		f.clock.Advance(50 * time.Second)
		restored := f.restart(t)
		snap := restored.Snapshot()
		assert.Equal(t, model.TimerRunning, snap.State)
		assert.Equal(t, 70, snap.TimeLeft)
		assert.Equal(t, "Planejamento", snap.Task)
	})

	t.Run("deadline passed while closed", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.machine.SetTask(ctx, "Planejamento"))
		require.NoError(t, f.machine.Start(ctx, 120))

		f.clock.Advance(10 * time.Minute)
		restored := f.restart(t)
		snap := restored.Snapshot()
		assert.Equal(t, model.TimerCompleted, snap.State)
		assert.Equal(t, 0, snap.TimeLeft)
		assert.Equal(t, 1, f.alarm.rings)

		f.restart(t)
		assert.Equal(t, 1, f.alarm.rings, "already completed record does not ring again")
	})

	t.Run("paused keeps remaining", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.machine.SetTask(ctx, "Planejamento"))
		require.NoError(t, f.machine.Start(ctx, 90))
		f.clock.Advance(30 * time.Second)
		require.NoError(t, f.machine.Pause(ctx))

		f.clock.Advance(time.Hour)
		snap := f.restart(t).Snapshot()
		assert.Equal(t, model.TimerPaused, snap.State)
		assert.Equal(t, 60, snap.TimeLeft)
	})

	t.Run("corrupt record falls back to defaults", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Set(ctx, storage.GlobalKey(storage.ResourceTimer), "{not json"))
		snap := f.restart(t).Snapshot()
		assert.Equal(t, model.TimerIdle, snap.State)
		assert.Equal(t, model.DefaultFocusSeconds, snap.TimeLeft)
	})
}

func TestSnapshot_Elapsed(t *testing.T) {
	assert.InDelta(t, 0.25, Snapshot{InitialTime: 100, TimeLeft: 75}.Elapsed(), 1e-9)
	assert.Equal(t, 0.0, Snapshot{}.Elapsed())
	assert.Equal(t, 1.0, Snapshot{InitialTime: 10, TimeLeft: 0}.Elapsed())
}
