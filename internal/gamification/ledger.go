package gamification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/storage"
)

var (
	ErrNegativeAmount = errors.New("gamification: negative point amount")
	ErrUnknownSignal  = errors.New("gamification: unknown signal kind")
)

// UserSource resolves the authenticated user that owns the ledger record.
type UserSource interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// Ledger is the only writer of a user's points, level, streak and achievements.
// Every mutation is a read-compute-write critical section; subscribers are told
// about persisted changes after the lock is released.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store
	users UserSource
	now   func() time.Time
	log   *logging.Logger

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(log *logging.Logger) Option {
	return func(l *Ledger) {
		l.log = logging.OrNop(log)
	}
}

func NewLedger(store storage.Store, users UserSource, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		users: users,
		now:   time.Now,
		log:   logging.Nop(),
		subs:  make(map[int]func()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stats returns the current record, or the default zero state when there is no user,
// no record or the record cannot be decoded.
func (l *Ledger) Stats(ctx context.Context) model.UserStats {
	key, ok := l.key(ctx)
	if !ok {
		return model.DefaultUserStats()
	}
	return l.load(ctx, key)
}

func (l *Ledger) AddPoints(ctx context.Context, amount int) (model.UserStats, error) {
	if amount < 0 {
		return l.Stats(ctx), fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	return l.mutate(ctx, func(stats *model.UserStats) bool {
		l.logUnlocks(applyPoints(stats, amount))
		return true
	})
}

// ProcessSignal credits a chat-derived reward. EXTREME also unlocks first_sale; both
// changes land in a single write.
func (l *Ledger) ProcessSignal(ctx context.Context, kind SignalKind) (Reward, error) {
	reward, ok := RewardFor(kind)
	if !ok {
		return Reward{}, fmt.Errorf("%w: %q", ErrUnknownSignal, kind)
	}
	_, err := l.mutate(ctx, func(stats *model.UserStats) bool {
		var unlocked []model.AchievementID
		if kind == SignalExtreme && stats.Unlock(model.AchievementFirstSale) {
			unlocked = append(unlocked, model.AchievementFirstSale)
		}
		unlocked = append(unlocked, applyPoints(stats, reward.Points)...)
		l.logUnlocks(unlocked)
		return true
	})
	if err != nil {
		return Reward{}, err
	}
	l.log.Info("signal rewarded", "kind", string(kind), "points", reward.Points)
	return reward, nil
}

// UpdateStreak records activity for the current local calendar day. It is a no-op when
// activity was already recorded today.
func (l *Ledger) UpdateStreak(ctx context.Context) (model.UserStats, error) {
	return l.mutate(ctx, func(stats *model.UserStats) bool {
		now := l.now()
		last := stats.LastActiveDate.In(now.Location())
		if sameDay(last, now) {
			return false
		}
		if !stats.LastActiveDate.IsZero() && sameDay(last, now.AddDate(0, 0, -1)) {
			stats.CurrentStreak++
		} else {
			stats.CurrentStreak = 1
		}
		stats.LastActiveDate = now
		if stats.CurrentStreak >= streakUnlockDays && stats.Unlock(model.AchievementFirstStreak) {
			l.logUnlocks([]model.AchievementID{model.AchievementFirstStreak})
		}
		return true
	})
}

// RecordTimerSession unlocks biohacker once enough focus sessions were confirmed.
func (l *Ledger) RecordTimerSession(ctx context.Context, sessionsCompleted int) error {
	if sessionsCompleted < timerSessionsUnlock {
		return nil
	}
	_, err := l.mutate(ctx, func(stats *model.UserStats) bool {
		if !stats.Unlock(model.AchievementBiohacker) {
			return false
		}
		l.logUnlocks([]model.AchievementID{model.AchievementBiohacker})
		return true
	})
	return err
}

// Subscribe registers fn to run after every persisted change. The returned func
// removes the subscription and is safe to call more than once.
func (l *Ledger) Subscribe(fn func()) func() {
	l.subMu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			l.subMu.Unlock()
		})
	}
}

func (l *Ledger) mutate(ctx context.Context, fn func(*model.UserStats) bool) (model.UserStats, error) {
	stats, persisted, err := l.apply(ctx, fn)
	if persisted {
		l.notify()
	}
	return stats, err
}

func (l *Ledger) apply(ctx context.Context, fn func(*model.UserStats) bool) (model.UserStats, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key, ok := l.key(ctx)
	if !ok {
		stats := model.DefaultUserStats()
		fn(&stats)
		return stats, false, nil
	}
	stats := l.load(ctx, key)
	if !fn(&stats) {
		return stats, false, nil
	}
	if err := storage.SaveJSON(ctx, l.store, key, stats); err != nil {
		return stats, false, fmt.Errorf("save stats: %w", err)
	}
	return stats.Clone(), true, nil
}

func (l *Ledger) load(ctx context.Context, key storage.Key) model.UserStats {
	var stats model.UserStats
	err := storage.LoadJSON(ctx, l.store, key, &stats)
	switch {
	case err == nil:
		stats.Normalize()
		return stats
	case errors.Is(err, storage.ErrNotFound):
	default:
		l.log.Warn("stats record unreadable, using defaults", "key", key.String(), "error", err)
	}
	return model.DefaultUserStats()
}

func (l *Ledger) key(ctx context.Context) (storage.Key, bool) {
	if l.users == nil {
		return storage.Key{}, false
	}
	id, ok := l.users.CurrentUserID(ctx)
	if !ok || id == "" {
		return storage.Key{}, false
	}
	return storage.UserKey(storage.UserID(id), storage.ResourceStats), true
}

func (l *Ledger) notify() {
	l.subMu.Lock()
	ids := make([]int, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.subs[id])
	}
	l.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (l *Ledger) logUnlocks(ids []model.AchievementID) {
	for _, id := range ids {
		l.log.Info("achievement unlocked", "achievement", string(id))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
