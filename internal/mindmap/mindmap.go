// Package mindmap generates text outlines with the mentor and keeps the newest ones per user.
package mindmap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/mentord/internal/gamification"
	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/storage"
)

var (
	ErrEmptyTopic  = errors.New("mindmap: empty topic")
	ErrNoOutline   = errors.New("mindmap: no outline generated")
	ErrMapNotFound = errors.New("mindmap: map not found")
)

// MaxStored is how many maps are kept per user; older ones are discarded on save.
const MaxStored = 50

type UserSource interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type Outliner interface {
	GenerateOutline(ctx context.Context, topic string) (string, error)
}

// Ledger credits the points earned by generating a map.
type Ledger interface {
	AddPoints(ctx context.Context, amount int) (model.UserStats, error)
}

type Store struct {
	mu    sync.Mutex
	store storage.Store
	users UserSource
	now   func() time.Time
	log   *logging.Logger
}

func NewStore(store storage.Store, users UserSource, now func() time.Time, log *logging.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{store: store, users: users, now: now, log: logging.OrNop(log)}
}

// List returns the maps newest first. Without a user it is empty.
func (s *Store) List(ctx context.Context) ([]model.MindMap, error) {
	key, ok := s.key(ctx)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, key)
}

// Save records a new map. Without a user nothing is stored and ok is false.
func (s *Store) Save(ctx context.Context, topic, content string) (m model.MindMap, ok bool, err error) {
	key, ok := s.key(ctx)
	if !ok {
		return model.MindMap{}, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	maps, err := s.loadLocked(ctx, key)
	if err != nil {
		return model.MindMap{}, false, err
	}
	m = model.MindMap{ID: uuid.NewString(), Topic: topic, Content: content, Timestamp: s.now()}
	maps = append([]model.MindMap{m}, maps...)
	if len(maps) > MaxStored {
		maps = maps[:MaxStored]
	}
	if err := storage.SaveJSON(ctx, s.store, key, maps); err != nil {
		return model.MindMap{}, false, fmt.Errorf("save maps: %w", err)
	}
	return m, true, nil
}

func (s *Store) Delete(ctx context.Context, id string) ([]model.MindMap, error) {
	key, ok := s.key(ctx)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	maps, err := s.loadLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	out := maps[:0]
	found := false
	for _, m := range maps {
		if m.ID == id {
			found = true
			continue
		}
		out = append(out, m)
	}
	if !found {
		return out, fmt.Errorf("%w: %q", ErrMapNotFound, id)
	}
	if err := storage.SaveJSON(ctx, s.store, key, out); err != nil {
		return nil, fmt.Errorf("save maps: %w", err)
	}
	return out, nil
}

func (s *Store) loadLocked(ctx context.Context, key storage.Key) ([]model.MindMap, error) {
	var maps []model.MindMap
	err := storage.LoadJSON(ctx, s.store, key, &maps)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case errors.Is(err, storage.ErrCorrupt):
		s.log.Warn("mind maps unreadable, starting empty", "error", err)
		return nil, nil
	case err != nil:
		return nil, err
	}
	sort.SliceStable(maps, func(i, j int) bool {
		return maps[i].Timestamp.After(maps[j].Timestamp)
	})
	return maps, nil
}

func (s *Store) key(ctx context.Context) (storage.Key, bool) {
	if s.users == nil {
		return storage.Key{}, false
	}
	id, ok := s.users.CurrentUserID(ctx)
	if !ok || id == "" {
		return storage.Key{}, false
	}
	return storage.UserKey(storage.UserID(id), storage.ResourceMaps), true
}

type Generator struct {
	outliner Outliner
	store    *Store
	ledger   Ledger
	log      *logging.Logger
}

// NewGenerator wires the mentor, the per-user store and the points ledger. A nil ledger
// disables the reward.
func NewGenerator(outliner Outliner, store *Store, ledger Ledger, log *logging.Logger) *Generator {
	return &Generator{outliner: outliner, store: store, ledger: ledger, log: logging.OrNop(log)}
}

func (g *Generator) Store() *Store { return g.store }

// Generate asks for an outline of topic, stores it and credits MindMapReward. Mentor errors
// are returned as is so the caller can diagnose them; an empty answer is ErrNoOutline and
// earns nothing.
func (g *Generator) Generate(ctx context.Context, topic string) (model.MindMap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return model.MindMap{}, ErrEmptyTopic
	}
	content, err := g.outliner.GenerateOutline(ctx, topic)
	if err != nil {
		return model.MindMap{}, err
	}
	if strings.TrimSpace(content) == "" {
		return model.MindMap{}, ErrNoOutline
	}
	if g.ledger != nil {
		if _, err := g.ledger.AddPoints(ctx, gamification.MindMapReward); err != nil {
			g.log.Warn("mind map reward failed", "error", err)
		}
	}
	m, ok, err := g.store.Save(ctx, topic, content)
	if err != nil {
		g.log.Warn("mind map not saved", "topic", topic, "error", err)
		return model.MindMap{ID: uuid.NewString(), Topic: topic, Content: content}, nil
	}
	if !ok {
		return model.MindMap{ID: uuid.NewString(), Topic: topic, Content: content}, nil
	}
	g.log.Info("mind map generated", "topic", topic)
	return m, nil
}
