package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/storage"
)

var ErrSessionNotFound = errors.New("chat: session not found")

const (
	DefaultTitle    = "Nova Sessão"
	titleMaxRunes   = 30
	previewMaxRunes = 50
)

// UserSource resolves whose history is being read or written.
type UserSource interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// Sessions stores the chat history of the current user as a single record.
// Without a user every read is empty and every write is ignored.
type Sessions struct {
	mu    sync.Mutex
	store storage.Store
	users UserSource
	now   func() time.Time
	log   *logging.Logger
}

func NewSessions(store storage.Store, users UserSource, now func() time.Time, log *logging.Logger) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{store: store, users: users, now: now, log: logging.OrNop(log)}
}

func NewID() string {
	return uuid.NewString()
}

// List returns the sessions most recently modified first.
func (s *Sessions) List(ctx context.Context) ([]model.ChatSession, error) {
	key, ok := s.key(ctx)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, key)
}

func (s *Sessions) Get(ctx context.Context, id string) (model.ChatSession, error) {
	list, err := s.List(ctx)
	if err != nil {
		return model.ChatSession{}, err
	}
	for _, sess := range list {
		if sess.ID == id {
			return sess, nil
		}
	}
	return model.ChatSession{}, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
}

// Save upserts the session. The title comes from the first user message and is kept once
// the session exists; the preview always follows the last message.
func (s *Sessions) Save(ctx context.Context, id string, messages []model.Message) (model.ChatSession, error) {
	key, ok := s.key(ctx)
	if !ok || id == "" || len(messages) == 0 {
		return model.ChatSession{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.loadLocked(ctx, key)
	if err != nil {
		return model.ChatSession{}, err
	}

	sess := model.ChatSession{
		ID:           id,
		Title:        TitleFor(messages),
		Messages:     append([]model.Message(nil), messages...),
		LastModified: s.now(),
		Preview:      PreviewFor(messages),
	}
	idx := indexOf(list, id)
	if idx >= 0 {
		sess.Title = list[idx].Title
		list[idx] = sess
	} else {
		list = append([]model.ChatSession{sess}, list...)
	}
	if err := storage.SaveJSON(ctx, s.store, key, list); err != nil {
		return model.ChatSession{}, fmt.Errorf("save chats: %w", err)
	}
	return sess, nil
}

// Delete removes the session and returns what is left.
func (s *Sessions) Delete(ctx context.Context, id string) ([]model.ChatSession, error) {
	key, ok := s.key(ctx)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.loadLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return list, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	list = append(list[:idx], list[idx+1:]...)
	if err := storage.SaveJSON(ctx, s.store, key, list); err != nil {
		return nil, fmt.Errorf("save chats: %w", err)
	}
	return list, nil
}

func (s *Sessions) loadLocked(ctx context.Context, key storage.Key) ([]model.ChatSession, error) {
	var list []model.ChatSession
	err := storage.LoadJSON(ctx, s.store, key, &list)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case errors.Is(err, storage.ErrCorrupt):
		s.log.Warn("chat history unreadable, starting empty", "error", err)
		return nil, nil
	case err != nil:
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].LastModified.After(list[j].LastModified)
	})
	return list, nil
}

func (s *Sessions) key(ctx context.Context) (storage.Key, bool) {
	if s.users == nil {
		return storage.Key{}, false
	}
	id, ok := s.users.CurrentUserID(ctx)
	if !ok || id == "" {
		return storage.Key{}, false
	}
	return storage.UserKey(storage.UserID(id), storage.ResourceChats), true
}

func indexOf(list []model.ChatSession, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// TitleFor is the first user message cut to 30 characters, or DefaultTitle.
func TitleFor(messages []model.Message) string {
	for _, msg := range messages {
		if msg.Role != model.RoleUser {
			continue
		}
		if utf8.RuneCountInString(msg.Text) > titleMaxRunes {
			return truncate(msg.Text, titleMaxRunes) + "..."
		}
		return msg.Text
	}
	return DefaultTitle
}

func PreviewFor(messages []model.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return truncate(messages[len(messages)-1].Text, previewMaxRunes) + "..."
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
