// Package auth is a local credential store. It identifies whose records are read and written;
// it is not an identity system.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandeepkv93/mentord/internal/logging"
	"github.com/sandeepkv93/mentord/internal/model"
	"github.com/sandeepkv93/mentord/internal/storage"
)

var (
	ErrEmptyCredentials   = errors.New("auth: name, email and password are required")
	ErrInvalidEmail       = errors.New("auth: invalid email")
	ErrEmailInUse         = errors.New("auth: email already registered")
	ErrWeakPassword       = errors.New("auth: password too short")
	ErrAccountNotFound    = errors.New("auth: account not found")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type storedUser struct {
	model.UserProfile
	PasswordHash string `json:"passwordHash"`
}

// LocalProvider keeps the users table and the active session as global records.
type LocalProvider struct {
	mu      sync.Mutex
	store   storage.Store
	cost    int
	now     func() time.Time
	log     *logging.Logger
	current *model.UserProfile
	loaded  bool
}

type Option func(*LocalProvider)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(p *LocalProvider) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			p.cost = cost
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) {
		if now != nil {
			p.now = now
		}
	}
}

func WithLogger(log *logging.Logger) Option {
	return func(p *LocalProvider) { p.log = logging.OrNop(log) }
}

func NewLocalProvider(store storage.Store, opts ...Option) *LocalProvider {
	p := &LocalProvider{
		store: store,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and logs it in.
func (p *LocalProvider) Register(ctx context.Context, name, email, password string) (model.UserProfile, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return model.UserProfile{}, ErrEmptyCredentials
	}
	if !ValidEmail(email) {
		return model.UserProfile{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	users, err := p.loadUsersLocked(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	if _, ok := findByEmail(users, email); ok {
		return model.UserProfile{}, fmt.Errorf("%w: %q", ErrEmailInUse, email)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return model.UserProfile{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}
	user := storedUser{
		UserProfile: model.UserProfile{
			ID:        "usr_" + uuid.NewString(),
			Email:     email,
			Name:      name,
			CreatedAt: p.now(),
		},
		PasswordHash: string(hash),
	}
	users[user.ID] = user
	if err := storage.SaveJSON(ctx, p.store, storage.GlobalKey(storage.ResourceUsers), users); err != nil {
		return model.UserProfile{}, fmt.Errorf("save users: %w", err)
	}
	if err := p.startSessionLocked(ctx, user.UserProfile); err != nil {
		return model.UserProfile{}, err
	}
	p.log.Info("user registered", "user", user.ID)
	return user.UserProfile, nil
}

func (p *LocalProvider) Login(ctx context.Context, email, password string) (model.UserProfile, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.UserProfile{}, ErrEmptyCredentials
	}
	if !ValidEmail(email) {
		return model.UserProfile{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	users, err := p.loadUsersLocked(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	user, ok := findByEmail(users, email)
	if !ok {
		return model.UserProfile{}, fmt.Errorf("%w: %q", ErrAccountNotFound, email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.UserProfile{}, ErrInvalidCredentials
	}
	if err := p.startSessionLocked(ctx, user.UserProfile); err != nil {
		return model.UserProfile{}, err
	}
	p.log.Info("user logged in", "user", user.ID)
	return user.UserProfile, nil
}

func (p *LocalProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.store.Delete(ctx, storage.GlobalKey(storage.ResourceSession))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	p.current = nil
	p.loaded = true
	return nil
}

// CurrentUser returns the logged-in profile. An unreadable session counts as logged out.
func (p *LocalProvider) CurrentUser(ctx context.Context) (model.UserProfile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		var profile model.UserProfile
		err := storage.LoadJSON(ctx, p.store, storage.GlobalKey(storage.ResourceSession), &profile)
		switch {
		case err == nil && profile.ID != "":
			p.current = &profile
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			p.log.Warn("session record unreadable", "error", err)
		}
		p.loaded = true
	}
	if p.current == nil {
		return model.UserProfile{}, false
	}
	return *p.current, true
}

func (p *LocalProvider) CurrentUserID(ctx context.Context) (string, bool) {
	user, ok := p.CurrentUser(ctx)
	if !ok {
		return "", false
	}
	return user.ID, true
}

func (p *LocalProvider) startSessionLocked(ctx context.Context, profile model.UserProfile) error {
	if err := storage.SaveJSON(ctx, p.store, storage.GlobalKey(storage.ResourceSession), profile); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	p.current = &profile
	p.loaded = true
	return nil
}

func (p *LocalProvider) loadUsersLocked(ctx context.Context) (map[string]storedUser, error) {
	users := make(map[string]storedUser)
	err := storage.LoadJSON(ctx, p.store, storage.GlobalKey(storage.ResourceUsers), &users)
	switch {
	case err == nil, errors.Is(err, storage.ErrNotFound):
		return users, nil
	case errors.Is(err, storage.ErrCorrupt):
		return nil, err
	default:
		return nil, fmt.Errorf("load users: %w", err)
	}
}

func findByEmail(users map[string]storedUser, email string) (storedUser, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return storedUser{}, false
}
