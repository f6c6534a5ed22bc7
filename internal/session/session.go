// Package session keeps the signed-in users of the web UI. Authentication is
// cosmetic: any non-empty email and password is accepted and nothing is
// verified or stored beyond the session itself.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gestor/internal/cache"
	"gestor/internal/core"
	"gestor/internal/ledger"
	applog "gestor/internal/log"
	"gestor/internal/services"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingAccountData = errors.New("name and email are required")
	ErrNotFound           = errors.New("session not found")
)

// User is the display identity of a session.
type User struct {
	Name  string
	Email string
}

// Session binds a user to their own tracker.
type Session struct {
	ID        string
	CreatedAt time.Time
	Tracker   *services.Tracker

	mu   sync.RWMutex
	user User
}

func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setUser(u User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Options controls how new sessions are created.
type Options struct {
	MaxSessions    int
	TTL            time.Duration
	InitialBalance core.Money
	DefaultPeriod  core.Period
	SeedDemo       bool
	Location       *time.Location
	Clock          services.Clock
}

// Manager creates and looks up sessions. Idle sessions expire after TTL and
// the least recently used one is dropped when MaxSessions is exceeded.
type Manager struct {
	opts     Options
	sessions *cache.LRUCache[*Session]
	logger   *applog.Logger
}

func NewManager(opts Options, logger *applog.Logger) *Manager {
	if logger == nil {
		logger = applog.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 500
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	if !opts.DefaultPeriod.Valid() {
		opts.DefaultPeriod = core.DefaultPeriod
	}

	m := &Manager{
		opts:   opts,
		logger: logger.WithComponent(applog.ComponentSession),
	}
	m.sessions = cache.NewLRUCache[*Session](opts.MaxSessions, opts.TTL,
		cache.WithClock[*Session](opts.Clock),
		cache.WithEvictHook(func(id string, _ *Session) {
			m.logger.Debug("Session dropped", applog.FieldSessionID, id)
		}),
	)
	return m
}

// Registry exposes the underlying cache so it can be swept periodically.
func (m *Manager) Registry() cache.Cleaner {
	return m.sessions
}

// Login opens a session for email. The display name is guessed from the
// local part of the address.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}
	name := localPart(email)
	if name == "" {
		name = "Usuario"
	}
	return m.open(ctx, User{Name: name, Email: email}, applog.OpLogin)
}

// Register opens a session for a new account. An empty name falls back to
// the local part of the email.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = localPart(email)
	}
	if name == "" {
		return nil, ErrMissingAccountData
	}
	return m.open(ctx, User{Name: name, Email: email}, applog.OpRegister)
}

func (m *Manager) open(ctx context.Context, u User, op string) (*Session, error) {
	tracker, err := m.newTracker()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: m.opts.Clock(),
		Tracker:   tracker,
		user:      u,
	}
	m.sessions.Set(s.ID, s)
	m.logger.InfoContext(ctx, "Session opened",
		applog.FieldSessionID, s.ID,
		applog.FieldOperation, op,
		applog.FieldStoreSize, tracker.Len(),
	)
	return s, nil
}

func (m *Manager) newTracker() (*services.Tracker, error) {
	opts := []services.TrackerOption{
		services.WithClock(m.opts.Clock),
		services.WithPeriod(m.opts.DefaultPeriod),
		services.WithLogger(m.logger),
	}
	if m.opts.Location != nil {
		opts = append(opts, services.WithLocation(m.opts.Location))
	}

	store := ledger.New()
	tracker := services.NewTracker(store, m.opts.InitialBalance, opts...)
	if m.opts.SeedDemo {
		if err := store.Seed(ledger.DemoTransactions(tracker.Today())...); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return tracker, nil
}

// Get returns the live session with the given id and refreshes its TTL.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return m.sessions.Get(id)
}

// UpdateAccount changes the display identity of a session. Both fields are
// required.
func (m *Manager) UpdateAccount(ctx context.Context, id, name, email string) (User, error) {
	s, ok := m.Get(id)
	if !ok {
		return User{}, ErrNotFound
	}
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return s.User(), ErrMissingAccountData
	}
	u := User{Name: name, Email: email}
	s.setUser(u)
	m.logger.InfoContext(ctx, "Account updated",
		applog.FieldSessionID, id,
		applog.FieldOperation, applog.OpUpdate,
	)
	return u, nil
}

// Logout drops the session. Unknown ids are ignored.
func (m *Manager) Logout(ctx context.Context, id string) {
	if _, ok := m.sessions.Get(id); !ok {
		return
	}
	m.sessions.Delete(id)
	m.logger.InfoContext(ctx, "Session closed",
		applog.FieldSessionID, id,
		applog.FieldOperation, applog.OpLogout,
	)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.sessions.Size()
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.TrimSpace(local)
}
