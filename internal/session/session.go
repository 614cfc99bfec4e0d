// Package session keeps a dashboard client's view of its admin session in sync
// with the server and with sibling sessions of the same client.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the local view of the session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unauthenticated"
	}
}

// DefaultRefreshInterval is how often a signed-in session rotates its cookies.
const DefaultRefreshInterval = 2 * time.Minute

// DefaultCheckTimeout bounds one shared identity request.
const DefaultCheckTimeout = 10 * time.Second

// ErrNotSignedIn is returned by Refresh when there is no session to refresh.
var ErrNotSignedIn = errors.New("session: not signed in")

// Config tunes a Session.
type Config struct {
	RefreshInterval time.Duration
	CheckTimeout    time.Duration
	// OnSignOut runs after local state is cleared, e.g. to show the sign-in screen.
	OnSignOut func()
}

// Session tracks one client's authentication state.
type Session struct {
	id        string
	api       API
	bus       *Bus
	inbox     <-chan Message
	interval  time.Duration
	timeout   time.Duration
	onSignOut func()
	logger    *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	state    State
	identity *Identity
}

// New creates a session attached to bus. Call Close when done.
func New(api API, bus *Bus, cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bus == nil {
		bus = NewBus()
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	id := uuid.NewString()
	return &Session{
		id:        id,
		api:       api,
		bus:       bus,
		inbox:     bus.Subscribe(id),
		interval:  interval,
		timeout:   timeout,
		onSignOut: cfg.OnSignOut,
		logger:    logger.With(zap.String("session_id", id)),
	}
}

// ID identifies the session on the bus.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the signed-in admin, or nil.
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	cp := *s.identity
	return &cp
}

func (s *Session) set(state State, identity *Identity) {
	s.mu.Lock()
	s.state = state
	s.identity = identity
	s.mu.Unlock()
}

// Load performs the initial silent verification.
func (s *Session) Load(ctx context.Context) State {
	_, _ = s.CheckAuth(ctx)
	return s.State()
}

// CheckAuth asks the server who is signed in. Concurrent callers share one request
// and its result. The shared request outlives any single caller's ctx; each caller
// stops waiting when its own ctx ends.
func (s *Session) CheckAuth(ctx context.Context) (*Identity, error) {
	ch := s.group.DoChan("me", func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		identity, err := s.api.Me(callCtx)
		if err != nil {
			s.set(StateUnauthenticated, nil)
			return nil, err
		}
		s.set(StateAuthenticated, identity)
		return identity, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		identity := *res.Val.(*Identity)
		return &identity, nil
	}
}

// SignIn logs in, verifies the new cookies and tells sibling sessions.
func (s *Session) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	if err := s.api.Login(ctx, email, password); err != nil {
		s.set(StateUnauthenticated, nil)
		return nil, err
	}
	identity, err := s.CheckAuth(ctx)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(Message{Type: MessageSignIn, From: s.id})
	return identity, nil
}

// SignOut ends the session everywhere. The server call is best effort; local state
// is always cleared.
func (s *Session) SignOut(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed", zap.Error(err))
	}
	s.clear()
	s.bus.Publish(Message{Type: MessageSignOut, From: s.id})
}

func (s *Session) clear() {
	s.set(StateUnauthenticated, nil)
	if s.onSignOut != nil {
		s.onSignOut()
	}
}

// Refresh rotates the session cookies. A failed refresh signs the session out.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	s.state = StateRefreshing
	s.mu.Unlock()

	if err := s.api.Refresh(ctx); err != nil {
		s.logger.Info("refresh failed, signing out", zap.Error(err))
		s.SignOut(ctx)
		return err
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.bus.Publish(Message{Type: MessageRefresh, From: s.id})
	return nil
}

// Run refreshes on a fixed interval while signed in and reacts to sibling
// sessions until ctx ends.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.State() == StateAuthenticated {
				_ = s.Refresh(ctx)
			}
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		}
	}
}

func (s *Session) handle(ctx context.Context, msg Message) {
	switch msg.Type {
	case MessageSignIn, MessageRefresh:
		if _, err := s.CheckAuth(ctx); err != nil {
			s.logger.Debug("silent auth check failed", zap.String("trigger", string(msg.Type)), zap.Error(err))
		}
	case MessageSignOut:
		s.clear()
	}
}

// Close detaches the session from the bus.
func (s *Session) Close() {
	s.bus.Unsubscribe(s.id)
}
