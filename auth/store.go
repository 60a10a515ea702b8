package auth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/creastat/storefront"
)

// Listener receives session transitions. A nil session means signed out.
type Listener func(*Session)

// Store owns the current authenticated identity. Every transition is the
// result of an identity-provider round trip (Load, SignIn, SignOut); no
// other component can write auth state, so client-perceived and
// provider-perceived state cannot diverge.
type Store struct {
	provider Provider
	persist  Persistence
	logger   *slog.Logger

	// notifyMu serializes transitions so listeners observe them in the
	// order they were emitted.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	session   *Session
	listeners []Listener
}

// StoreOption is a functional option for configuring a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a session store backed by the given identity provider
// and session persistence.
func NewStore(provider Provider, persist Persistence, opts ...StoreOption) *Store {
	s := &Store{
		provider: provider,
		persist:  persist,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the cached session, or nil when no one is signed in.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// OnChange registers a listener invoked on every session transition.
// Listeners are invoked sequentially in registration order.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Load performs the one startup lookup of a persisted session and delivers
// the result as the first change event, so a restart restores prior login
// state. An expired session is refreshed through the provider; if that
// fails it is discarded and the first event reports signed-out.
func (s *Store) Load(ctx context.Context) error {
	sess, err := s.persist.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load persisted session", "error", err)
		s.set(nil)
		return fmt.Errorf("load persisted session: %w", err)
	}

	if sess != nil && sess.Expired() {
		refreshed, err := s.provider.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			s.logger.Info("persisted session expired, refresh rejected", "error", err)
			if err := s.persist.Clear(ctx); err != nil {
				s.logger.Warn("failed to clear persisted session", "error", err)
			}
			sess = nil
		} else {
			sess = refreshed
			if err := s.persist.Save(ctx, sess); err != nil {
				s.logger.Warn("failed to persist refreshed session", "error", err)
			}
		}
	}

	s.set(sess)
	return nil
}

// SignIn exchanges credentials for a session, persists it and notifies
// listeners.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required: %w", storefront.ErrValidation)
	}

	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w: %v", storefront.ErrAuth, err)
	}

	if err := s.persist.Save(ctx, sess); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}
	s.set(sess)
	return nil
}

// SignUp registers a new account. The session does not change; the account
// may require email confirmation before it can sign in.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required: %w", storefront.ErrValidation)
	}

	if err := s.provider.SignUp(ctx, email, password); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// SignOut revokes the current session with the provider, clears the
// persisted session and notifies listeners. Signing out while already
// signed out is a no-op.
func (s *Store) SignOut(ctx context.Context) error {
	cur := s.Current()
	if cur == nil {
		return nil
	}

	if err := s.provider.SignOut(ctx, cur.AccessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	if err := s.persist.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
	s.set(nil)
	return nil
}

// set replaces the cached session and delivers the transition to listeners
// in registration order. Listeners run outside the state lock so they may
// call Current.
func (s *Store) set(sess *Session) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.session = sess
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sess)
	}
}
