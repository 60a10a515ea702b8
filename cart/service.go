package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/creastat/storefront"
	"github.com/creastat/storefront/auth"
)

// Source provides read access to the authenticated user's cart in the data
// store. Row-level scoping to the current principal is the store's
// responsibility, keyed off the access token.
type Source interface {
	ListCartItems(ctx context.Context, accessToken string) ([]Line, error)
}

// Gateway issues bearer-authenticated calls to the backend mutation API.
type Gateway interface {
	Call(ctx context.Context, method, path string, body any) error
}

// SessionReader reads the current session.
type SessionReader interface {
	Current() *auth.Session
}

// Service owns the cart line cache. The backend is the sole arbiter of
// stock limits and line merging, so the service never increments a cached
// quantity locally; every mutation is followed by an authoritative refresh.
type Service struct {
	source   Source
	gateway  Gateway
	sessions SessionReader
	logger   *slog.Logger

	mu    sync.RWMutex
	lines []Line
}

// ServiceOption is a functional option for configuring a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a cart service.
func NewService(source Source, gateway Gateway, sessions SessionReader, opts ...ServiceOption) *Service {
	s := &Service{
		source:   source,
		gateway:  gateway,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh rebuilds the line cache wholesale. With no session the cart is
// defined to be empty and no network call is made. A failed refresh keeps
// the last-known-good cache.
func (s *Service) Refresh(ctx context.Context) ([]Line, error) {
	sess := s.sessions.Current()
	if sess == nil {
		s.mu.Lock()
		s.lines = nil
		s.mu.Unlock()
		return nil, nil
	}

	lines, err := s.source.ListCartItems(ctx, sess.AccessToken)
	if err != nil {
		s.logger.Warn("cart refresh failed", "error", err)
		return nil, fmt.Errorf("refresh cart: %w: %v", storefront.ErrFetch, err)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	return s.Lines(), nil
}

// Lines returns a snapshot of the cached cart lines.
func (s *Service) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals derives the cart summary from the current cached lines.
func (s *Service) Totals() Totals {
	return ComputeTotals(s.Lines())
}

// AddItem asks the backend to increment-or-create the line for the product,
// then refreshes. Requires a session; without one it fails with an auth
// error so the caller can route to sign-in rather than fail silently.
func (s *Service) AddItem(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, "/cart/add-item", "add to cart", productID, quantity)
}

// RemoveItem asks the backend to decrement the line by quantity, then
// refreshes. If the quantity reaches zero the backend deletes the line; a
// request beyond the current quantity clamps. The client simply reflects
// whatever the refresh returns.
func (s *Service) RemoveItem(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, "/cart/remove-item", "remove from cart", productID, quantity)
}

func (s *Service) mutate(ctx context.Context, path, action string, productID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", storefront.ErrValidation)
	}
	if s.sessions.Current() == nil {
		return fmt.Errorf("%s: %w", action, storefront.ErrAuth)
	}

	body := itemOperation{ProductID: productID, Quantity: quantity}
	if err := s.gateway.Call(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	s.logger.Info("cart updated", "action", action, "product_id", productID, "quantity", quantity)

	if _, err := s.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

type itemOperation struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
