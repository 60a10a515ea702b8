package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/creastat/storefront"
	"github.com/creastat/storefront/auth"
)

// Source provides read access to the catalog data store.
type Source interface {
	// ListProducts returns the full catalog.
	ListProducts(ctx context.Context) ([]Product, error)

	// SearchProducts returns products whose name matches the query.
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// Gateway issues bearer-authenticated calls to the backend mutation API.
type Gateway interface {
	Call(ctx context.Context, method, path string, body any) error
}

// SessionReader reads the current session.
type SessionReader interface {
	Current() *auth.Session
}

// Service owns the product cache, the single source of truth for rendering
// the catalog. Only the service writes the cache; every refresh replaces it
// wholesale.
type Service struct {
	source   Source
	gateway  Gateway
	sessions SessionReader
	logger   *slog.Logger

	mu       sync.RWMutex
	products []Product
}

// ServiceOption is a functional option for configuring a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a catalog service.
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

// Refresh fetches the full catalog and replaces the cache. The result is
// sorted by product ID ascending; re-renders must not reorder cards the
// user is mid-interaction with, so the ordering does not depend on the
// backing view. A failed refresh keeps the last-known-good cache.
func (s *Service) Refresh(ctx context.Context) ([]Product, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		s.logger.Warn("catalog refresh failed", "error", err)
		return nil, fmt.Errorf("refresh catalog: %w: %v", storefront.ErrFetch, err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ProductID < products[j].ProductID
	})

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	return s.Products(), nil
}

// Products returns a snapshot of the cached catalog.
func (s *Service) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product returns the cached product with the given ID.
func (s *Service) Product(productID int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ProductID == productID {
			return p, true
		}
	}
	return Product{}, false
}

// Rename issues an authorized rename to the backend API and then refreshes
// the catalog, so the displayed name is the server's accepted value rather
// than the optimistic edit. Requires a non-empty name and a session; no
// network call is made when either check fails.
func (s *Service) Rename(ctx context.Context, productID int64, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("name cannot be empty: %w", storefront.ErrValidation)
	}
	if s.sessions.Current() == nil {
		return fmt.Errorf("rename product %d: %w", productID, storefront.ErrAuth)
	}

	path := fmt.Sprintf("/products/%d", productID)
	if err := s.gateway.Call(ctx, http.MethodPatch, path, renameRequest{Name: newName}); err != nil {
		return fmt.Errorf("rename product %d: %w", productID, err)
	}

	s.logger.Info("product renamed", "product_id", productID, "name", newName)

	if _, err := s.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

// Search returns products whose name matches the query, ordered by name
// ascending with product ID ascending as the tie-break, so equal names have
// a deterministic order. The cache is not touched.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Products(), nil
	}

	products, err := s.source.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w: %v", storefront.ErrFetch, err)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ProductID < products[j].ProductID
	})

	return products, nil
}

type renameRequest struct {
	Name string `json:"name"`
}
