package supabase

import (
	"context"

	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
)

// Store provides read access to the storefront's Supabase data stores. The
// catalog is public; cart rows are scoped to the authenticated principal by
// the store's row-level security, keyed off the access token.
type Store interface {
	// ListProducts returns all rows of products_view, ordered by product ID
	// ascending.
	ListProducts(ctx context.Context) ([]catalog.Product, error)

	// SearchProducts returns products_view rows whose name matches the
	// query, case-insensitively.
	SearchProducts(ctx context.Context, query string) ([]catalog.Product, error)

	// ListCartItems returns the current user's cart_items joined with the
	// product name and price snapshot.
	ListCartItems(ctx context.Context, accessToken string) ([]cart.Line, error)

	// Close closes the client and releases resources.
	Close() error
}
