package supabase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
)

// Config holds Supabase connection configuration
type Config struct {
	URL    string
	APIKey string
}

// Client implements the Store interface using Supabase. It holds no cache:
// every refresh is defined as an authoritative full re-fetch, and the
// service caches are the only caches.
type Client struct {
	client  *supabase.Client
	restURL string
	apiKey  string
}

// New creates a new Supabase client
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:  client,
		restURL: strings.TrimSuffix(cfg.URL, "/") + "/rest/v1",
		apiKey:  cfg.APIKey,
	}, nil
}

// ListProducts retrieves the full catalog from products_view
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	_, err := c.client.From("products_view").
		Select("*", "", false).
		Order("product_id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&products)

	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// SearchProducts retrieves products whose name matches the query
func (c *Client) SearchProducts(ctx context.Context, query string) ([]catalog.Product, error) {
	var products []catalog.Product
	_, err := c.client.From("products_view").
		Select("*", "", false).
		Ilike("name", "%"+query+"%").
		Order("product_id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&products)

	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// cartItemRow mirrors the cart_items join shape returned by the store.
type cartItemRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Products  struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	} `json:"products"`
}

// ListCartItems retrieves the authenticated user's cart lines. The user's
// access token replaces the anon credential so the store's row-level
// security scopes the rows.
func (c *Client) ListCartItems(ctx context.Context, accessToken string) ([]cart.Line, error) {
	rest := postgrest.NewClient(c.restURL, "", map[string]string{"apikey": c.apiKey})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("failed to create postgrest client: %w", rest.ClientError)
	}

	var rows []cartItemRow
	_, err := rest.SetAuthToken(accessToken).
		From("cart_items").
		Select("id,product_id,quantity,products(name,price)", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)

	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	lines := make([]cart.Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, cart.Line{
			CartItemID:  r.ID,
			ProductID:   r.ProductID,
			Quantity:    r.Quantity,
			UnitPrice:   r.Products.Price,
			ProductName: r.Products.Name,
		})
	}

	return lines, nil
}

// Close closes the Supabase client
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// Compile-time check that Client implements Store
var _ Store = (*Client)(nil)
