// Package app wires the storefront client together: identity provider to
// session store, session transitions to catalog and cart refreshes, and
// service state to the rendering adapter.
package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/creastat/storefront/auth"
	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
	"github.com/creastat/storefront/config"
	"github.com/creastat/storefront/gateway"
	"github.com/creastat/storefront/supabase"
	"github.com/creastat/storefront/view"
)

// App owns the assembled storefront client.
type App struct {
	Sessions   *auth.Store
	Catalog    *catalog.Service
	Cart       *cart.Service
	Controller *view.Controller

	store   supabase.Store
	persist auth.Persistence
	logger  *slog.Logger
}

// Option is a functional option for configuring an App.
type Option func(*App)

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New builds the storefront client from configuration. The renderer is the
// caller's rendering adapter.
func New(cfg config.Config, renderer view.Renderer, opts ...Option) (*App, error) {
	a := &App{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	store, err := supabase.New(supabase.Config{
		URL:    cfg.SupabaseURL,
		APIKey: cfg.SupabaseAnonKey,
	})
	if err != nil {
		return nil, err
	}
	a.store = store

	provider, err := auth.NewGotrueProvider(auth.ProviderConfig{
		APIKey: cfg.SupabaseAnonKey,
		URL:    cfg.AuthURL,
	})
	if err != nil {
		return nil, err
	}

	persist, err := newPersistence(cfg)
	if err != nil {
		return nil, err
	}
	a.persist = persist

	a.Sessions = auth.NewStore(provider, persist, auth.WithLogger(a.logger))

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
	}, a.Sessions, gateway.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	a.Catalog = catalog.NewService(store, gw, a.Sessions, catalog.WithLogger(a.logger))
	a.Cart = cart.NewService(store, gw, a.Sessions, cart.WithLogger(a.logger))
	a.Controller = view.NewController(a.Sessions, a.Catalog, a.Cart, renderer, view.WithLogger(a.logger))

	return a, nil
}

func newPersistence(cfg config.Config) (auth.Persistence, error) {
	switch auth.PersistenceType(cfg.SessionDriver) {
	case auth.PersistenceRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return auth.NewPersistence(auth.PersistenceRedis,
			auth.WithRedisClient(client),
			auth.WithRedisTTL(cfg.SessionTTL),
		)
	default:
		return auth.NewPersistence(auth.PersistenceType(cfg.SessionDriver))
	}
}

// Start subscribes the refresh pipeline to session transitions and performs
// the startup session lookup, which delivers the first change event and
// with it the initial catalog fetch and render. Every transition after that
// follows the same path: refresh the catalog, refresh or clear the cart,
// re-render.
func (a *App) Start(ctx context.Context) error {
	a.Sessions.OnChange(func(sess *auth.Session) {
		if _, err := a.Catalog.Refresh(ctx); err != nil {
			a.Controller.CatalogFailed(err)
		} else {
			a.Controller.CatalogRefreshed()
		}

		if _, err := a.Cart.Refresh(ctx); err != nil {
			a.logger.Warn("cart refresh failed, keeping last known state", "error", err)
		}
		a.Controller.Rerender()
	})

	return a.Sessions.Load(ctx)
}

// Close releases the app's resources.
func (a *App) Close() error {
	if err := a.persist.Close(); err != nil {
		return err
	}
	return a.store.Close()
}
