// Package gateway is the thin authorized-HTTP abstraction through which the
// catalog and cart services reach the backend mutation API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/creastat/storefront"
	"github.com/creastat/storefront/auth"
)

// SessionReader reads the current session.
type SessionReader interface {
	Current() *auth.Session
}

// Config holds backend API connection configuration.
type Config struct {
	// BaseURL is the backend mutation API root, e.g. "https://api.example.com".
	BaseURL string

	// Timeout bounds each request. Default: 15 seconds.
	Timeout time.Duration

	// HTTPClient optionally overrides the HTTP client, for tests.
	HTTPClient *http.Client
}

// Gateway issues bearer-authenticated requests to the backend API. It never
// retries; mutations are not proven idempotent at this layer, so every
// failure is terminal for that user action.
type Gateway struct {
	baseURL  string
	http     *http.Client
	sessions SessionReader
	logger   *slog.Logger
}

// Option is a functional option for configuring a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used by the gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates a gateway for the backend mutation API.
func New(cfg Config, sessions SessionReader, opts ...Option) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend API base URL is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	g := &Gateway{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		http:     client,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Call sends an authorized request and reports success or failure. It fails
// with an auth error before sending anything when no session exists, and
// with a fetch error when the request fails or the backend returns a
// non-success status.
func (g *Gateway) Call(ctx context.Context, method, path string, body any) error {
	sess := g.sessions.Current()
	if sess == nil {
		return fmt.Errorf("%s %s: %w", method, path, storefront.ErrAuth)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, storefront.ErrFetch, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		g.logger.Warn("backend call rejected", "method", method, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%s %s: %w: status %d", method, path, storefront.ErrFetch, resp.StatusCode)
	}

	return nil
}
