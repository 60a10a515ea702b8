package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// ProviderConfig holds identity-provider connection configuration.
type ProviderConfig struct {
	// ProjectReference is the Supabase project reference.
	ProjectReference string

	// APIKey is the anon API key.
	APIKey string

	// URL optionally overrides the derived GoTrue endpoint, for self-hosted
	// deployments and tests.
	URL string
}

// gotrueProvider implements Provider against a GoTrue auth server.
type gotrueProvider struct {
	client gotrue.Client
}

// NewGotrueProvider creates an identity provider backed by Supabase GoTrue.
func NewGotrueProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.ProjectReference == "" && cfg.URL == "" {
		return nil, fmt.Errorf("gotrue project reference or url is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gotrue API key is required")
	}

	client := gotrue.New(cfg.ProjectReference, cfg.APIKey)
	if cfg.URL != "" {
		client = client.WithCustomGoTrueURL(cfg.URL)
	}
	return &gotrueProvider{client: client}, nil
}

// SignIn implements Provider.
func (p *gotrueProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return sessionFromToken(resp), nil
}

// SignUp implements Provider.
func (p *gotrueProvider) SignUp(ctx context.Context, email, password string) error {
	_, err := p.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}

// SignOut implements Provider.
func (p *gotrueProvider) SignOut(ctx context.Context, accessToken string) error {
	if err := p.client.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// Refresh implements Provider.
func (p *gotrueProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	resp, err := p.client.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	return sessionFromToken(resp), nil
}

func sessionFromToken(t *types.TokenResponse) *Session {
	return &Session{
		UserID:       t.User.ID,
		Email:        t.User.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(t.ExpiresIn) * time.Second),
	}
}

// Compile-time check that gotrueProvider implements Provider
var _ Provider = (*gotrueProvider)(nil)
