package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated-identity record for the current client. It
// carries the bearer credential presented on every authorized request. A nil
// *Session means no one is signed in.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session's bearer credential has passed its
// expiry time.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Provider is the identity-provider boundary. All session transitions go
// through a provider round trip; nothing else in the module writes auth
// state.
type Provider interface {
	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account. The account may require email
	// confirmation before it can sign in, so no session is returned.
	SignUp(ctx context.Context, email, password string) error

	// SignOut revokes the session identified by the access token.
	SignOut(ctx context.Context, accessToken string) error

	// Refresh exchanges a refresh token for a new session.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}
