package provider

import (
	"context"

	"github.com/jeffreyotan/fsdfinal/internal/auth"
)

// OAuthProvider is one external login provider. Implementations return
// identity facts only and never create users or credentials.
type OAuthProvider interface {
	Name() string

	// AuthCodeURL returns the authorization URL for the given state and
	// S256 PKCE challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode redeems the authorization code and returns the verified
	// identity from the ID token.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
