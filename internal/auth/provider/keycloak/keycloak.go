// Package keycloak configures a Keycloak realm as an OpenID Connect login
// provider.
package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jeffreyotan/fsdfinal/internal/auth/provider"
)

const providerName = "keycloak"

// New discovers the realm at issuer, e.g.
// http://keycloak:8080/realms/quickjournal. Browsers are sent to the same
// realm under publicBaseURL, which differs from issuer when the server
// reaches Keycloak over an internal network.
func New(ctx context.Context, issuer string, clientID string, redirectURL string, publicBaseURL string) (*provider.OIDCProvider, error) {
	if issuer == "" || clientID == "" || redirectURL == "" || publicBaseURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}

	authURL, err := PublicAuthURL(issuer, publicBaseURL)
	if err != nil {
		return nil, err
	}

	return provider.NewOIDC(ctx, provider.OIDCConfig{
		Name:        providerName,
		Issuer:      issuer,
		ClientID:    clientID,
		RedirectURL: redirectURL,
		AuthURL:     authURL,
	})
}

// PublicAuthURL rebases the realm's authorization endpoint onto publicBaseURL.
func PublicAuthURL(issuer string, publicBaseURL string) (string, error) {
	u, err := url.Parse(issuer)
	if err != nil {
		return "", fmt.Errorf("keycloak issuer: %w", err)
	}
	if !strings.Contains(u.Path, "/realms/") {
		return "", fmt.Errorf("keycloak issuer %q has no realm path", issuer)
	}

	base := strings.TrimRight(publicBaseURL, "/")
	realmPath := strings.TrimRight(u.Path, "/")
	return base + realmPath + "/protocol/openid-connect/auth", nil
}
