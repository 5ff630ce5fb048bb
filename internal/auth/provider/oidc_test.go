package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jeffreyotan/fsdfinal/internal/auth/provider"

	"github.com/stretchr/testify/require"
)

// newIssuer serves a minimal discovery document and a token endpoint that
// always refuses the code.
func newIssuer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"jwks_uri":               srv.URL + "/keys",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	return srv
}

func TestNewOIDC(t *testing.T) {
	t.Run("should reject incomplete config", func(t *testing.T) {
		req := require.New(t)

		_, err := provider.NewOIDC(context.Background(), provider.OIDCConfig{Name: "x"})

		req.Error(err)
	})

	t.Run("should build an authorization url with pkce", func(t *testing.T) {
		req := require.New(t)
		srv := newIssuer(t)

		p, err := provider.NewOIDC(context.Background(), provider.OIDCConfig{
			Name:        "test",
			Issuer:      srv.URL,
			ClientID:    "client",
			RedirectURL: "http://app/oauth/callback/test",
		})
		req.NoError(err)
		req.Equal("test", p.Name())

		u, err := url.Parse(p.AuthCodeURL("the-state", "the-challenge"))
		req.NoError(err)
		req.Equal("/auth", u.Path)

		q := u.Query()
		req.Equal("the-state", q.Get("state"))
		req.Equal("the-challenge", q.Get("code_challenge"))
		req.Equal("S256", q.Get("code_challenge_method"))
		req.Equal("client", q.Get("client_id"))
	})

	t.Run("should use the auth url override", func(t *testing.T) {
		req := require.New(t)
		srv := newIssuer(t)

		p, err := provider.NewOIDC(context.Background(), provider.OIDCConfig{
			Name:        "test",
			Issuer:      srv.URL,
			ClientID:    "client",
			RedirectURL: "http://app/cb",
			AuthURL:     "http://public.example/auth",
		})
		req.NoError(err)

		u, err := url.Parse(p.AuthCodeURL("s", "c"))
		req.NoError(err)
		req.Equal("public.example", u.Host)
	})

	t.Run("should fail the exchange when the issuer refuses the code", func(t *testing.T) {
		req := require.New(t)
		srv := newIssuer(t)

		p, err := provider.NewOIDC(context.Background(), provider.OIDCConfig{
			Name:        "test",
			Issuer:      srv.URL,
			ClientID:    "client",
			RedirectURL: "http://app/cb",
		})
		req.NoError(err)

		identity, err := p.ExchangeCode(context.Background(), "bad-code", "verifier")

		req.Error(err)
		req.Nil(identity)
	})
}

func TestRegistry(t *testing.T) {
	req := require.New(t)
	srv := newIssuer(t)

	a, err := provider.NewOIDC(context.Background(), provider.OIDCConfig{
		Name: "zeta", Issuer: srv.URL, ClientID: "c", RedirectURL: "http://app/cb",
	})
	req.NoError(err)
	b, err := provider.NewOIDC(context.Background(), provider.OIDCConfig{
		Name: "alpha", Issuer: srv.URL, ClientID: "c", RedirectURL: "http://app/cb",
	})
	req.NoError(err)

	r := provider.NewRegistry(a, b)

	req.Equal([]string{"alpha", "zeta"}, r.Names())
	got, err := r.Get("zeta")
	req.NoError(err)
	req.Equal("zeta", got.Name())

	_, err = r.Get("github")
	req.Error(err)
}
