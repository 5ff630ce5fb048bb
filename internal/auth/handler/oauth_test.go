package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jeffreyotan/fsdfinal/internal/auth"
	"github.com/jeffreyotan/fsdfinal/internal/auth/handler"
	"github.com/jeffreyotan/fsdfinal/internal/auth/provider"
	"github.com/jeffreyotan/fsdfinal/internal/auth/token"
	"github.com/jeffreyotan/fsdfinal/internal/mailer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	gotVerifier string
	exchangeErr error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AuthCodeURL(state string, codeChallenge string) string {
	return "https://idp.example/auth?" + url.Values{
		"state":          {state},
		"code_challenge": {codeChallenge},
	}.Encode()
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code string, codeVerifier string) (*auth.Identity, error) {
	p.gotVerifier = codeVerifier
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &auth.Identity{Provider: "fake", ProviderUserID: "sub-1", Email: "alice@example.com"}, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, identity *auth.Identity) (string, error) {
	if identity.ProviderUserID != "sub-1" {
		return "", errors.New("unexpected identity")
	}
	return "alice", nil
}

func newOAuthRouter(t *testing.T, p *fakeProvider) (*gin.Engine, *token.Authenticator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authn, err := token.NewAuthenticator([]byte("oauth-secret"))
	require.NoError(t, err)

	h := handler.NewHandler(nil, authn, nil, mailer.LogMailer{}, nil)
	h.EnableOAuth(provider.NewRegistry(p), fakeResolver{}, false)

	router := gin.New()
	h.RegisterRoutes(router, router.Group("/"))
	return router, authn
}

func TestHandler_OAuth(t *testing.T) {
	t.Run("should complete the login with state and pkce cookies", func(t *testing.T) {
		req := require.New(t)
		p := &fakeProvider{}
		router, authn := newOAuthRouter(t, p)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/login/fake", nil))
		req.Equal(http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		req.NoError(err)
		state := location.Query().Get("state")
		req.NotEmpty(state)
		req.NotEmpty(location.Query().Get("code_challenge"))

		callback := httptest.NewRequest(http.MethodGet,
			"/oauth/callback/fake?code=abc&state="+url.QueryEscape(state), nil)
		for _, cookie := range rec.Result().Cookies() {
			callback.AddCookie(cookie)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, callback)
		req.Equal(http.StatusOK, rec.Code)
		req.NotEmpty(p.gotVerifier)

		var body map[string]any
		req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		claims, err := authn.VerifyToken(body["token"].(string))
		req.NoError(err)
		req.Equal("alice", claims.Identity())
	})

	t.Run("should reject a callback with a mismatched state", func(t *testing.T) {
		req := require.New(t)
		router, _ := newOAuthRouter(t, &fakeProvider{})

		callback := httptest.NewRequest(http.MethodGet, "/oauth/callback/fake?code=abc&state=forged", nil)
		callback.AddCookie(&http.Cookie{Name: "__oauth_state", Value: "genuine"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, callback)

		req.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject an unknown provider", func(t *testing.T) {
		req := require.New(t)
		router, _ := newOAuthRouter(t, &fakeProvider{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/login/github", nil))

		req.Equal(http.StatusBadRequest, rec.Code)
	})

	t.Run("should answer 401 when the exchange fails", func(t *testing.T) {
		req := require.New(t)
		router, _ := newOAuthRouter(t, &fakeProvider{exchangeErr: errors.New("invalid_grant")})

		callback := httptest.NewRequest(http.MethodGet, "/oauth/callback/fake?code=abc&state=s1", nil)
		callback.AddCookie(&http.Cookie{Name: "__oauth_state", Value: "s1"})
		callback.AddCookie(&http.Cookie{Name: "__oauth_pkce", Value: "verifier"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, callback)

		req.Equal(http.StatusUnauthorized, rec.Code)
	})
}
