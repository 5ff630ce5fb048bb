//go:generate go run go.uber.org/mock/mockgen -source=handler.go -destination=../../mocks/mock_auth_handler.go -package=mocks
package handler

import (
	"context"

	"github.com/jeffreyotan/fsdfinal/internal/auth/credentials"
	"github.com/jeffreyotan/fsdfinal/internal/auth/provider"
	"github.com/jeffreyotan/fsdfinal/internal/auth/resolver"
	"github.com/jeffreyotan/fsdfinal/internal/auth/token"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/mailer"
	"github.com/jeffreyotan/fsdfinal/internal/metrics"
	"github.com/jeffreyotan/fsdfinal/internal/session"

	"github.com/gin-gonic/gin"
)

// CredentialService is the account side of login: registration, email
// verification and password checks.
type CredentialService interface {
	Register(ctx context.Context, in credentials.RegisterInput) (*credentials.Registration, error)
	Verify(ctx context.Context, code string) (string, error)
	Authenticate(ctx context.Context, username string, password string) (string, error)
}

// Issuer signs bearer credentials for an already authenticated identity.
type Issuer interface {
	Issue(identity string) (token.Credential, error)
}

type Handler struct {
	credentials CredentialService
	issuer      Issuer
	denylist    session.Store
	mailer      mailer.Mailer
	metrics     *metrics.Metrics

	providers *provider.Registry
	resolver  resolver.Resolver

	// secureCookies marks the OAuth state and PKCE cookies Secure.
	secureCookies bool
}

func NewHandler(
	creds CredentialService,
	issuer Issuer,
	denylist session.Store,
	mail mailer.Mailer,
	m *metrics.Metrics,
) *Handler {
	if m == nil {
		m = metrics.Discard()
	}
	return &Handler{
		credentials:   creds,
		issuer:        issuer,
		denylist:      denylist,
		mailer:        mail,
		metrics:       m,
		secureCookies: true,
	}
}

// EnableOAuth turns on the external provider login routes.
func (h *Handler) EnableOAuth(registry *provider.Registry, r resolver.Resolver, secureCookies bool) {
	h.providers = registry
	h.resolver = r
	h.secureCookies = secureCookies
}

// RegisterRoutes mounts the account routes. protected must already carry
// the auth middleware.
func (h *Handler) RegisterRoutes(public gin.IRoutes, protected gin.IRoutes) {
	public.POST("/login", h.Login)
	public.POST("/newuser", h.Register)
	public.POST("/verify", h.Verify)

	protected.POST("/logout", h.Logout)

	if h.providers != nil && h.resolver != nil {
		public.GET("/oauth/login/:provider", h.oauthLogin)
		public.GET("/oauth/callback/:provider", h.oauthCallback)

		logger.Info("oauth login enabled", map[string]any{
			"providers": h.providers.Names(),
		})
	}
}
