package app

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/jeffreyotan/fsdfinal/internal/auth/credentials"
	"github.com/jeffreyotan/fsdfinal/internal/auth/handler"
	"github.com/jeffreyotan/fsdfinal/internal/auth/provider"
	"github.com/jeffreyotan/fsdfinal/internal/auth/provider/google"
	"github.com/jeffreyotan/fsdfinal/internal/auth/provider/keycloak"
	"github.com/jeffreyotan/fsdfinal/internal/auth/resolver"
	"github.com/jeffreyotan/fsdfinal/internal/auth/token"
	"github.com/jeffreyotan/fsdfinal/internal/config"
	"github.com/jeffreyotan/fsdfinal/internal/finance"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/mailer"
	"github.com/jeffreyotan/fsdfinal/internal/metrics"
	"github.com/jeffreyotan/fsdfinal/internal/middleware"
	"github.com/jeffreyotan/fsdfinal/internal/presence"
	"github.com/jeffreyotan/fsdfinal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services is everything the router needs. setupHTTP fills it from real
// infrastructure; tests fill it with fakes.
type Services struct {
	Credentials handler.CredentialService
	Authn       *token.Authenticator
	Denylist    session.Store
	Mailer      mailer.Mailer
	Ledgers     finance.LedgerRepository
	Presence    *presence.Registry

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// optional OIDC login
	Providers *provider.Registry
	Resolver  resolver.Resolver

	AllowedOrigins []string
	StaticDir      string
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	authn, err := token.NewAuthenticator(
		[]byte(cfg.TokenSecret),
		token.WithIssuer(cfg.TokenIssuer),
		token.WithTTL(cfg.TokenTTL),
	)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	mail, err := newMailer(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	providers, err := newProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	chat := presence.NewRegistry(presence.WithMetrics(m))

	router := newRouter(Services{
		Credentials:    credentials.NewService(credentials.NewPostgresRepository(infra.DB)),
		Authn:          authn,
		Denylist:       infra.Denylist(),
		Mailer:         mail,
		Ledgers:        finance.NewPostgresRepository(infra.DB),
		Presence:       chat,
		Metrics:        m,
		Gatherer:       reg,
		Providers:      providers,
		Resolver:       resolver.NewDBResolver(infra.DB),
		AllowedOrigins: cfg.AllowedOrigins(),
		StaticDir:      cfg.StaticDir,
	})

	return router, func() error {
		chat.CloseAll()
		return infra.Close()
	}, nil
}

func newMailer(ctx context.Context, cfg config.Config) (mailer.Mailer, error) {
	if !cfg.MailEnabled() {
		logger.Warn("mail settings incomplete, verification mails are logged only", nil)
		return mailer.LogMailer{}, nil
	}

	return mailer.NewSMTPMailer(ctx, mailer.SMTPConfig{
		Addr:         cfg.MailSMTPAddr,
		From:         cfg.MailFrom,
		ClientID:     cfg.MailClientID,
		ClientSecret: cfg.MailClientSecret,
		RefreshToken: cfg.MailRefreshToken,
	})
}

// newProviders returns nil when no provider is configured.
func newProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(
			ctx,
			cfg.KeycloakIssuer,
			cfg.KeycloakClientID,
			cfg.KeycloakRedirectURL,
			cfg.KeycloakPublicBaseURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if len(list) == 0 {
		return nil, nil
	}
	return provider.NewRegistry(list...), nil
}

func newRouter(s Services) *gin.Engine {
	if s.Metrics == nil {
		s.Metrics = metrics.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.AccessLog())
	if len(s.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(s.AllowedOrigins))
	}

	authMiddleware := middleware.NewAuthMiddleware(s.Authn, s.Denylist, s.Metrics)

	// ----------------------------
	// Public + protected API
	// ----------------------------

	protected := router.Group("/")
	protected.Use(middleware.GinRequireAuth(authMiddleware))

	authHandler := handler.NewHandler(s.Credentials, s.Authn, s.Denylist, s.Mailer, s.Metrics)
	if s.Providers != nil && s.Resolver != nil {
		authHandler.EnableOAuth(s.Providers, s.Resolver, true)
	}
	authHandler.RegisterRoutes(router, protected)

	finance.NewHandler(finance.NewService(s.Ledgers)).RegisterRoutes(router, protected)

	presence.NewHandler(s.Presence, s.AllowedOrigins).RegisterRoutes(router)

	// ----------------------------
	// Operations
	// ----------------------------

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	// ----------------------------
	// Web client
	// ----------------------------

	if s.StaticDir != "" {
		if info, err := os.Stat(s.StaticDir); err == nil && info.IsDir() {
			router.NoRoute(serveClient(s.StaticDir))
		} else {
			logger.Warn("static directory not found, web client disabled", map[string]any{
				"dir": s.StaticDir,
			})
		}
	}

	return router
}

// serveClient serves files from dir and falls back to index.html so the
// single page client can handle its own routes.
func serveClient(dir string) gin.HandlerFunc {
	fs := gin.Dir(dir, false)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		if f, err := fs.Open(name); err == nil {
			info, statErr := f.Stat()
			_ = f.Close()
			if statErr == nil && !info.IsDir() {
				c.FileFromFS(name, fs)
				return
			}
		}

		c.File(filepath.Join(dir, "index.html"))
	}
}
