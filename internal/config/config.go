package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	AppPort   string `env:"APP_PORT,default=3000"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	StaticDir string `env:"STATIC_DIR,default=./public"`

	// comma separated, "*" allows any origin
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	TokenSecret string        `env:"TOKEN_SECRET"`
	TokenIssuer string        `env:"TOKEN_ISSUER,default=quickjournal"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,default=3h"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	MailFrom         string `env:"MAIL_FROM"`
	MailSMTPAddr     string `env:"MAIL_SMTP_ADDR,default=smtp.gmail.com:587"`
	MailClientID     string `env:"MAIL_OAUTH_CLIENT_ID"`
	MailClientSecret string `env:"MAIL_OAUTH_CLIENT_SECRET"`
	MailRefreshToken string `env:"MAIL_OAUTH_REFRESH_TOKEN"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.AppPort == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	if c.TokenSecret == "" {
		errs = append(errs, errors.New("TOKEN_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}

	return errors.Join(errs...)
}

// MailEnabled reports whether all SMTP OAuth2 settings are present.
func (c Config) MailEnabled() bool {
	return c.MailFrom != "" && c.MailClientID != "" &&
		c.MailClientSecret != "" && c.MailRefreshToken != ""
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != "" && c.KeycloakClientID != "" &&
		c.KeycloakRedirectURL != "" && c.KeycloakPublicBaseURL != ""
}

// AllowedOrigins splits CORSAllowedOrigins into its non-empty entries.
func (c Config) AllowedOrigins() []string {
	origins := lo.Map(strings.Split(c.CORSAllowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	})
	return lo.Compact(origins)
}
