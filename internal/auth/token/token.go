// Package token issues and verifies the bearer credentials handed out at login.
//
// Credentials are HS256 JWTs. Verification is stateless: it depends only on
// the shared secret, the clock and the presented header. Revocation is layered
// on top by the caller (see internal/session).
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Scheme = "Bearer"

	DefaultIssuer = "quickjournal"
	DefaultTTL    = 3 * time.Hour
)

var (
	ErrUnauthenticated   = errors.New("token: no credential supplied")
	ErrMalformedHeader   = errors.New("token: incorrect authorization header")
	ErrInvalidCredential = errors.New("token: invalid or expired credential")
)

// LoginData is the auxiliary claim carried under "data".
type LoginData struct {
	LoginTime string `json:"loginTime"`
}

type Claims struct {
	Data LoginData `json:"data"`
	jwt.RegisteredClaims
}

// Identity returns the subject the credential was issued for.
func (c *Claims) Identity() string {
	return c.Subject
}

// Credential is an issued, signed token together with its decoded claims.
type Credential struct {
	Token     string
	ID        string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Authenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Authenticator)

func WithIssuer(issuer string) Option {
	return func(a *Authenticator) {
		a.issuer = issuer
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		a.ttl = ttl
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

func NewAuthenticator(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: empty signing secret")
	}

	a := &Authenticator{
		secret: secret,
		issuer: DefaultIssuer,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}

	return a, nil
}

func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// Issue signs a new credential for an identity whose password has already
// been checked.
func (a *Authenticator) Issue(identity string) (Credential, error) {
	if identity == "" {
		return Credential{}, errors.New("token: empty identity")
	}

	// jwt NumericDate has second precision
	issuedAt := a.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(a.ttl)
	id := uuid.NewString()

	claims := &Claims{
		Data: LoginData{LoginTime: issuedAt.Format(time.RFC1123Z)},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   identity,
			Issuer:    a.issuer,
			IssuedAt:  &jwt.NumericDate{Time: issuedAt},
			ExpiresAt: &jwt.NumericDate{Time: expiresAt},
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("token: sign: %w", err)
	}

	return Credential{
		Token:     signed,
		ID:        id,
		Subject:   identity,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseBearer splits an Authorization header value into its token.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrUnauthenticated
	}

	terms := strings.Split(header, " ")
	if len(terms) != 2 || terms[0] != Scheme {
		return "", ErrMalformedHeader
	}

	return terms[1], nil
}

// Verify checks an Authorization header value and returns the claims of a
// valid credential. The returned error always wraps one of ErrUnauthenticated,
// ErrMalformedHeader or ErrInvalidCredential.
func (a *Authenticator) Verify(header string) (*Claims, error) {
	raw, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}

	return a.VerifyToken(raw)
}

// VerifyToken is Verify for a bare token string.
func (a *Authenticator) VerifyToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}

	return claims, nil
}
