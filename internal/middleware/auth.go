package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jeffreyotan/fsdfinal/internal/auth/token"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/metrics"
	"github.com/jeffreyotan/fsdfinal/internal/session"
)

// unexported, collision-proof context keys
type identityContextKeyType struct{}
type claimsContextKeyType struct{}

var (
	identityKey = identityContextKeyType{}
	claimsKey   = claimsContextKeyType{}
)

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	return id, ok
}

// ClaimsFromContext returns the verified credential claims.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

// WithClaims attaches verified claims to ctx.
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	ctx = context.WithValue(ctx, identityKey, claims.Identity())
	return context.WithValue(ctx, claimsKey, claims)
}

type Verifier interface {
	Verify(header string) (*token.Claims, error)
}

type AuthMiddleware struct {
	Verifier Verifier
	Denylist session.Store
	Metrics  *metrics.Metrics
}

func NewAuthMiddleware(verifier Verifier, denylist session.Store, m *metrics.Metrics) *AuthMiddleware {
	if m == nil {
		m = metrics.Discard()
	}
	return &AuthMiddleware{Verifier: verifier, Denylist: denylist, Metrics: m}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Verify the bearer credential
		claims, err := a.Verifier.Verify(r.Header.Get("Authorization"))
		switch {
		case errors.Is(err, token.ErrUnauthenticated):
			a.reject(w, "missing", http.StatusUnauthorized, map[string]any{
				"message": "Cannot access",
			})
			return
		case errors.Is(err, token.ErrMalformedHeader):
			a.reject(w, "malformed", http.StatusUnauthorized, map[string]any{
				"message": "incorrect Authorization",
			})
			return
		case err != nil:
			a.reject(w, "invalid", http.StatusForbidden, map[string]any{
				"message": "Incorrect token",
				"error":   err.Error(),
			})
			return
		}

		// 2. Consult the denylist for credentials revoked at logout
		if a.Denylist != nil {
			revoked, err := a.Denylist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logger.Error("denylist lookup failed", map[string]any{
					"error": err.Error(),
				})
				a.reject(w, "unavailable", http.StatusServiceUnavailable, map[string]any{
					"error": "unable to validate credential",
				})
				return
			}
			if revoked {
				a.reject(w, "revoked", http.StatusForbidden, map[string]any{
					"message": "Incorrect token",
					"error":   "credential has been revoked",
				})
				return
			}
		}

		// 3. Attach identity to context and continue
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (a *AuthMiddleware) reject(w http.ResponseWriter, reason string, status int, body map[string]any) {
	a.Metrics.AuthRejections.WithLabelValues(reason).Inc()
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
