package middleware

import (
	"net/http"

	"github.com/jeffreyotan/fsdfinal/internal/auth/token"

	"github.com/gin-gonic/gin"
)

// Keys under which GinRequireAuth stores the verified caller.
const (
	ContextIdentityKey = "identity"
	ContextClaimsKey   = "claims"
)

// GinRequireAuth runs RequireAuth inside a gin chain. The gin chain only
// continues when RequireAuth let the request through; otherwise its error
// response stands.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		auth.RequireAuth(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				c.Set(ContextIdentityKey, claims.Identity())
				c.Set(ContextClaimsKey, claims)
			}
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identity returns the identity set by GinRequireAuth.
func Identity(c *gin.Context) string {
	return c.GetString(ContextIdentityKey)
}

// Claims returns the claims set by GinRequireAuth.
func Claims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}
