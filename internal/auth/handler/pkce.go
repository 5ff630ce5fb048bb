package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/jeffreyotan/fsdfinal/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	pkceCookieName    = "__oauth_pkce"
	pkceVerifierBytes = 32
)

// generatePKCE stores a fresh verifier in a cookie and returns its S256
// challenge.
func (h *Handler) generatePKCE(c *gin.Context) (string, error) {
	verifier, err := utils.RandomString(pkceVerifierBytes)
	if err != nil {
		return "", err
	}

	h.setFlowCookie(c, pkceCookieName, verifier, stateTTL)
	return pkceChallenge(verifier), nil
}

func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func (h *Handler) pkceVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	h.clearFlowCookie(c, pkceCookieName)
	return cookie.Value
}
