package handler

import (
	"errors"
	"net/http"

	"github.com/jeffreyotan/fsdfinal/internal/auth/credentials"
	"github.com/jeffreyotan/fsdfinal/internal/auth/token"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	username, err := h.credentials.Authenticate(
		c.Request.Context(),
		req.Username,
		req.Password,
	)
	switch {
	case errors.Is(err, credentials.ErrNotVerified):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please verify your email before logging in"})
		return
	case err != nil:
		logger.Info("login rejected", map[string]any{
			"username": req.Username,
			"ip":       c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.respondWithCredential(c, username, "Login successful")
}

// respondWithCredential issues a credential for username and writes it in
// the login response shape.
func (h *Handler) respondWithCredential(c *gin.Context, username string, message string) {
	cred, err := h.issuer.Issue(username)
	if err != nil {
		logger.Error("issue credential failed", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to issue credential"})
		return
	}

	h.metrics.CredentialsIssued.Inc()
	logger.Info("credential issued", map[string]any{
		"username":   username,
		"jti":        cred.ID,
		"expires_at": cred.ExpiresAt,
		"ip":         c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"token":      cred.Token,
		"token_type": token.Scheme,
	})
}

// Logout revokes the presented credential until it would have expired.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Cannot access"})
		return
	}

	if h.denylist == nil {
		c.Status(http.StatusNoContent)
		return
	}

	expiresAt := claims.ExpiresAt.Time
	if err := h.denylist.Revoke(c.Request.Context(), claims.ID, expiresAt); err != nil {
		logger.Error("revoke credential failed", map[string]any{
			"username": claims.Identity(),
			"jti":      claims.ID,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to log out"})
		return
	}

	logger.Info("credential revoked", map[string]any{
		"username": claims.Identity(),
		"jti":      claims.ID,
		"ip":       c.ClientIP(),
	})

	c.Status(http.StatusNoContent)
}
