package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/jeffreyotan/fsdfinal/internal/auth/credentials"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/mailer"

	"github.com/gin-gonic/gin"
)

const verificationSubject = "[Quick Journal] Please verify your email"

type verifyRequest struct {
	Hash string `json:"hash"`
}

func (h *Handler) Register(c *gin.Context) {
	var req credentials.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reg, err := h.credentials.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		case errors.Is(err, credentials.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("registration failed", map[string]any{
				"username": req.Username,
				"error":    err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "New user registration unsuccessful!"})
		}
		return
	}

	msg := mailer.Message{
		To:      reg.Email,
		Subject: verificationSubject,
		HTML:    verificationBody(reg.Username, reg.VerificationCode),
	}
	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		logger.Error("verification mail failed", map[string]any{
			"username": reg.Username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to send verification email"})
		return
	}

	logger.Info("user registered", map[string]any{
		"username": reg.Username,
		"user_id":  reg.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User created.. Please kindly verify your email (you will receive a verification email)!",
	})
}

func verificationBody(username string, code string) string {
	return fmt.Sprintf(
		"<p>Dear %s, please kindly verify your email with verification code <strong>%s</strong>. Thank you!</p>",
		html.EscapeString(username),
		html.EscapeString(code),
	)
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A hash is required to verify a user. Please try again."})
		return
	}

	username, err := h.credentials.Verify(c.Request.Context(), req.Hash)
	switch {
	case errors.Is(err, credentials.ErrInvalidVerificationCode):
		c.JSON(http.StatusNotFound, gin.H{"error": "An invalid hash was provided. Please try again with a valid hash."})
		return
	case err != nil:
		logger.Error("verification failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User could not be verified!"})
		return
	}

	logger.Info("user verified", map[string]any{
		"username": username,
	})

	c.JSON(http.StatusOK, gin.H{"message": "User verified.. You can now start using the account."})
}
