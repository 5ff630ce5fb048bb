package finance

import (
	"errors"
	"net/http"

	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the read routes on public and the mutating routes on
// protected, which must already carry the auth middleware.
func (h *Handler) RegisterRoutes(public gin.IRoutes, protected gin.IRoutes) {
	public.GET("/summary/:username", h.summary)
	public.GET("/transactions/:username", h.transactions)

	protected.POST("/createprofile", h.createProfile)
	protected.POST("/record", h.record)
	protected.POST("/clear", h.clear)
}

func (h *Handler) createProfile(c *gin.Context) {
	username := middleware.Identity(c)

	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.service.CreateProfile(c.Request.Context(), username, in); err != nil {
		switch {
		case errors.Is(err, ErrInvalidProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrProfileExists):
			c.JSON(http.StatusConflict, gin.H{"error": "profile already exists"})
		default:
			logger.Error("create profile failed", map[string]any{
				"username": username,
				"error":    err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed while creating profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User profile created"})
}

func (h *Handler) record(c *gin.Context) {
	username := middleware.Identity(c)

	var in TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tx, err := h.service.Record(c.Request.Context(), username, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTransaction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "create a profile before recording transactions"})
		default:
			logger.Error("record transaction failed", map[string]any{
				"username": username,
				"error":    err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed while adding transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction added to user", "data": tx})
}

func (h *Handler) clear(c *gin.Context) {
	username := middleware.Identity(c)

	if _, err := h.service.Clear(c.Request.Context(), username); err != nil {
		logger.Error("clear ledger failed", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed while clearing transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User transactions cleared"})
}

func (h *Handler) transactions(c *gin.Context) {
	username := c.Param("username")

	ledger, err := h.service.Ledger(c.Request.Context(), username)
	if errors.Is(err, ErrProfileNotFound) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}})
		return
	}
	if err != nil {
		logger.Error("load ledger failed", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ledger})
}

func (h *Handler) summary(c *gin.Context) {
	username := c.Param("username")

	summary, err := h.service.Summary(c.Request.Context(), username)
	if err != nil {
		logger.Error("load summary failed", map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
