package handlers

import (
	"net/http"

	"betline/internal/auth"
	"betline/internal/models"
	"betline/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles account registration and token issuance. Credential
// verification lives with the upstream gateway; this service only mints
// identity tokens for known usernames.
type AuthHandler struct {
	accountService *services.AccountService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
	}
}

// Register creates a new account and returns a token for it
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := auth.GenerateToken(account.ID, account.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"account": account,
	})
}

// Token issues a token for an existing account
// POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountService.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	token, err := auth.GenerateToken(account.ID, account.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"account": account,
	})
}

// GetMe returns the currently authenticated account
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	accountID, exists := auth.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": account,
	})
}

// GetStats returns the caller's wagering statistics
// GET /api/stats
func (h *AuthHandler) GetStats(c *gin.Context) {
	accountID, exists := auth.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.accountService.Stats(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
