package handlers

import (
	"errors"
	"net/http"

	"betline/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps the core's typed errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyClosed),
		errors.Is(err, services.ErrSettlementInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidStake),
		errors.Is(err, services.ErrInvalidOutcome),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrMarketClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
