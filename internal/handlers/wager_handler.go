package handlers

import (
	"net/http"
	"strconv"

	"betline/internal/auth"
	"betline/internal/models"
	"betline/internal/services"

	"github.com/gin-gonic/gin"
)

type WagerHandler struct {
	wagerService *services.WagerService
}

func NewWagerHandler(wagerService *services.WagerService) *WagerHandler {
	return &WagerHandler{
		wagerService: wagerService,
	}
}

// PlaceWager places a stake on an open market
// POST /api/markets/:id/wagers
func (h *WagerHandler) PlaceWager(c *gin.Context) {
	accountID, exists := auth.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	marketID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid market id"})
		return
	}

	var req models.PlaceWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := models.ParseOutcome(req.Prediction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wager, err := h.wagerService.Place(c.Request.Context(), accountID, marketID, req.Stake, prediction)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, wager)
}

// GetMyWagers lists the caller's wagers
// GET /api/wagers
func (h *WagerHandler) GetMyWagers(c *gin.Context) {
	accountID, exists := auth.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 20
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	wagers, err := h.wagerService.ListByAccount(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get wagers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wagers": wagers,
		"total":  len(wagers),
	})
}
