package handlers

import (
	"net/http"
	"strconv"

	"betline/internal/auth"
	"betline/internal/models"
	"betline/internal/services"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	marketService     *services.MarketService
	settlementService *services.SettlementService
}

func NewMarketHandler(marketService *services.MarketService, settlementService *services.SettlementService) *MarketHandler {
	return &MarketHandler{
		marketService:     marketService,
		settlementService: settlementService,
	}
}

// CreateMarket opens a new betting line owned by the caller
// POST /api/markets
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	accountID, exists := auth.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market, err := h.marketService.Open(c.Request.Context(), accountID, req.Description, req.Threshold)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, market)
}

// GetOpenMarkets lists all open markets with their pot totals
// GET /api/markets
func (h *MarketHandler) GetOpenMarkets(c *gin.Context) {
	summaries, err := h.marketService.ListOpen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list markets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markets": summaries,
		"total":   len(summaries),
	})
}

// GetMarket retrieves one market with its wagers
// GET /api/markets/:id
func (h *MarketHandler) GetMarket(c *gin.Context) {
	marketID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid market id"})
		return
	}

	market, err := h.marketService.Get(c.Request.Context(), marketID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "market not found"})
		return
	}

	wagers, err := h.marketService.Wagers(c.Request.Context(), marketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get wagers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"market": market,
		"wagers": wagers,
	})
}

// CloseMarket settles a betting line with its resolved outcome
// POST /api/markets/:id/close
func (h *MarketHandler) CloseMarket(c *gin.Context) {
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

	var req models.CloseMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := models.ParseOutcome(req.Outcome)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.settlementService.SettleMarket(c.Request.Context(), accountID, marketID, outcome)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseID parses a numeric path parameter
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
