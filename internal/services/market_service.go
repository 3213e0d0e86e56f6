package services

import (
	"context"
	"fmt"
	"log"

	"betline/internal/models"
	"betline/internal/repository"

	"github.com/shopspring/decimal"
)

// MarketService opens betting lines and serves read-only views of them.
// Closing a market is the settlement engine's job; no other path exists.
type MarketService struct {
	repo *repository.Repository
}

func NewMarketService(repo *repository.Repository) *MarketService {
	return &MarketService{repo: repo}
}

// Open creates a new open market owned by the given account
func (s *MarketService) Open(
	ctx context.Context,
	ownerID uint,
	description string,
	threshold decimal.Decimal,
) (*models.Market, error) {
	if _, err := s.repo.GetAccountByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to resolve owner %d: %w", ownerID, err)
	}

	market := &models.Market{
		Description: description,
		Threshold:   threshold,
		OwnerID:     ownerID,
		Status:      models.MarketStatusOpen,
	}

	if err := s.repo.CreateMarket(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}

	log.Printf("Opened market %d (%q, threshold %s) for account %d",
		market.ID, market.Description, market.Threshold, ownerID)
	return market, nil
}

// Get retrieves a market by ID
func (s *MarketService) Get(ctx context.Context, marketID uint) (*models.Market, error) {
	return s.repo.GetMarketByID(ctx, marketID)
}

// ListOpen returns a snapshot of all open markets with their pot totals
func (s *MarketService) ListOpen(ctx context.Context) ([]models.MarketSummary, error) {
	markets, err := s.repo.ListOpenMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open markets: %w", err)
	}

	summaries := make([]models.MarketSummary, 0, len(markets))
	for _, market := range markets {
		count, pot, err := s.repo.CountMarketWagers(ctx, market.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to total pot for market %d: %w", market.ID, err)
		}
		summaries = append(summaries, models.MarketSummary{
			Market:   market,
			Wagers:   count,
			TotalPot: pot,
		})
	}

	return summaries, nil
}

// Wagers returns all wagers placed against a market in placement order
func (s *MarketService) Wagers(ctx context.Context, marketID uint) ([]models.Wager, error) {
	return s.repo.ListMarketWagers(ctx, marketID)
}
