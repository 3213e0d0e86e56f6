package services

import (
	"context"
	"fmt"
	"log"

	"betline/internal/models"
	"betline/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WagerService places wagers against open markets. Placement and settlement
// share the per-market lock registry, so a wager is either fully placed
// before a close begins (and included in its frozen set) or rejected after
// it, never half-applied.
type WagerService struct {
	repo   *repository.Repository
	ledger *LedgerService
	locks  *MarketLocks
}

func NewWagerService(repo *repository.Repository, ledger *LedgerService, locks *MarketLocks) *WagerService {
	return &WagerService{
		repo:   repo,
		ledger: ledger,
		locks:  locks,
	}
}

// Place debits the stake from the bettor and records the wager as one unit
// of work. A failed debit leaves the market's wager set untouched; a failed
// insert rolls the debit back.
func (s *WagerService) Place(
	ctx context.Context,
	accountID uint,
	marketID uint,
	stake decimal.Decimal,
	prediction models.Outcome,
) (*models.Wager, error) {
	if stake.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidStake
	}
	if !prediction.Valid() {
		return nil, ErrInvalidOutcome
	}

	// Placement and closing are mutually exclusive per market. The lock is
	// held only for the duration of one transaction, so waiting is bounded.
	mu := s.locks.Get(marketID)
	mu.Lock()
	defer mu.Unlock()

	var wager *models.Wager
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		market, err := repo.GetMarketByID(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to get market %d: %w", marketID, err)
		}
		if market.Status != models.MarketStatusOpen {
			return ErrMarketClosed
		}

		ledger := s.ledger.withRepo(repo)
		if err := ledger.Debit(ctx, accountID, stake, models.TransactionTypeWagerPlaced,
			fmt.Sprintf("wager on market %d", marketID)); err != nil {
			return err
		}

		wager = &models.Wager{
			AccountID:  accountID,
			MarketID:   marketID,
			Stake:      stake,
			Prediction: prediction,
		}
		return repo.CreateWager(ctx, wager)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Account %d wagered %s on %s for market %d (wager %d)",
		accountID, stake, prediction, marketID, wager.ID)
	return wager, nil
}

// ListByAccount retrieves an account's wagers, newest first
func (s *WagerService) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]models.Wager, error) {
	return s.repo.ListAccountWagers(ctx, accountID, limit, offset)
}
