package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"betline/internal/models"
	"betline/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementService closes a market and redistributes its pot. The whole
// settlement runs inside one database transaction: the closed transition,
// every wager's result flag and every winner credit commit together or not
// at all.
type SettlementService struct {
	repo   *repository.Repository
	ledger *LedgerService
	locks  *MarketLocks
}

func NewSettlementService(repo *repository.Repository, ledger *LedgerService, locks *MarketLocks) *SettlementService {
	return &SettlementService{
		repo:   repo,
		ledger: ledger,
		locks:  locks,
	}
}

// SettleMarket validates the caller's authority, freezes the wager set,
// computes the pari-mutuel distribution and applies it through the ledger.
// A concurrent call for the same market fails fast with
// ErrSettlementInProgress; a call on an already-closed market fails with
// ErrAlreadyClosed and has no side effects.
func (s *SettlementService) SettleMarket(
	ctx context.Context,
	callerID uint,
	marketID uint,
	outcome models.Outcome,
) (*models.SettlementResult, error) {
	if !outcome.Valid() {
		return nil, ErrInvalidOutcome
	}

	mu := s.locks.Get(marketID)
	if !mu.TryLock() {
		return nil, ErrSettlementInProgress
	}
	defer mu.Unlock()

	var result *models.SettlementResult
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		market, err := repo.GetMarketByID(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to get market %d: %w", marketID, err)
		}
		if market.OwnerID != callerID {
			return ErrUnauthorized
		}
		if market.Status != models.MarketStatusOpen {
			return ErrAlreadyClosed
		}

		// The market lock excludes placement, so this list is the frozen
		// set of every wager that completed its debit before close began.
		wagers, err := repo.ListMarketWagers(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to load wagers for market %d: %w", marketID, err)
		}

		settlement := settlePool(wagers, outcome)

		now := time.Now()
		if err := repo.CloseMarket(ctx, marketID, outcome, now); err != nil {
			return fmt.Errorf("failed to close market %d: %w", marketID, err)
		}
		market.Status = models.MarketStatusClosed
		market.Outcome = &outcome
		market.ResolvedAt = &now

		for i := range wagers {
			won := wagers[i].Prediction == outcome
			if err := repo.SetWagerResult(ctx, wagers[i].ID, won); err != nil {
				return fmt.Errorf("failed to flag wager %d: %w", wagers[i].ID, err)
			}
			wagers[i].IsWon = &won
		}

		ledger := s.ledger.withRepo(repo)
		for _, payout := range settlement.Payouts {
			if err := ledger.Credit(ctx, payout.AccountID, payout.Amount,
				models.TransactionTypeWagerWon,
				fmt.Sprintf("winnings from market %d", marketID)); err != nil {
				return err
			}
		}

		if err := s.applyStats(ctx, repo, wagers, settlement); err != nil {
			return err
		}

		result = &models.SettlementResult{
			Market:     market,
			Wagers:     wagers,
			Payouts:    settlement.Payouts,
			TotalPot:   settlement.TotalPot,
			WinningPot: settlement.WinningPot,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Settled market %d as %s: pot %s across %d wagers, %d winning accounts",
		marketID, outcome, result.TotalPot, len(result.Wagers), len(result.Payouts))
	return result, nil
}

// applyStats folds the settlement into each bettor's aggregate statistics
func (s *SettlementService) applyStats(
	ctx context.Context,
	repo *repository.Repository,
	wagers []models.Wager,
	settlement poolSettlement,
) error {
	type accountDelta struct {
		wagers  int64
		wins    int64
		losses  int64
		wagered decimal.Decimal
		won     decimal.Decimal
	}

	deltas := make(map[uint]*accountDelta)
	var order []uint
	for _, w := range wagers {
		delta, ok := deltas[w.AccountID]
		if !ok {
			delta = &accountDelta{wagered: decimal.Zero, won: decimal.Zero}
			deltas[w.AccountID] = delta
			order = append(order, w.AccountID)
		}
		delta.wagers++
		delta.wagered = delta.wagered.Add(w.Stake)
		if w.IsWon != nil && *w.IsWon {
			delta.wins++
			delta.won = delta.won.Add(settlement.WagerPayouts[w.ID])
		} else {
			delta.losses++
		}
	}

	for _, accountID := range order {
		delta := deltas[accountID]
		if err := repo.IncrementAccountStats(ctx, accountID,
			delta.wagers, delta.wins, delta.losses, delta.wagered, delta.won); err != nil {
			return fmt.Errorf("failed to update stats for account %d: %w", accountID, err)
		}
	}
	return nil
}
