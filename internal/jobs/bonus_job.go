package jobs

import (
	"context"
	"log"
	"time"

	"betline/internal/repository"
	"betline/internal/services"

	"github.com/shopspring/decimal"
)

// BonusJob periodically sweeps all accounts and applies the weekly balance
// bonus to those whose seven-day window has elapsed. The ledger's timestamp
// check is the only deduplication; running this job from more than one
// process is not supported.
type BonusJob struct {
	repo     *repository.Repository
	ledger   *services.LedgerService
	amount   decimal.Decimal
	interval time.Duration
	stopChan chan struct{}
}

// NewBonusJob creates a new weekly bonus job
func NewBonusJob(repo *repository.Repository, ledger *services.LedgerService, amount decimal.Decimal, interval time.Duration) *BonusJob {
	return &BonusJob{
		repo:     repo,
		ledger:   ledger,
		amount:   amount,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the bonus sweep loop
func (bj *BonusJob) Start() {
	log.Printf("[BonusJob] Starting weekly bonus job (interval: %v, amount: %s)", bj.interval, bj.amount)

	ticker := time.NewTicker(bj.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bj.sweep()
		case <-bj.stopChan:
			log.Println("[BonusJob] Stopping weekly bonus job")
			return
		}
	}
}

// Stop stops the bonus sweep loop
func (bj *BonusJob) Stop() {
	close(bj.stopChan)
}

// sweep applies the bonus to every eligible account
func (bj *BonusJob) sweep() {
	ctx := context.Background()

	ids, err := bj.repo.ListAccountIDs(ctx)
	if err != nil {
		log.Printf("[BonusJob] Error listing accounts: %v", err)
		return
	}

	now := time.Now()
	appliedCount := 0

	for _, accountID := range ids {
		applied, err := bj.ledger.ApplyWeeklyBonus(ctx, accountID, bj.amount, now)
		if err != nil {
			log.Printf("[BonusJob] Error applying bonus to account %d: %v", accountID, err)
			continue
		}
		if applied {
			appliedCount++
		}
	}

	if appliedCount > 0 {
		log.Printf("[BonusJob] Applied weekly bonus to %d accounts", appliedCount)
	}
}
