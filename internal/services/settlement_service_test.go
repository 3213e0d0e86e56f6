package services

import (
	"context"
	"testing"

	"betline/internal/models"
	"betline/internal/repository"

	"github.com/shopspring/decimal"
)

type testCore struct {
	repo       *repository.Repository
	ledger     *LedgerService
	markets    *MarketService
	wagers     *WagerService
	settlement *SettlementService
}

func newTestCore(t *testing.T) *testCore {
	repo := repository.NewRepository(setupTestDB(t))
	ledger := NewLedgerService(repo)
	locks := NewMarketLocks()
	return &testCore{
		repo:       repo,
		ledger:     ledger,
		markets:    NewMarketService(repo),
		wagers:     NewWagerService(repo, ledger, locks),
		settlement: NewSettlementService(repo, ledger, locks),
	}
}

// openScenarioMarket sets up the worked example: owner plus accounts A and B
// with balance 100 each, A staking 40 on over and B staking 60 on under.
func openScenarioMarket(t *testing.T, core *testCore) (owner, a, b *models.Account, market *models.Market) {
	t.Helper()
	ctx := context.Background()

	owner = createAccount(t, core.repo, "owner", "100")
	a = createAccount(t, core.repo, "a", "100")
	b = createAccount(t, core.repo, "b", "100")

	market, err := core.markets.Open(ctx, owner.ID, "total goals", decimal.RequireFromString("10"))
	if err != nil {
		t.Fatalf("failed to open market: %v", err)
	}

	if _, err := core.wagers.Place(ctx, a.ID, market.ID, decimal.RequireFromString("40"), models.OutcomeOver); err != nil {
		t.Fatalf("failed to place wager for a: %v", err)
	}
	if _, err := core.wagers.Place(ctx, b.ID, market.ID, decimal.RequireFromString("60"), models.OutcomeUnder); err != nil {
		t.Fatalf("failed to place wager for b: %v", err)
	}

	return owner, a, b, market
}

func TestSettleMarketOverWins(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	owner, a, b, market := openScenarioMarket(t, core)

	result, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeOver)
	if err != nil {
		t.Fatalf("SettleMarket failed: %v", err)
	}

	if !result.TotalPot.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected total pot 100, got %s", result.TotalPot)
	}
	if !result.WinningPot.Equal(decimal.RequireFromString("40")) {
		t.Errorf("expected winning pot 40, got %s", result.WinningPot)
	}
	if len(result.Payouts) != 1 || result.Payouts[0].AccountID != a.ID {
		t.Fatalf("expected a single payout to account %d, got %+v", a.ID, result.Payouts)
	}
	if !result.Payouts[0].Amount.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected payout 100, got %s", result.Payouts[0].Amount)
	}

	if got := mustBalance(t, core.ledger, a.ID); !got.Equal(decimal.RequireFromString("160")) {
		t.Errorf("expected a's balance 160, got %s", got)
	}
	if got := mustBalance(t, core.ledger, b.ID); !got.Equal(decimal.RequireFromString("40")) {
		t.Errorf("expected b's balance 40, got %s", got)
	}

	closed, err := core.markets.Get(ctx, market.ID)
	if err != nil {
		t.Fatalf("failed to reload market: %v", err)
	}
	if closed.Status != models.MarketStatusClosed {
		t.Errorf("expected market closed, got %s", closed.Status)
	}
	if closed.Outcome == nil || *closed.Outcome != models.OutcomeOver {
		t.Errorf("expected resolved outcome over, got %v", closed.Outcome)
	}

	wagers, err := core.markets.Wagers(ctx, market.ID)
	if err != nil {
		t.Fatalf("failed to load wagers: %v", err)
	}
	for _, w := range wagers {
		if w.IsWon == nil {
			t.Fatalf("expected wager %d to carry a result", w.ID)
		}
		won := w.Prediction == models.OutcomeOver
		if *w.IsWon != won {
			t.Errorf("wager %d: expected is_won=%v, got %v", w.ID, won, *w.IsWon)
		}
	}
}

func TestSettleMarketUnderWins(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	owner, a, b, market := openScenarioMarket(t, core)

	result, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeUnder)
	if err != nil {
		t.Fatalf("SettleMarket failed: %v", err)
	}

	if !result.WinningPot.Equal(decimal.RequireFromString("60")) {
		t.Errorf("expected winning pot 60, got %s", result.WinningPot)
	}
	if got := mustBalance(t, core.ledger, b.ID); !got.Equal(decimal.RequireFromString("140")) {
		t.Errorf("expected b's balance 140, got %s", got)
	}
	if got := mustBalance(t, core.ledger, a.ID); !got.Equal(decimal.RequireFromString("60")) {
		t.Errorf("expected a's balance 60, got %s", got)
	}
}

func TestSettleMarketZeroWagers(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	owner := createAccount(t, core.repo, "owner", "100")
	market, err := core.markets.Open(ctx, owner.ID, "empty line", decimal.RequireFromString("3"))
	if err != nil {
		t.Fatalf("failed to open market: %v", err)
	}

	result, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeOver)
	if err != nil {
		t.Fatalf("SettleMarket failed: %v", err)
	}

	if len(result.Payouts) != 0 {
		t.Errorf("expected empty payout list, got %d", len(result.Payouts))
	}
	if !result.TotalPot.IsZero() {
		t.Errorf("expected zero pot, got %s", result.TotalPot)
	}

	var credits int64
	core.repo.DB().Model(&models.Transaction{}).
		Where("type = ?", models.TransactionTypeWagerWon).
		Count(&credits)
	if credits != 0 {
		t.Errorf("expected no ledger credits, got %d", credits)
	}
}

func TestSettleMarketUnauthorized(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	_, a, b, market := openScenarioMarket(t, core)

	_, err := core.settlement.SettleMarket(ctx, a.ID, market.ID, models.OutcomeOver)
	if err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	reloaded, err := core.markets.Get(ctx, market.ID)
	if err != nil {
		t.Fatalf("failed to reload market: %v", err)
	}
	if reloaded.Status != models.MarketStatusOpen {
		t.Errorf("expected market still open, got %s", reloaded.Status)
	}
	if got := mustBalance(t, core.ledger, a.ID); !got.Equal(decimal.RequireFromString("60")) {
		t.Errorf("expected a's balance untouched at 60, got %s", got)
	}
	if got := mustBalance(t, core.ledger, b.ID); !got.Equal(decimal.RequireFromString("40")) {
		t.Errorf("expected b's balance untouched at 40, got %s", got)
	}
}

func TestSettleMarketTwice(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	owner, a, b, market := openScenarioMarket(t, core)

	if _, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeOver); err != nil {
		t.Fatalf("first SettleMarket failed: %v", err)
	}

	_, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeOver)
	if err != ErrAlreadyClosed {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}

	// No re-credit: balances are exactly as after the first settlement
	if got := mustBalance(t, core.ledger, a.ID); !got.Equal(decimal.RequireFromString("160")) {
		t.Errorf("expected a's balance still 160, got %s", got)
	}
	if got := mustBalance(t, core.ledger, b.ID); !got.Equal(decimal.RequireFromString("40")) {
		t.Errorf("expected b's balance still 40, got %s", got)
	}
}

func TestSettleMarketInvalidOutcome(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	owner, _, _, market := openScenarioMarket(t, core)

	_, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.Outcome("draw"))
	if err != ErrInvalidOutcome {
		t.Fatalf("expected ErrInvalidOutcome, got %v", err)
	}
}

func TestSettleMarketNoWinnersForfeitsPot(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	owner := createAccount(t, core.repo, "owner", "100")
	a := createAccount(t, core.repo, "solo", "100")

	market, err := core.markets.Open(ctx, owner.ID, "one-sided line", decimal.RequireFromString("5"))
	if err != nil {
		t.Fatalf("failed to open market: %v", err)
	}
	if _, err := core.wagers.Place(ctx, a.ID, market.ID, decimal.RequireFromString("40"), models.OutcomeOver); err != nil {
		t.Fatalf("failed to place wager: %v", err)
	}

	result, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeUnder)
	if err != nil {
		t.Fatalf("SettleMarket failed: %v", err)
	}

	if len(result.Payouts) != 0 {
		t.Errorf("expected forfeited pot, got %d payouts", len(result.Payouts))
	}
	if got := mustBalance(t, core.ledger, a.ID); !got.Equal(decimal.RequireFromString("60")) {
		t.Errorf("expected a's stake to stay spent, balance 60, got %s", got)
	}

	wagers, _ := core.markets.Wagers(ctx, market.ID)
	if len(wagers) != 1 || wagers[0].IsWon == nil || *wagers[0].IsWon {
		t.Errorf("expected the lone wager to be marked lost")
	}
}

func TestSettleMarketUpdatesStats(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()
	owner, a, b, market := openScenarioMarket(t, core)

	if _, err := core.settlement.SettleMarket(ctx, owner.ID, market.ID, models.OutcomeOver); err != nil {
		t.Fatalf("SettleMarket failed: %v", err)
	}

	statsA, err := core.repo.GetAccountStats(ctx, a.ID)
	if err != nil {
		t.Fatalf("failed to get stats for a: %v", err)
	}
	if statsA.TotalWagers != 1 || statsA.Wins != 1 || statsA.Losses != 0 {
		t.Errorf("unexpected stats for a: %+v", statsA)
	}
	if !statsA.TotalWagered.Equal(decimal.RequireFromString("40")) {
		t.Errorf("expected a wagered 40, got %s", statsA.TotalWagered)
	}
	if !statsA.TotalWon.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected a won 100, got %s", statsA.TotalWon)
	}

	statsB, err := core.repo.GetAccountStats(ctx, b.ID)
	if err != nil {
		t.Fatalf("failed to get stats for b: %v", err)
	}
	if statsB.TotalWagers != 1 || statsB.Wins != 0 || statsB.Losses != 1 {
		t.Errorf("unexpected stats for b: %+v", statsB)
	}
}
