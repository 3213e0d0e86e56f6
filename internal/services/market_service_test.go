package services

import (
	"context"
	"testing"

	"betline/internal/models"

	"github.com/shopspring/decimal"
)

func TestOpenMarketSnapshot(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	owner := createAccount(t, core.repo, "owner", "100")
	bettor := createAccount(t, core.repo, "bettor", "100")

	first, err := core.markets.Open(ctx, owner.ID, "total corners", decimal.RequireFromString("9.5"))
	if err != nil {
		t.Fatalf("failed to open first market: %v", err)
	}
	second, err := core.markets.Open(ctx, owner.ID, "total cards", decimal.RequireFromString("4.5"))
	if err != nil {
		t.Fatalf("failed to open second market: %v", err)
	}

	if _, err := core.wagers.Place(ctx, bettor.ID, first.ID, decimal.RequireFromString("25"), models.OutcomeOver); err != nil {
		t.Fatalf("failed to place wager: %v", err)
	}
	if _, err := core.wagers.Place(ctx, bettor.ID, first.ID, decimal.RequireFromString("15"), models.OutcomeUnder); err != nil {
		t.Fatalf("failed to place wager: %v", err)
	}

	summaries, err := core.markets.ListOpen(ctx)
	if err != nil {
		t.Fatalf("ListOpen failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 open markets, got %d", len(summaries))
	}

	byID := make(map[uint]models.MarketSummary)
	for _, s := range summaries {
		byID[s.Market.ID] = s
	}
	if got := byID[first.ID]; got.Wagers != 2 || !got.TotalPot.Equal(decimal.RequireFromString("40")) {
		t.Errorf("unexpected snapshot for first market: wagers=%d pot=%s", got.Wagers, got.TotalPot)
	}
	if got := byID[second.ID]; got.Wagers != 0 || !got.TotalPot.IsZero() {
		t.Errorf("unexpected snapshot for second market: wagers=%d pot=%s", got.Wagers, got.TotalPot)
	}

	// Settled markets drop out of the open snapshot
	if _, err := core.settlement.SettleMarket(ctx, owner.ID, second.ID, models.OutcomeUnder); err != nil {
		t.Fatalf("SettleMarket failed: %v", err)
	}
	summaries, err = core.markets.ListOpen(ctx)
	if err != nil {
		t.Fatalf("ListOpen failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Market.ID != first.ID {
		t.Errorf("expected only the first market to remain open")
	}
}

func TestOpenMarketUnknownOwner(t *testing.T) {
	core := newTestCore(t)

	_, err := core.markets.Open(context.Background(), 999, "orphan line", decimal.RequireFromString("2"))
	if err == nil {
		t.Fatal("expected error for unknown owner")
	}
}
