package services

import (
	"betline/internal/models"

	"github.com/shopspring/decimal"
)

// poolSettlement describes how one market's pot is redistributed
type poolSettlement struct {
	TotalPot     decimal.Decimal
	WinningPot   decimal.Decimal
	WagerPayouts map[uint]decimal.Decimal // winning wager id -> share of the pot
	Payouts      []models.Payout          // per-account totals, payout > 0 only
}

// settlePool computes the pari-mutuel distribution of the pot over the
// frozen wager list: each winner receives totalPot * stake / winningPot.
// Shares are truncated to whole cents and the truncation remainder goes to
// the largest-stake winner (lowest wager id on ties), so the sum of payouts
// equals the pot exactly whenever there is at least one winner.
//
// When no wager predicted the resolved outcome the pot is forfeited: nobody
// collects and nothing is refunded.
func settlePool(wagers []models.Wager, outcome models.Outcome) poolSettlement {
	totalPot := decimal.Zero
	winningPot := decimal.Zero
	for _, w := range wagers {
		totalPot = totalPot.Add(w.Stake)
		if w.Prediction == outcome {
			winningPot = winningPot.Add(w.Stake)
		}
	}

	settlement := poolSettlement{
		TotalPot:     totalPot,
		WinningPot:   winningPot,
		WagerPayouts: make(map[uint]decimal.Decimal),
	}

	if winningPot.IsZero() {
		return settlement
	}

	distributed := decimal.Zero
	var largest *models.Wager
	for i := range wagers {
		w := &wagers[i]
		if w.Prediction != outcome {
			continue
		}

		// QuoRem keeps the division exact: share is the quotient truncated
		// to two decimal places, never rounded up
		share, _ := totalPot.Mul(w.Stake).QuoRem(winningPot, 2)
		settlement.WagerPayouts[w.ID] = share
		distributed = distributed.Add(share)

		if largest == nil || w.Stake.GreaterThan(largest.Stake) {
			largest = w
		}
	}

	if residual := totalPot.Sub(distributed); residual.IsPositive() {
		settlement.WagerPayouts[largest.ID] = settlement.WagerPayouts[largest.ID].Add(residual)
	}

	// Aggregate per account in placement order
	totals := make(map[uint]decimal.Decimal)
	var order []uint
	for _, w := range wagers {
		share, ok := settlement.WagerPayouts[w.ID]
		if !ok || !share.IsPositive() {
			continue
		}
		if _, seen := totals[w.AccountID]; !seen {
			order = append(order, w.AccountID)
		}
		totals[w.AccountID] = totals[w.AccountID].Add(share)
	}
	for _, accountID := range order {
		settlement.Payouts = append(settlement.Payouts, models.Payout{
			AccountID: accountID,
			Amount:    totals[accountID],
		})
	}

	return settlement
}
