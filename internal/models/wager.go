package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wager represents one bettor's stake against a market. The stake was
// already debited from the account when the row was created; IsWon stays
// nil until the market settles and is written exactly once.
type Wager struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	AccountID  uint            `gorm:"not null;index" json:"account_id"`
	Account    *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	MarketID   uint            `gorm:"not null;index" json:"market_id"`
	Stake      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"stake"`
	Prediction Outcome         `gorm:"size:10;not null" json:"prediction"`
	IsWon      *bool           `json:"is_won,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName specifies the table name for Wager model
func (Wager) TableName() string {
	return "wagers"
}

// PlaceWagerRequest represents a request to place a wager on a market
type PlaceWagerRequest struct {
	Stake      decimal.Decimal `json:"stake" binding:"required"`
	Prediction string          `json:"prediction" binding:"required"`
}

// Payout is one winner's share of a settled pot
type Payout struct {
	AccountID uint            `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// SettlementResult is the committed outcome of closing a market
type SettlementResult struct {
	Market     *Market         `json:"market"`
	Wagers     []Wager         `json:"wagers"`
	Payouts    []Payout        `json:"payouts"`
	TotalPot   decimal.Decimal `json:"total_pot"`
	WinningPot decimal.Decimal `json:"winning_pot"`
}
