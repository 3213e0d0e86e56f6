package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MarketStatus string

const (
	MarketStatusOpen   MarketStatus = "open"
	MarketStatusClosed MarketStatus = "closed"
)

// Market represents a single over/under betting line. A market is created
// open and transitions to closed exactly once, at settlement; Outcome is
// nil for exactly as long as the market is open.
type Market struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Threshold   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"threshold"`
	OwnerID     uint            `gorm:"not null;index" json:"owner_id"`
	Owner       *Account        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Status      MarketStatus    `gorm:"size:20;not null;default:open;index" json:"status"`
	Outcome     *Outcome        `gorm:"size:10" json:"outcome,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Market model
func (Market) TableName() string {
	return "markets"
}

// CreateMarketRequest represents a request to open a new betting line
type CreateMarketRequest struct {
	Description string          `json:"description" binding:"required,max=200"`
	Threshold   decimal.Decimal `json:"threshold" binding:"required"`
}

// CloseMarketRequest represents a request to close a betting line
type CloseMarketRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// MarketSummary is a read-only snapshot of an open market with pot totals
type MarketSummary struct {
	Market   Market          `json:"market"`
	Wagers   int64           `json:"wagers"`
	TotalPot decimal.Decimal `json:"total_pot"`
}
