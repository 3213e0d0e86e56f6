package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bettor account. The balance column is only ever
// mutated through the ledger service.
type Account struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Username    string          `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	LastBonusAt time.Time       `json:"last_bonus_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Account model
func (Account) TableName() string {
	return "accounts"
}

// AccountStats represents aggregate wagering statistics for an account
type AccountStats struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AccountID    uint            `gorm:"uniqueIndex;not null" json:"account_id"`
	TotalWagers  int64           `gorm:"default:0" json:"total_wagers"`
	Wins         int64           `gorm:"default:0" json:"wins"`
	Losses       int64           `gorm:"default:0" json:"losses"`
	TotalWagered decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_wagered"`
	TotalWon     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_won"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for AccountStats model
func (AccountStats) TableName() string {
	return "account_stats"
}

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=80"`
}
