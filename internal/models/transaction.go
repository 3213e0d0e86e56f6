package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeRegistrationBonus TransactionType = "registration_bonus"
	TransactionTypeWeeklyBonus       TransactionType = "weekly_bonus"
	TransactionTypeWagerPlaced       TransactionType = "wager_placed"
	TransactionTypeWagerWon          TransactionType = "wager_won"
)

// Transaction is the ledger's audit record of a single balance mutation.
// Balances are never reconstructed from this table; it exists for history.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	Type        TransactionType `gorm:"size:50;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
