package services

import (
	"context"
	"fmt"
	"time"

	"betline/internal/models"
	"betline/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// bonusWindow is the minimum gap between two weekly bonus applications
const bonusWindow = 7 * 24 * time.Hour

// LedgerService is the only component that mutates account balances. Every
// successful mutation leaves a transaction audit row behind.
type LedgerService struct {
	repo *repository.Repository
}

func NewLedgerService(repo *repository.Repository) *LedgerService {
	return &LedgerService{repo: repo}
}

// withRepo returns a ledger bound to another repository handle, used to run
// ledger operations inside an enclosing database transaction.
func (s *LedgerService) withRepo(repo *repository.Repository) *LedgerService {
	return &LedgerService{repo: repo}
}

// Debit decreases an account balance by amount. The amount must be positive
// and covered by the current balance, otherwise ErrInsufficientFunds; the
// balance check and the decrement are a single atomic store operation.
func (s *LedgerService) Debit(
	ctx context.Context,
	accountID uint,
	amount decimal.Decimal,
	entryType models.TransactionType,
	description string,
) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInsufficientFunds
	}

	applied, err := s.repo.DebitBalance(ctx, accountID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account %d: %w", accountID, err)
	}
	if !applied {
		return ErrInsufficientFunds
	}

	return s.record(ctx, accountID, amount.Neg(), entryType, description)
}

// Credit increases an account balance by amount. Negative amounts are
// rejected with ErrInvalidAmount; a zero credit is a no-op, not an error.
func (s *LedgerService) Credit(
	ctx context.Context,
	accountID uint,
	amount decimal.Decimal,
	entryType models.TransactionType,
	description string,
) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if amount.IsZero() {
		return nil
	}

	applied, err := s.repo.CreditBalance(ctx, accountID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account %d: %w", accountID, err)
	}
	if !applied {
		return fmt.Errorf("failed to credit account %d: account not found", accountID)
	}

	return s.record(ctx, accountID, amount, entryType, description)
}

// Balance returns the current balance for an account
func (s *LedgerService) Balance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ApplyWeeklyBonus credits the weekly bonus when at least seven days have
// passed since the last application, then advances the bonus timestamp.
// Returns whether the bonus was applied. Deduplication beyond the timestamp
// check is the caller's concern.
func (s *LedgerService) ApplyWeeklyBonus(
	ctx context.Context,
	accountID uint,
	amount decimal.Decimal,
	now time.Time,
) (bool, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return false, err
	}

	if now.Sub(account.LastBonusAt) < bonusWindow {
		return false, nil
	}

	applied := false
	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := s.withRepo(s.repo.WithTx(tx))
		if err := ledger.Credit(ctx, accountID, amount, models.TransactionTypeWeeklyBonus, "weekly balance bonus"); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).UpdateLastBonus(ctx, accountID, now); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// record appends the audit row for a committed balance mutation
func (s *LedgerService) record(
	ctx context.Context,
	accountID uint,
	amount decimal.Decimal,
	entryType models.TransactionType,
	description string,
) error {
	entry := &models.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        entryType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateTransaction(ctx, entry); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}
