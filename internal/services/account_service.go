package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"betline/internal/models"
	"betline/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService handles account registration and profile reads. Credential
// verification is owned by the upstream collaborator; the service only keys
// accounts by username.
type AccountService struct {
	repo           *repository.Repository
	ledger         *LedgerService
	initialBalance decimal.Decimal
}

func NewAccountService(repo *repository.Repository, ledger *LedgerService, initialBalance decimal.Decimal) *AccountService {
	return &AccountService{
		repo:           repo,
		ledger:         ledger,
		initialBalance: initialBalance,
	}
}

// Register creates a new account with the configured starting balance
func (s *AccountService) Register(ctx context.Context, username string) (*models.Account, error) {
	if _, err := s.repo.GetAccountByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username %q already exists", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	var account *models.Account
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		account = &models.Account{
			Username:    username,
			Balance:     decimal.Zero,
			LastBonusAt: time.Now(),
		}
		if err := repo.CreateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		ledger := s.ledger.withRepo(repo)
		return ledger.Credit(ctx, account.ID, s.initialBalance,
			models.TransactionTypeRegistrationBonus, "starting balance")
	})
	if err != nil {
		return nil, err
	}

	account.Balance = s.initialBalance
	log.Printf("Registered account %d (%s)", account.ID, account.Username)
	return account, nil
}

// Get retrieves an account by ID
func (s *AccountService) Get(ctx context.Context, accountID uint) (*models.Account, error) {
	return s.repo.GetAccountByID(ctx, accountID)
}

// GetByUsername retrieves an account by username
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.repo.GetAccountByUsername(ctx, username)
}

// Stats retrieves wagering statistics for an account
func (s *AccountService) Stats(ctx context.Context, accountID uint) (*models.AccountStats, error) {
	return s.repo.GetAccountStats(ctx, accountID)
}
