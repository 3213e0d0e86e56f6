package repository

import (
	"context"
	"time"

	"betline/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle so a
// caller can group several repository calls into one unit of work.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// DB exposes the underlying handle for transaction scoping
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

// CreateAccount creates a new account
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetAccountByID retrieves an account by ID
func (r *Repository) GetAccountByID(ctx context.Context, accountID uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", accountID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUsername retrieves an account by username
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccountIDs retrieves the IDs of all accounts
func (r *Repository) ListAccountIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DebitBalance atomically decreases an account balance by amount, but only
// when the current balance covers it. The guard lives in the WHERE clause so
// two concurrent debits against the same account serialize at the store:
// at most one of two full-balance debits can match. Returns false when the
// balance was insufficient (or the account does not exist).
func (r *Repository) DebitBalance(ctx context.Context, accountID uint, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND balance >= ?", accountID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreditBalance atomically increases an account balance by amount. Returns
// false when the account does not exist.
func (r *Repository) CreditBalance(ctx context.Context, accountID uint, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateLastBonus records the time the weekly bonus was last applied
func (r *Repository) UpdateLastBonus(ctx context.Context, accountID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("last_bonus_at", at).Error
}

// ---------------------------------------------------------------------------
// Markets
// ---------------------------------------------------------------------------

// CreateMarket creates a new market
func (r *Repository) CreateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Create(market).Error
}

// GetMarketByID retrieves a market by ID
func (r *Repository) GetMarketByID(ctx context.Context, marketID uint) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).Where("id = ?", marketID).First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// ListOpenMarkets retrieves all open markets, newest first
func (r *Repository) ListOpenMarkets(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("status = ?", models.MarketStatusOpen).
		Order("created_at DESC").
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// CloseMarket marks a market closed with its resolved outcome
func (r *Repository) CloseMarket(ctx context.Context, marketID uint, outcome models.Outcome, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Market{}).
		Where("id = ?", marketID).
		Updates(map[string]interface{}{
			"status":      models.MarketStatusClosed,
			"outcome":     outcome,
			"resolved_at": at,
		}).Error
}

// ---------------------------------------------------------------------------
// Wagers
// ---------------------------------------------------------------------------

// CreateWager creates a new wager
func (r *Repository) CreateWager(ctx context.Context, wager *models.Wager) error {
	return r.db.WithContext(ctx).Create(wager).Error
}

// ListMarketWagers retrieves all wagers for a market in placement order
func (r *Repository) ListMarketWagers(ctx context.Context, marketID uint) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("id ASC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// ListAccountWagers retrieves all wagers for an account, newest first
func (r *Repository) ListAccountWagers(ctx context.Context, accountID uint, limit, offset int) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// SetWagerResult writes the settlement result flag for a wager
func (r *Repository) SetWagerResult(ctx context.Context, wagerID uint, won bool) error {
	return r.db.WithContext(ctx).Model(&models.Wager{}).
		Where("id = ?", wagerID).
		Update("is_won", won).Error
}

// CountMarketWagers returns the number of wagers and the summed stake for a market
func (r *Repository) CountMarketWagers(ctx context.Context, marketID uint) (int64, decimal.Decimal, error) {
	type potRow struct {
		Wagers   int64
		TotalPot decimal.Decimal
	}
	var row potRow
	err := r.db.WithContext(ctx).Model(&models.Wager{}).
		Select("COUNT(*) AS wagers, COALESCE(SUM(stake), 0) AS total_pot").
		Where("market_id = ?", marketID).
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return row.Wagers, row.TotalPot, nil
}

// ---------------------------------------------------------------------------
// Transactions and statistics
// ---------------------------------------------------------------------------

// CreateTransaction appends a ledger audit record
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetAccountStats retrieves wagering statistics for an account, creating an
// empty row when none exists yet
func (r *Repository) GetAccountStats(ctx context.Context, accountID uint) (*models.AccountStats, error) {
	var stats models.AccountStats
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&stats).Error

	if err == gorm.ErrRecordNotFound {
		stats = models.AccountStats{
			AccountID:    accountID,
			TotalWagered: decimal.Zero,
			TotalWon:     decimal.Zero,
		}
		if err := r.db.WithContext(ctx).Create(&stats).Error; err != nil {
			return nil, err
		}
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// IncrementAccountStats updates wagering statistics for an account
func (r *Repository) IncrementAccountStats(
	ctx context.Context,
	accountID uint,
	wagersIncr int64,
	winsIncr int64,
	lossesIncr int64,
	wageredIncr decimal.Decimal,
	wonIncr decimal.Decimal,
) error {
	initialStats := models.AccountStats{
		AccountID:    accountID,
		TotalWagers:  wagersIncr,
		Wins:         winsIncr,
		Losses:       lossesIncr,
		TotalWagered: wageredIncr,
		TotalWon:     wonIncr,
	}

	// Upsert with atomic increments for the UPDATE case
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_wagers":  gorm.Expr("account_stats.total_wagers + ?", wagersIncr),
			"wins":          gorm.Expr("account_stats.wins + ?", winsIncr),
			"losses":        gorm.Expr("account_stats.losses + ?", lossesIncr),
			"total_wagered": gorm.Expr("account_stats.total_wagered + ?", wageredIncr),
			"total_won":     gorm.Expr("account_stats.total_won + ?", wonIncr),
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&initialStats).Error
}
