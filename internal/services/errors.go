package services

import "errors"

// Typed failure modes of the wagering core. Handlers translate these into
// HTTP responses; nothing below this layer swallows them.
var (
	ErrInvalidAmount        = errors.New("amount must not be negative")
	ErrInvalidStake         = errors.New("stake must be positive")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidOutcome       = errors.New("outcome must be over or under")
	ErrUnauthorized         = errors.New("caller does not own this market")
	ErrAlreadyClosed        = errors.New("market already closed")
	ErrMarketClosed         = errors.New("market is closed for wagering")
	ErrSettlementInProgress = errors.New("settlement already in progress")
)
