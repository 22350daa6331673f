package domain

import "errors"

var (
	// Directory errors
	ErrEntityNotFound = errors.New("entity not found in any partition")
	ErrPartyNotFound  = errors.New("transfer party not found")

	// Catalog errors
	ErrCurrencyNotFound   = errors.New("currency not found")
	ErrDirectRateNotFound = errors.New("direct rate not found")
	ErrDirectRateRequired = errors.New("direct rate required for currency pair")
	ErrBaseRateImmutable  = errors.New("base currency rate is fixed at 1")
	ErrCurrencyExists     = errors.New("currency already exists")

	// Ledger errors
	ErrSameParty     = errors.New("giver and taker must be different parties")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSameCurrency  = errors.New("exchange requires two different currencies")
	ErrInvalidRate   = errors.New("rate must be positive")

	// Reversal errors
	ErrTransactionNotFound = errors.New("transaction not found")

	// Storage errors
	ErrCommitFailed = errors.New("atomic unit could not be committed")
)
