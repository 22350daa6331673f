package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a known currency with its exchange rate relative to the base
// currency. The base currency itself is stored with RateToBase fixed at 1
// and IsBase set; its rate is immutable.
type Currency struct {
	Code       string
	Symbol     string
	RateToBase decimal.Decimal
	IsBase     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DirectRate is a merchant-observed rate between two non-base currencies.
// It is keyed by the ordered pair; a rate for the opposite direction is a
// distinct record, not automatically the inverse.
type DirectRate struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	UpdatedAt    time.Time
}
