package domain

import "github.com/shopspring/decimal"

// Scales applied at storage boundaries. Intra-computation values keep full
// precision; only persisted values are rounded.
const (
	BalanceScale = 2
	RateScale    = 8
)

// displayEpsilon is the magnitude under which a balance is treated as zero
// for display purposes only. Stored values are never truncated by it.
var displayEpsilon = decimal.New(1, -2) // 0.01

// RoundBalance rounds an amount to the persisted balance scale.
func RoundBalance(d decimal.Decimal) decimal.Decimal {
	return d.Round(BalanceScale)
}

// RoundRate rounds a rate to the persisted rate scale.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}

// IsDisplayZero reports whether a balance should render as zero.
func IsDisplayZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(displayEpsilon)
}
