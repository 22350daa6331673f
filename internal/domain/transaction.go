package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is the full per-currency balance map of a party, captured
// strictly after a transaction's mutation is applied.
type BalanceSnapshot map[string]decimal.Decimal

// Clone returns a copy of the snapshot.
func (s BalanceSnapshot) Clone() BalanceSnapshot {
	c := make(BalanceSnapshot, len(s))
	for code, amount := range s {
		c[code] = amount
	}

	return c
}

// Transaction is an immutable record of one money movement. Committed
// transactions are never updated in place; the reversal engine deletes them
// after undoing their balance deltas.
type Transaction struct {
	ID       string
	GiverID  string
	TakerID  string
	Amount   decimal.Decimal
	Currency string
	Note     string

	// Exchange fields, set only when IsExchange is true.
	IsExchange        bool
	ReceivingCurrency string
	CustomRate        decimal.Decimal
	MarketRate        decimal.Decimal
	ReceivedAmount    decimal.Decimal
	Profit            decimal.Decimal
	ProfitCurrency    string

	GiverSnapshot BalanceSnapshot
	TakerSnapshot BalanceSnapshot
	CreatedAt     time.Time
}

// Validate checks the structural invariants of a transaction record.
func (t *Transaction) Validate() error {
	if t.GiverID == t.TakerID {
		return ErrSameParty
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.IsExchange {
		if t.ReceivingCurrency == t.Currency {
			return ErrSameCurrency
		}

		if t.CustomRate.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidRate
		}
	}

	return nil
}
