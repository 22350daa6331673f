package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name: "valid simple transfer",
			tx:   Transaction{GiverID: "a", TakerID: "b", Amount: decimal.NewFromInt(10), Currency: "USD"},
		},
		{
			name:    "same party",
			tx:      Transaction{GiverID: "a", TakerID: "a", Amount: decimal.NewFromInt(10), Currency: "USD"},
			wantErr: ErrSameParty,
		},
		{
			name:    "zero amount",
			tx:      Transaction{GiverID: "a", TakerID: "b", Amount: decimal.Zero, Currency: "USD"},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "valid exchange",
			tx: Transaction{
				GiverID: "a", TakerID: "b",
				Amount: decimal.NewFromInt(10), Currency: "USD",
				IsExchange: true, ReceivingCurrency: "EUR",
				CustomRate: decimal.NewFromFloat(0.9),
			},
		},
		{
			name: "exchange with same currency",
			tx: Transaction{
				GiverID: "a", TakerID: "b",
				Amount: decimal.NewFromInt(10), Currency: "USD",
				IsExchange: true, ReceivingCurrency: "USD",
				CustomRate: decimal.NewFromInt(1),
			},
			wantErr: ErrSameCurrency,
		},
		{
			name: "exchange with non-positive rate",
			tx: Transaction{
				GiverID: "a", TakerID: "b",
				Amount: decimal.NewFromInt(10), Currency: "USD",
				IsExchange: true, ReceivingCurrency: "EUR",
			},
			wantErr: ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBalanceSnapshotClone(t *testing.T) {
	original := BalanceSnapshot{"USD": decimal.NewFromInt(5)}
	clone := original.Clone()

	clone["USD"] = decimal.NewFromInt(99)

	if !original["USD"].Equal(decimal.NewFromInt(5)) {
		t.Error("mutating the clone changed the original")
	}
}
