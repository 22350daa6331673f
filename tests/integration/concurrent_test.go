package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

func TestConcurrentTransfers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("concurrent transfers against the cashbox sum exactly", func(t *testing.T) {
		env.reset(ctx)
		env.seedStandardCurrencies(ctx)

		customer := env.DB.CreateTestEntity(ctx, "Karim", domain.CategoryCustomer)

		numTransfers := 50
		amount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numTransfers)

		for range numTransfers {
			go func() {
				defer wg.Done()

				_, err := env.LedgerUC.CreateTransfer(ctx, usecase.CreateTransferInput{
					GiverID:  domain.OwnerID,
					TakerID:  customer.ID,
					Amount:   amount,
					Currency: baseCurrency,
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if got := successCount.Load(); got != int32(numTransfers) {
			t.Errorf("expected %d successful transfers, got %d", numTransfers, got)
		}

		expected := amount.Mul(decimal.NewFromInt(int64(numTransfers)))

		if got := env.DB.BaseBalance(ctx, customer.ID); !got.Equal(expected) {
			t.Errorf("expected customer balance %s, got %s", expected, got)
		}
		if got := env.DB.BaseBalance(ctx, domain.OwnerID); !got.Equal(expected.Neg()) {
			t.Errorf("expected cashbox balance %s, got %s", expected.Neg(), got)
		}
	})

	t.Run("concurrent exchanges on the side table sum exactly", func(t *testing.T) {
		env.reset(ctx)
		env.seedStandardCurrencies(ctx)

		customer := env.DB.CreateTestEntity(ctx, "Karim", domain.CategoryCustomer)

		numExchanges := 20

		var wg sync.WaitGroup
		wg.Add(numExchanges)

		for range numExchanges {
			go func() {
				defer wg.Done()

				_, err := env.LedgerUC.CreateExchangeTransfer(ctx, usecase.CreateExchangeTransferInput{
					GiverID:           domain.OwnerID,
					TakerID:           customer.ID,
					Amount:            decimal.NewFromInt(1),
					GivingCurrency:    baseCurrency,
					ReceivingCurrency: "USD",
					CustomRate:        dec("72"),
				})
				if err != nil {
					t.Errorf("exchange failed: %v", err)
				}
			}()
		}

		wg.Wait()

		if got := env.DB.CurrencyBalance(ctx, customer.ID, "USD"); !got.Equal(dec("1440")) {
			t.Errorf("expected customer USD balance 1440, got %s", got)
		}
		if got := env.DB.BaseBalance(ctx, domain.OwnerID); !got.Equal(dec("-20")) {
			t.Errorf("expected cashbox balance -20, got %s", got)
		}
	})

	t.Run("concurrent reversal attempts of one transaction apply once", func(t *testing.T) {
		env.reset(ctx)
		env.seedStandardCurrencies(ctx)

		customer := env.DB.CreateTestEntity(ctx, "Karim", domain.CategoryCustomer)

		record, err := env.LedgerUC.CreateTransfer(ctx, usecase.CreateTransferInput{
			GiverID:  domain.OwnerID,
			TakerID:  customer.ID,
			Amount:   dec("100"),
			Currency: baseCurrency,
		})
		if err != nil {
			t.Fatalf("failed to create transfer: %v", err)
		}

		attempts := 10

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(attempts)

		for range attempts {
			go func() {
				defer wg.Done()

				if err := env.ReversalUC.ReverseTransaction(ctx, record.ID); err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if got := successCount.Load(); got != 1 {
			t.Errorf("expected exactly 1 successful reversal, got %d", got)
		}

		// The inverse deltas were applied exactly once.
		if got := env.DB.BaseBalance(ctx, customer.ID); !got.IsZero() {
			t.Errorf("expected customer balance 0, got %s", got)
		}
		if got := env.DB.BaseBalance(ctx, domain.OwnerID); !got.IsZero() {
			t.Errorf("expected cashbox balance 0, got %s", got)
		}
	})
}
