package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
	"github.com/hewad/sarrafbook/internal/usecase/mocks"
)

func newReversalUseCase(f *ledgerFixture) *usecase.ReversalUseCase {
	directory := usecase.NewDirectoryUseCase(f.entityRepo)

	return usecase.NewReversalUseCase(
		mocks.NewMockTransactionManager(),
		directory,
		f.balanceRepo,
		f.txRepo,
		f.outboxRepo,
		mocks.NewMockIDGenerator(),
		nil,
		nil,
	)
}

func TestReversalUseCase_SimpleTransferIsTrueInverse(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.balanceRepo.SetBalance("alice", "EUR", decimal.NewFromInt(200))
	f.balanceRepo.SetBalance("bob", "EUR", decimal.NewFromInt(7))

	record, err := f.uc.CreateTransfer(ctx, usecase.CreateTransferInput{
		GiverID:  "alice",
		TakerID:  "bob",
		Amount:   decimal.NewFromInt(100),
		Currency: "EUR",
	})
	require.NoError(t, err)

	reversal := newReversalUseCase(f)
	require.NoError(t, reversal.ReverseTransaction(ctx, record.ID))

	assert.True(t, f.balanceRepo.Balance("alice", "EUR").Equal(decimal.NewFromInt(200)))
	assert.True(t, f.balanceRepo.Balance("bob", "EUR").Equal(decimal.NewFromInt(7)))

	// The record is gone afterward.
	_, err = f.txRepo.GetByID(ctx, record.ID)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestReversalUseCase_ExchangeIsTrueInverse(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.balanceRepo.SetBalance("bob", "EUR", decimal.NewFromInt(120))
	f.balanceRepo.SetBalance(domain.OwnerID, "USD", decimal.NewFromInt(1000))

	record, err := f.uc.CreateExchangeTransfer(ctx, usecase.CreateExchangeTransferInput{
		GiverID:           "bob",
		TakerID:           domain.OwnerID,
		Amount:            decimal.NewFromInt(50),
		GivingCurrency:    "EUR",
		ReceivingCurrency: "USD",
		CustomRate:        decimal.RequireFromString("1.10"),
	})
	require.NoError(t, err)

	reversal := newReversalUseCase(f)
	require.NoError(t, reversal.ReverseTransaction(ctx, record.ID))

	assert.True(t, f.balanceRepo.Balance("bob", "EUR").Equal(decimal.NewFromInt(120)))
	assert.True(t, f.balanceRepo.Balance(domain.OwnerID, "USD").Equal(decimal.NewFromInt(1000)))
	assert.True(t, f.balanceRepo.Balance("bob", "USD").IsZero())
}

func TestReversalUseCase_DeltasAppliedInEntityOrder(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	record, err := f.uc.CreateTransfer(ctx, usecase.CreateTransferInput{
		GiverID:  "bob",
		TakerID:  "alice",
		Amount:   decimal.NewFromInt(10),
		Currency: "EUR",
	})
	require.NoError(t, err)

	var order []string
	f.balanceRepo.ApplyDeltaFunc = func(ctx context.Context, tx usecase.Transaction, entityID, currency string, delta decimal.Decimal) error {
		order = append(order, entityID)
		return nil
	}

	reversal := newReversalUseCase(f)
	require.NoError(t, reversal.ReverseTransaction(ctx, record.ID))

	// Reversals take the same row-lock order as transfers.
	assert.Equal(t, []string{"alice", "bob"}, order)
}

func TestReversalUseCase_MissingTargetIsTerminal(t *testing.T) {
	f := newLedgerFixture(t)
	reversal := newReversalUseCase(f)

	err := reversal.ReverseTransaction(context.Background(), "no-such-id")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestReversalUseCase_SecondReversalFails(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	record, err := f.uc.CreateTransfer(ctx, usecase.CreateTransferInput{
		GiverID:  "alice",
		TakerID:  "bob",
		Amount:   decimal.NewFromInt(10),
		Currency: "EUR",
	})
	require.NoError(t, err)

	reversal := newReversalUseCase(f)
	require.NoError(t, reversal.ReverseTransaction(ctx, record.ID))

	err = reversal.ReverseTransaction(ctx, record.ID)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	// Balances are not disturbed by the failed second attempt.
	assert.True(t, f.balanceRepo.Balance("alice", "EUR").IsZero())
	assert.True(t, f.balanceRepo.Balance("bob", "EUR").IsZero())
}

func TestReversalUseCase_MissingPartyAbortsBeforeMutation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	record, err := f.uc.CreateTransfer(ctx, usecase.CreateTransferInput{
		GiverID:  "alice",
		TakerID:  "bob",
		Amount:   decimal.NewFromInt(10),
		Currency: "EUR",
	})
	require.NoError(t, err)

	// Party lookups fail after the record was committed.
	f.entityRepo.ExistsInCategoryFunc = func(ctx context.Context, id string, category domain.Category) (bool, error) {
		return false, nil
	}

	reversal := newReversalUseCase(f)
	err = reversal.ReverseTransaction(ctx, record.ID)
	require.ErrorIs(t, err, domain.ErrPartyNotFound)

	// The record survives and balances keep their post-transfer values.
	_, err = f.txRepo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, f.balanceRepo.Balance("bob", "EUR").Equal(decimal.NewFromInt(10)))
}
