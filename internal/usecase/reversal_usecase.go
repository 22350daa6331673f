package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/infrastructure/metrics"
)

// ReversalUseCase undoes a committed transaction: it applies the exact
// inverse of the stored balance deltas and deletes the record, as one atomic
// unit. It never recomputes or re-validates rates; the stored amounts are the
// source of truth.
type ReversalUseCase struct {
	txManager   TransactionManager
	directory   *DirectoryUseCase
	balanceRepo BalanceRepository
	txRepo      TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewReversalUseCase creates a new ReversalUseCase. retrier and m may be nil.
func NewReversalUseCase(
	txManager TransactionManager,
	directory *DirectoryUseCase,
	balanceRepo BalanceRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *ReversalUseCase {
	return &ReversalUseCase{
		txManager:   txManager,
		directory:   directory,
		balanceRepo: balanceRepo,
		txRepo:      txRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
	}
}

// ReverseTransaction loads the record, re-resolves both parties (categories
// are re-derived, not trusted from the stored record), applies the inverse
// deltas, deletes the record and commits all of it atomically. A missing
// record or party is terminal; no partial reversal is committed.
func (uc *ReversalUseCase) ReverseTransaction(ctx context.Context, id string) error {
	run := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
		}
		defer tx.Rollback(ctx)

		record, err := uc.txRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		for _, partyID := range []string{record.GiverID, record.TakerID} {
			if _, err := uc.directory.ResolveCategory(ctx, partyID); err != nil {
				if err == domain.ErrEntityNotFound {
					return fmt.Errorf("%w: %s", domain.ErrPartyNotFound, partyID)
				}

				return err
			}
		}

		// Inverse of whichever deltas the original applied: the giver gets
		// the given amount back, the taker returns what it received.
		takerCurrency, takerAmount := record.Currency, record.Amount
		if record.IsExchange {
			takerCurrency, takerAmount = record.ReceivingCurrency, record.ReceivedAmount
		}

		deltas := []balanceDelta{
			{entityID: record.GiverID, currency: record.Currency, amount: record.Amount},
			{entityID: record.TakerID, currency: takerCurrency, amount: takerAmount.Neg()},
		}
		if err := applyDeltas(ctx, uc.balanceRepo, tx, deltas); err != nil {
			return err
		}

		if err := uc.txRepo.Delete(ctx, tx, record.ID); err != nil {
			return err
		}

		err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   record.ID,
			AggregateType: domain.AggregateTypeTransaction,
			EventType:     domain.EventTypeTransactionReversed,
			Payload: map[string]any{
				"transaction_id": record.ID,
				"giver_id":       record.GiverID,
				"taker_id":       record.TakerID,
				"amount":         record.Amount.String(),
				"currency":       record.Currency,
			},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
		}

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
		}

		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsReversed.Inc()
	}

	return nil
}
