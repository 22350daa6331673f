package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/infrastructure/metrics"
)

// LedgerUseCase orchestrates transfer creation: validation, party
// resolution, rate computation, balance mutation and the immutable record
// write, all committed as one atomic unit.
type LedgerUseCase struct {
	txManager   TransactionManager
	directory   *DirectoryUseCase
	catalog     *CatalogUseCase
	balanceRepo BalanceRepository
	txRepo      TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier and m may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	directory *DirectoryUseCase,
	catalog *CatalogUseCase,
	balanceRepo BalanceRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		directory:   directory,
		catalog:     catalog,
		balanceRepo: balanceRepo,
		txRepo:      txRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
	}
}

// CreateTransferInput represents input for a simple same-currency transfer.
type CreateTransferInput struct {
	GiverID  string
	TakerID  string
	Amount   decimal.Decimal
	Currency string
	Note     string
}

// CreateExchangeTransferInput represents input for a currency-exchange
// transfer at a custom agreed rate.
type CreateExchangeTransferInput struct {
	GiverID           string
	TakerID           string
	Amount            decimal.Decimal
	GivingCurrency    string
	ReceivingCurrency string
	CustomRate        decimal.Decimal
	Note              string
}

// balanceDelta is one pending balance mutation inside a commit unit.
type balanceDelta struct {
	entityID string
	currency string
	amount   decimal.Decimal
}

// applyDeltas takes the balance row locks in entity-ID order, so two units
// touching the same parties in opposite directions cannot deadlock.
func applyDeltas(ctx context.Context, repo BalanceRepository, tx Transaction, deltas []balanceDelta) error {
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].entityID != deltas[j].entityID {
			return deltas[i].entityID < deltas[j].entityID
		}

		return deltas[i].currency < deltas[j].currency
	})

	for _, d := range deltas {
		if err := repo.ApplyDelta(ctx, tx, d.entityID, d.currency, d.amount); err != nil {
			return err
		}
	}

	return nil
}

// CreateTransfer moves Amount of Currency from giver to taker.
func (uc *LedgerUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transaction, error) {
	if err := uc.validateTransfer(input.GiverID, input.TakerID, input.Amount, input.Note); err != nil {
		return nil, err
	}

	if _, err := uc.catalog.RateToBase(ctx, input.Currency); err != nil {
		return nil, err
	}

	amount := domain.RoundBalance(input.Amount)

	record, err := uc.commitUnit(ctx, func(ctx context.Context, tx Transaction) (*domain.Transaction, error) {
		if err := uc.resolveParties(ctx, input.GiverID, input.TakerID); err != nil {
			return nil, err
		}

		deltas := []balanceDelta{
			{entityID: input.GiverID, currency: input.Currency, amount: amount.Neg()},
			{entityID: input.TakerID, currency: input.Currency, amount: amount},
		}
		if err := applyDeltas(ctx, uc.balanceRepo, tx, deltas); err != nil {
			return nil, err
		}

		record := &domain.Transaction{
			ID:        uc.idGen.Generate(),
			GiverID:   input.GiverID,
			TakerID:   input.TakerID,
			Amount:    amount,
			Currency:  input.Currency,
			Note:      input.Note,
			CreatedAt: time.Now().UTC(),
		}

		return record, uc.persistRecord(ctx, tx, record)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
	}

	return record, nil
}

// CreateExchangeTransfer moves Amount of GivingCurrency from giver to taker,
// crediting the taker Amount*CustomRate in ReceivingCurrency. Profit against
// the market rate is recorded on the transaction, never booked to a balance.
func (uc *LedgerUseCase) CreateExchangeTransfer(ctx context.Context, input CreateExchangeTransferInput) (*domain.Transaction, error) {
	if err := uc.validateTransfer(input.GiverID, input.TakerID, input.Amount, input.Note); err != nil {
		return nil, err
	}

	if input.GivingCurrency == input.ReceivingCurrency {
		return nil, domain.ErrSameCurrency
	}

	if input.CustomRate.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidRate
	}

	for _, code := range []string{input.GivingCurrency, input.ReceivingCurrency} {
		if _, err := uc.catalog.RateToBase(ctx, code); err != nil {
			return nil, err
		}
	}

	required, err := uc.catalog.RequiresDirectRate(ctx, input.GivingCurrency, input.ReceivingCurrency)
	if err != nil {
		return nil, err
	}

	if required {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrDirectRateRequired, input.GivingCurrency, input.ReceivingCurrency)
	}

	amount := domain.RoundBalance(input.Amount)
	receivedAmount := domain.RoundBalance(amount.Mul(input.CustomRate))

	record, err := uc.commitUnit(ctx, func(ctx context.Context, tx Transaction) (*domain.Transaction, error) {
		if err := uc.resolveParties(ctx, input.GiverID, input.TakerID); err != nil {
			return nil, err
		}

		// Rates are resolved within the unit so a transaction never uses
		// a rate older than its own request.
		marketRate, err := uc.catalog.MarketRate(ctx, input.GivingCurrency, input.ReceivingCurrency)
		if err != nil {
			return nil, err
		}

		profit := Profit(input.CustomRate, marketRate, amount)

		deltas := []balanceDelta{
			{entityID: input.GiverID, currency: input.GivingCurrency, amount: amount.Neg()},
			{entityID: input.TakerID, currency: input.ReceivingCurrency, amount: receivedAmount},
		}
		if err := applyDeltas(ctx, uc.balanceRepo, tx, deltas); err != nil {
			return nil, err
		}

		record := &domain.Transaction{
			ID:                uc.idGen.Generate(),
			GiverID:           input.GiverID,
			TakerID:           input.TakerID,
			Amount:            amount,
			Currency:          input.GivingCurrency,
			Note:              input.Note,
			IsExchange:        true,
			ReceivingCurrency: input.ReceivingCurrency,
			CustomRate:        domain.RoundRate(input.CustomRate),
			MarketRate:        domain.RoundRate(marketRate),
			ReceivedAmount:    receivedAmount,
			Profit:            domain.RoundBalance(profit),
			ProfitCurrency:    input.ReceivingCurrency,
			CreatedAt:         time.Now().UTC(),
		}

		return record, uc.persistRecord(ctx, tx, record)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExchangesCreated.Inc()
	}

	return record, nil
}

// GetTransaction retrieves a committed transaction by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	EntityID string
	Limit    int
	Offset   int
}

// ListTransactions lists committed transactions, optionally for one party.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.EntityID != "" {
		return uc.txRepo.ListByEntity(ctx, input.EntityID, limit, offset)
	}

	return uc.txRepo.List(ctx, limit, offset)
}

func (uc *LedgerUseCase) validateTransfer(giverID, takerID string, amount decimal.Decimal, note string) error {
	if giverID == takerID {
		return domain.ErrSameParty
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}

	return domain.ValidateNote(note)
}

// resolveParties resolves both parties through the directory, surfacing a
// miss as ErrPartyNotFound before any mutation.
func (uc *LedgerUseCase) resolveParties(ctx context.Context, giverID, takerID string) error {
	for _, id := range []string{giverID, takerID} {
		if _, err := uc.directory.ResolveCategory(ctx, id); err != nil {
			if err == domain.ErrEntityNotFound {
				return fmt.Errorf("%w: %s", domain.ErrPartyNotFound, id)
			}

			return err
		}
	}

	return nil
}

// persistRecord snapshots both parties post-mutation, validates the record
// and writes it together with its outbox event. Snapshots are re-read inside
// the unit strictly after the deltas are applied.
func (uc *LedgerUseCase) persistRecord(ctx context.Context, tx Transaction, record *domain.Transaction) error {
	giverSnapshot, err := uc.balanceRepo.GetAllTx(ctx, tx, record.GiverID)
	if err != nil {
		return err
	}

	takerSnapshot, err := uc.balanceRepo.GetAllTx(ctx, tx, record.TakerID)
	if err != nil {
		return err
	}

	record.GiverSnapshot = giverSnapshot
	record.TakerSnapshot = takerSnapshot

	if err := record.Validate(); err != nil {
		return err
	}

	if err := uc.txRepo.Create(ctx, tx, record); err != nil {
		return err
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   record.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionCreated,
		Payload: map[string]any{
			"transaction_id": record.ID,
			"giver_id":       record.GiverID,
			"taker_id":       record.TakerID,
			"amount":         record.Amount.String(),
			"currency":       record.Currency,
			"is_exchange":    record.IsExchange,
		},
		CreatedAt: record.CreatedAt,
	})
}

// commitUnit runs fn inside a transaction, retrying the whole unit on
// serialization conflicts when a retrier is configured. A commit that fails
// leaves nothing mutated and is reported as ErrCommitFailed.
func (uc *LedgerUseCase) commitUnit(ctx context.Context, fn func(ctx context.Context, tx Transaction) (*domain.Transaction, error)) (*domain.Transaction, error) {
	var record *domain.Transaction

	run := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
		}
		defer tx.Rollback(ctx)

		record, err = fn(ctx, tx)
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
		return nil, err
	}

	return record, nil
}

func (uc *LedgerUseCase) countError(err error) {
	if uc.metrics != nil {
		uc.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
	}
}
