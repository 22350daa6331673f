package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Records
// are append-only: inserted by the ledger engine, deleted by the reversal
// engine, never updated.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	id, giver_id, taker_id, amount, currency, note,
	is_exchange, receiving_currency, custom_rate, market_rate,
	received_amount, profit, profit_currency,
	giver_snapshot, taker_snapshot, created_at`

// Create persists a transaction record within tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.Transaction) error {
	giverSnapshot, err := json.Marshal(record.GiverSnapshot)
	if err != nil {
		return err
	}

	takerSnapshot, err := json.Marshal(record.TakerSnapshot)
	if err != nil {
		return err
	}

	_, err = pgxTxOf(tx).Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		record.ID,
		record.GiverID,
		record.TakerID,
		decimalToNumeric(record.Amount),
		record.Currency,
		record.Note,
		record.IsExchange,
		record.ReceivingCurrency,
		decimalToNumeric(record.CustomRate),
		decimalToNumeric(record.MarketRate),
		decimalToNumeric(record.ReceivedAmount),
		decimalToNumeric(record.Profit),
		record.ProfitCurrency,
		giverSnapshot,
		takerSnapshot,
		timeToPgTimestamptz(record.CreatedAt),
	)

	return err
}

// GetByID retrieves a record by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)

	return scanTransaction(row)
}

// GetByIDForUpdate retrieves a record with a FOR UPDATE lock so concurrent
// reversals of the same transaction serialize.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	row := pgxTxOf(tx).QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
		FOR UPDATE`, id)

	return scanTransaction(row)
}

// Delete removes a record within tx.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := pgxTxOf(tx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByEntity lists records where the entity is either party, newest first.
func (r *TransactionRepository) ListByEntity(ctx context.Context, entityID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE giver_id = $1 OR taker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, entityID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}

	return collectTransactions(rows)
}

// List lists records, newest first.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	var records []*domain.Transaction
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		record         domain.Transaction
		amount         pgtype.Numeric
		customRate     pgtype.Numeric
		marketRate     pgtype.Numeric
		receivedAmount pgtype.Numeric
		profit         pgtype.Numeric
		giverSnapshot  []byte
		takerSnapshot  []byte
		created        pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.GiverID,
		&record.TakerID,
		&amount,
		&record.Currency,
		&record.Note,
		&record.IsExchange,
		&record.ReceivingCurrency,
		&customRate,
		&marketRate,
		&receivedAmount,
		&profit,
		&record.ProfitCurrency,
		&giverSnapshot,
		&takerSnapshot,
		&created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	record.Amount = numericToDecimal(amount)
	record.CustomRate = numericToDecimal(customRate)
	record.MarketRate = numericToDecimal(marketRate)
	record.ReceivedAmount = numericToDecimal(receivedAmount)
	record.Profit = numericToDecimal(profit)
	record.CreatedAt = created.Time

	if err := json.Unmarshal(giverSnapshot, &record.GiverSnapshot); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(takerSnapshot, &record.TakerSnapshot); err != nil {
		return nil, err
	}

	return &record, nil
}
