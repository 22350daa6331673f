package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository. The base-currency
// balance lives on the entity row (the cashbox row for the owner sentinel);
// every other currency lives in the sparse currency_balances side table,
// where an absent row means zero.
type BalanceRepository struct {
	pool         *pgxpool.Pool
	baseCurrency string
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool, baseCurrency string) *BalanceRepository {
	return &BalanceRepository{pool: pool, baseCurrency: baseCurrency}
}

// GetAll reads a party's full balance map outside any transaction.
func (r *BalanceRepository) GetAll(ctx context.Context, entityID string) (domain.BalanceSnapshot, error) {
	return r.getAll(ctx, r.pool, entityID)
}

// GetAllTx re-reads the balance map inside tx so snapshots observe the same
// unit's mutations.
func (r *BalanceRepository) GetAllTx(ctx context.Context, tx usecase.Transaction, entityID string) (domain.BalanceSnapshot, error) {
	return r.getAll(ctx, pgxTxOf(tx), entityID)
}

func (r *BalanceRepository) getAll(ctx context.Context, q querier, entityID string) (domain.BalanceSnapshot, error) {
	base, err := r.baseBalance(ctx, q, entityID)
	if err != nil {
		return nil, err
	}

	snapshot := domain.BalanceSnapshot{r.baseCurrency: base}

	rows, err := q.Query(ctx, `
		SELECT currency, amount
		FROM currency_balances
		WHERE entity_id = $1`, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			currency string
			amount   pgtype.Numeric
		)

		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, err
		}

		snapshot[currency] = numericToDecimal(amount)
	}

	return snapshot, rows.Err()
}

func (r *BalanceRepository) baseBalance(ctx context.Context, q querier, entityID string) (decimal.Decimal, error) {
	query := `SELECT base_balance FROM entities WHERE id = $1`
	if entityID == domain.OwnerID {
		query = `SELECT base_balance FROM cashbox WHERE id = $1`
	}

	var balance pgtype.Numeric

	err := q.QueryRow(ctx, query, entityID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrEntityNotFound
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// ApplyDelta adds delta (signed) to the stored balance for currency within
// the caller's transaction. The base currency mutates the entity (or
// cashbox) row; other currencies upsert into the side table. Both forms are
// single-statement read-modify-writes, so the row lock taken by the
// statement provides per-entity-balance isolation for the whole unit.
func (r *BalanceRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, entityID, currency string, delta decimal.Decimal) error {
	pgxTx := pgxTxOf(tx)

	if currency == r.baseCurrency {
		query := `UPDATE entities SET base_balance = base_balance + $1, updated_at = now() WHERE id = $2`
		if entityID == domain.OwnerID {
			query = `UPDATE cashbox SET base_balance = base_balance + $1, updated_at = now() WHERE id = $2`
		}

		tag, err := pgxTx.Exec(ctx, query, decimalToNumeric(delta), entityID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrEntityNotFound
		}

		return nil
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO currency_balances (entity_id, currency, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity_id, currency)
		DO UPDATE SET amount = currency_balances.amount + EXCLUDED.amount`,
		entityID, currency, decimalToNumeric(delta))

	return err
}
