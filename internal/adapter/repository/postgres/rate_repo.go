package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
)

const pgErrUniqueViolation = "23505"

// RateRepository implements usecase.RateRepository over the currencies and
// direct_rates tables.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// CreateCurrency registers a currency.
func (r *RateRepository) CreateCurrency(ctx context.Context, currency *domain.Currency) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO currencies (code, symbol, rate_to_base, is_base, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		currency.Code,
		currency.Symbol,
		decimalToNumeric(currency.RateToBase),
		currency.IsBase,
		timeToPgTimestamptz(currency.CreatedAt),
		timeToPgTimestamptz(currency.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrCurrencyExists, currency.Code)
		}

		return err
	}

	return nil
}

// GetCurrency retrieves a currency by code.
func (r *RateRepository) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	var (
		currency domain.Currency
		rate     pgtype.Numeric
		created  pgtype.Timestamptz
		updated  pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT code, symbol, rate_to_base, is_base, created_at, updated_at
		FROM currencies
		WHERE code = $1`, code,
	).Scan(&currency.Code, &currency.Symbol, &rate, &currency.IsBase, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
		}

		return nil, err
	}

	currency.RateToBase = numericToDecimal(rate)
	currency.CreatedAt = created.Time
	currency.UpdatedAt = updated.Time

	return &currency, nil
}

// ListCurrencies lists the catalog ordered by code.
func (r *RateRepository) ListCurrencies(ctx context.Context) ([]*domain.Currency, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, symbol, rate_to_base, is_base, created_at, updated_at
		FROM currencies
		ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		var (
			currency domain.Currency
			rate     pgtype.Numeric
			created  pgtype.Timestamptz
			updated  pgtype.Timestamptz
		)

		err := rows.Scan(&currency.Code, &currency.Symbol, &rate, &currency.IsBase, &created, &updated)
		if err != nil {
			return nil, err
		}

		currency.RateToBase = numericToDecimal(rate)
		currency.CreatedAt = created.Time
		currency.UpdatedAt = updated.Time
		currencies = append(currencies, &currency)
	}

	return currencies, rows.Err()
}

// UpdateRate changes a currency's rate to base. The base row is guarded by a
// trigger-free convention: callers reject base updates before reaching here,
// and the WHERE clause refuses them as well.
func (r *RateRepository) UpdateRate(ctx context.Context, code string, rate decimal.Decimal, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE currencies
		SET rate_to_base = $1, updated_at = $2
		WHERE code = $3 AND NOT is_base`,
		decimalToNumeric(rate), timeToPgTimestamptz(updatedAt), code)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
	}

	return nil
}

// GetDirectRate retrieves the direct rate for the ordered pair from→to.
func (r *RateRepository) GetDirectRate(ctx context.Context, from, to string) (*domain.DirectRate, error) {
	var (
		direct  domain.DirectRate
		rate    pgtype.Numeric
		updated pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT from_currency, to_currency, rate, updated_at
		FROM direct_rates
		WHERE from_currency = $1 AND to_currency = $2`, from, to,
	).Scan(&direct.FromCurrency, &direct.ToCurrency, &rate, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDirectRateNotFound
		}

		return nil, err
	}

	direct.Rate = numericToDecimal(rate)
	direct.UpdatedAt = updated.Time

	return &direct, nil
}

// UpsertDirectRate creates or replaces the rate for the ordered pair.
func (r *RateRepository) UpsertDirectRate(ctx context.Context, rate *domain.DirectRate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO direct_rates (from_currency, to_currency, rate, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at`,
		rate.FromCurrency, rate.ToCurrency, decimalToNumeric(rate.Rate), timeToPgTimestamptz(rate.UpdatedAt))

	return err
}
