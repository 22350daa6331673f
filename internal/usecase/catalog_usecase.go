package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
)

const (
	currencyListCacheKey = "currencies"
	currencyListCacheTTL = 5 * time.Minute
)

// CatalogUseCase supplies rate lookups, market-rate computation and currency
// management. Rates consumed by a transaction are always read from the
// repository at the moment of the request; the cache only backs the listing
// endpoint.
type CatalogUseCase struct {
	rateRepo     RateRepository
	cache        Cache
	baseCurrency string
}

// NewCatalogUseCase creates a new CatalogUseCase. cache may be nil.
func NewCatalogUseCase(rateRepo RateRepository, cache Cache, baseCurrency string) *CatalogUseCase {
	return &CatalogUseCase{
		rateRepo:     rateRepo,
		cache:        cache,
		baseCurrency: baseCurrency,
	}
}

// BaseCurrency returns the code all stored rates are expressed against.
func (uc *CatalogUseCase) BaseCurrency() string {
	return uc.baseCurrency
}

// RateToBase returns a currency's rate relative to the base currency.
// The base currency itself is always 1 and needs no lookup.
func (uc *CatalogUseCase) RateToBase(ctx context.Context, code string) (decimal.Decimal, error) {
	if code == uc.baseCurrency {
		return decimal.NewFromInt(1), nil
	}

	currency, err := uc.rateRepo.GetCurrency(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	return currency.RateToBase, nil
}

// MarketRate computes the rate used as the profit baseline for from→to.
// When both currencies are non-base it prefers the exact-direction direct
// rate, then the inverse of the reverse-direction direct rate, then falls
// back to the base-derived approximation.
func (uc *CatalogUseCase) MarketRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from != uc.baseCurrency && to != uc.baseCurrency {
		direct, err := uc.rateRepo.GetDirectRate(ctx, from, to)
		if err == nil {
			return direct.Rate, nil
		}

		if !errors.Is(err, domain.ErrDirectRateNotFound) {
			return decimal.Zero, err
		}

		reverse, err := uc.rateRepo.GetDirectRate(ctx, to, from)
		if err == nil {
			// Inverted at full decimal precision, not raw float division.
			return decimal.NewFromInt(1).Div(reverse.Rate), nil
		}

		if !errors.Is(err, domain.ErrDirectRateNotFound) {
			return decimal.Zero, err
		}
	}

	return uc.baseDerivedRate(ctx, from, to)
}

// baseDerivedRate computes (1 / rateToBase(from)) * rateToBase(to).
func (uc *CatalogUseCase) baseDerivedRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	fromRate, err := uc.RateToBase(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}

	toRate, err := uc.RateToBase(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromInt(1).Div(fromRate).Mul(toRate), nil
}

// RequiresDirectRate reports whether an exchange between from and to is
// blocked until the caller saves a direct rate: true exactly when both
// currencies are non-base and no direct rate exists in either direction.
func (uc *CatalogUseCase) RequiresDirectRate(ctx context.Context, from, to string) (bool, error) {
	if from == uc.baseCurrency || to == uc.baseCurrency {
		return false, nil
	}

	_, err := uc.rateRepo.GetDirectRate(ctx, from, to)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, domain.ErrDirectRateNotFound) {
		return false, err
	}

	_, err = uc.rateRepo.GetDirectRate(ctx, to, from)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, domain.ErrDirectRateNotFound) {
		return false, err
	}

	return true, nil
}

// SaveDirectRate persists a merchant-agreed rate for the ordered pair
// from→to. Both currencies must be known and distinct from each other and
// from the base currency.
func (uc *CatalogUseCase) SaveDirectRate(ctx context.Context, from, to string, rate decimal.Decimal) error {
	if from == to {
		return domain.ErrSameCurrency
	}

	if from == uc.baseCurrency || to == uc.baseCurrency {
		return fmt.Errorf("%w: direct rates are only stored between non-base currencies", domain.ErrInvalidRate)
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidRate
	}

	for _, code := range []string{from, to} {
		if _, err := uc.rateRepo.GetCurrency(ctx, code); err != nil {
			return err
		}
	}

	return uc.rateRepo.UpsertDirectRate(ctx, &domain.DirectRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         domain.RoundRate(rate),
		UpdatedAt:    time.Now().UTC(),
	})
}

// Profit computes (customRate - marketRate) * amount, expressed in the
// receiving currency. It is informational only and is never booked to any
// balance.
func Profit(customRate, marketRate, amount decimal.Decimal) decimal.Decimal {
	return customRate.Sub(marketRate).Mul(amount)
}

// CreateCurrencyInput represents input for registering a currency.
type CreateCurrencyInput struct {
	Code       string
	Symbol     string
	RateToBase decimal.Decimal
}

// CreateCurrency registers a new currency in the catalog.
func (uc *CatalogUseCase) CreateCurrency(ctx context.Context, input CreateCurrencyInput) (*domain.Currency, error) {
	if err := domain.ValidateCurrencyCode(input.Code); err != nil {
		return nil, err
	}

	isBase := input.Code == uc.baseCurrency
	rate := domain.RoundRate(input.RateToBase)

	if isBase {
		rate = decimal.NewFromInt(1)
	} else if input.RateToBase.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidRate
	}

	now := time.Now().UTC()
	currency := &domain.Currency{
		Code:       input.Code,
		Symbol:     input.Symbol,
		RateToBase: rate,
		IsBase:     isBase,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.rateRepo.CreateCurrency(ctx, currency); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)

	return currency, nil
}

// UpdateRate changes a non-base currency's rate to base.
func (uc *CatalogUseCase) UpdateRate(ctx context.Context, code string, rate decimal.Decimal) error {
	if code == uc.baseCurrency {
		return domain.ErrBaseRateImmutable
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidRate
	}

	if _, err := uc.rateRepo.GetCurrency(ctx, code); err != nil {
		return err
	}

	if err := uc.rateRepo.UpdateRate(ctx, code, domain.RoundRate(rate), time.Now().UTC()); err != nil {
		return err
	}

	uc.invalidateListCache(ctx)

	return nil
}

// ListCurrencies lists the catalog, read through the cache when available.
func (uc *CatalogUseCase) ListCurrencies(ctx context.Context) ([]*domain.Currency, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, currencyListCacheKey); err == nil && data != nil {
			var currencies []*domain.Currency
			if err := json.Unmarshal(data, &currencies); err == nil {
				return currencies, nil
			}
		}
	}

	currencies, err := uc.rateRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(currencies); err == nil {
			_ = uc.cache.Set(ctx, currencyListCacheKey, data, currencyListCacheTTL)
		}
	}

	return currencies, nil
}

func (uc *CatalogUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, currencyListCacheKey)
	}
}
