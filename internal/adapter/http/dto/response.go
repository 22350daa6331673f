package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
)

// EntityResponse represents a party in API responses.
type EntityResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	BaseBalance decimal.Decimal `json:"base_balance"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EntityFromDomain converts a domain entity to a response.
func EntityFromDomain(e *domain.Entity) *EntityResponse {
	return &EntityResponse{
		ID:          e.ID,
		Name:        e.Name,
		Category:    string(e.Category),
		BaseBalance: e.BaseBalance,
		Phone:       e.Phone,
		Address:     e.Address,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EntitiesFromDomain converts domain entities to responses.
func EntitiesFromDomain(entities []*domain.Entity) []*EntityResponse {
	result := make([]*EntityResponse, len(entities))
	for i, e := range entities {
		result[i] = EntityFromDomain(e)
	}
	return result
}

// ListEntitiesResponse wraps a page of parties.
type ListEntitiesResponse struct {
	Entities []*EntityResponse `json:"entities"`
	Total    int64             `json:"total"`
}

// BalanceEntry is one currency position. IsZero is a display hint: the
// stored amount rounds to zero at two decimal places.
type BalanceEntry struct {
	Amount decimal.Decimal `json:"amount"`
	IsZero bool            `json:"is_zero"`
}

// BalancesResponse represents a party's full per-currency balance map.
type BalancesResponse struct {
	EntityID string                  `json:"entity_id"`
	Balances map[string]BalanceEntry `json:"balances"`
}

// BalancesFromSnapshot converts a balance snapshot to a response.
func BalancesFromSnapshot(entityID string, snapshot domain.BalanceSnapshot) *BalancesResponse {
	balances := make(map[string]BalanceEntry, len(snapshot))
	for currency, amount := range snapshot {
		balances[currency] = BalanceEntry{
			Amount: amount,
			IsZero: domain.IsDisplayZero(amount),
		}
	}
	return &BalancesResponse{
		EntityID: entityID,
		Balances: balances,
	}
}

// TransactionResponse represents a committed transaction in API responses.
type TransactionResponse struct {
	ID       string          `json:"id"`
	GiverID  string          `json:"giver_id"`
	TakerID  string          `json:"taker_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Note     string          `json:"note,omitempty"`

	IsExchange        bool             `json:"is_exchange"`
	ReceivingCurrency string           `json:"receiving_currency,omitempty"`
	CustomRate        *decimal.Decimal `json:"custom_rate,omitempty"`
	MarketRate        *decimal.Decimal `json:"market_rate,omitempty"`
	ReceivedAmount    *decimal.Decimal `json:"received_amount,omitempty"`
	Profit            *decimal.Decimal `json:"profit,omitempty"`
	ProfitCurrency    string           `json:"profit_currency,omitempty"`

	GiverSnapshot map[string]decimal.Decimal `json:"giver_snapshot"`
	TakerSnapshot map[string]decimal.Decimal `json:"taker_snapshot"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:            t.ID,
		GiverID:       t.GiverID,
		TakerID:       t.TakerID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Note:          t.Note,
		IsExchange:    t.IsExchange,
		GiverSnapshot: t.GiverSnapshot,
		TakerSnapshot: t.TakerSnapshot,
		CreatedAt:     t.CreatedAt,
	}

	if t.IsExchange {
		customRate := t.CustomRate
		marketRate := t.MarketRate
		receivedAmount := t.ReceivedAmount
		profit := t.Profit

		resp.ReceivingCurrency = t.ReceivingCurrency
		resp.CustomRate = &customRate
		resp.MarketRate = &marketRate
		resp.ReceivedAmount = &receivedAmount
		resp.Profit = &profit
		resp.ProfitCurrency = t.ProfitCurrency
	}

	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	Code       string          `json:"code"`
	Symbol     string          `json:"symbol"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
	IsBase     bool            `json:"is_base"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CurrencyFromDomain converts a domain currency to a response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		Code:       c.Code,
		Symbol:     c.Symbol,
		RateToBase: c.RateToBase,
		IsBase:     c.IsBase,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// DirectRateRequiredResponse answers whether a currency pair needs a
// stored direct rate before exchanges can proceed.
type DirectRateRequiredResponse struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Required     bool   `json:"required"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
