package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// RegisterEntityRequest represents a request to register a party.
type RegisterEntityRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterEntityRequest) ToUseCaseInput() usecase.RegisterEntityInput {
	return usecase.RegisterEntityInput{
		Name:     r.Name,
		Category: domain.Category(r.Category),
		Phone:    r.Phone,
		Address:  r.Address,
	}
}

// CreateTransferRequest represents a request to create a simple transfer.
type CreateTransferRequest struct {
	GiverID  string          `json:"giver_id"`
	TakerID  string          `json:"taker_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Note     string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		GiverID:  r.GiverID,
		TakerID:  r.TakerID,
		Amount:   r.Amount,
		Currency: r.Currency,
		Note:     r.Note,
	}
}

// CreateExchangeTransferRequest represents a request to create an exchange
// transfer at a custom agreed rate.
type CreateExchangeTransferRequest struct {
	GiverID           string          `json:"giver_id"`
	TakerID           string          `json:"taker_id"`
	Amount            decimal.Decimal `json:"amount"`
	GivingCurrency    string          `json:"giving_currency"`
	ReceivingCurrency string          `json:"receiving_currency"`
	CustomRate        decimal.Decimal `json:"custom_rate"`
	Note              string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExchangeTransferRequest) ToUseCaseInput() usecase.CreateExchangeTransferInput {
	return usecase.CreateExchangeTransferInput{
		GiverID:           r.GiverID,
		TakerID:           r.TakerID,
		Amount:            r.Amount,
		GivingCurrency:    r.GivingCurrency,
		ReceivingCurrency: r.ReceivingCurrency,
		CustomRate:        r.CustomRate,
		Note:              r.Note,
	}
}

// CreateCurrencyRequest represents a request to register a currency.
type CreateCurrencyRequest struct {
	Code       string          `json:"code"`
	Symbol     string          `json:"symbol"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrencyRequest) ToUseCaseInput() usecase.CreateCurrencyInput {
	return usecase.CreateCurrencyInput{
		Code:       r.Code,
		Symbol:     r.Symbol,
		RateToBase: r.RateToBase,
	}
}

// UpdateRateRequest represents a request to update a currency's base rate.
type UpdateRateRequest struct {
	RateToBase decimal.Decimal `json:"rate_to_base"`
}

// UpsertDirectRateRequest represents a request to set a direct market rate
// between two non-base currencies.
type UpsertDirectRateRequest struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
}
