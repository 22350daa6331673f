package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/adapter/http/dto"
	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// CatalogService defines the behavior needed by RateHandler.
type CatalogService interface {
	CreateCurrency(ctx context.Context, input usecase.CreateCurrencyInput) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]*domain.Currency, error)
	UpdateRate(ctx context.Context, code string, rate decimal.Decimal) error
	RequiresDirectRate(ctx context.Context, from, to string) (bool, error)
	SaveDirectRate(ctx context.Context, from, to string, rate decimal.Decimal) error
}

// RateHandler handles currency and rate HTTP requests.
type RateHandler struct {
	catalogUC CatalogService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(catalogUC CatalogService) *RateHandler {
	return &RateHandler{catalogUC: catalogUC}
}

// CreateCurrency registers a new currency.
func (h *RateHandler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.catalogUC.CreateCurrency(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create currency", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CurrencyFromDomain(currency))
}

// ListCurrencies lists all registered currencies.
func (h *RateHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.catalogUC.ListCurrencies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list currencies", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(currencies))
}

// UpdateRate updates a non-base currency's rate to base.
func (h *RateHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing currency code", "")
		return
	}

	var req dto.UpdateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.catalogUC.UpdateRate(r.Context(), code, req.RateToBase); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update rate", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DirectRateRequired reports whether a currency pair needs a stored direct
// rate before exchange transfers between them can proceed.
func (h *RateHandler) DirectRateRequired(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "missing from/to currency", "")
		return
	}

	required, err := h.catalogUC.RequiresDirectRate(r.Context(), from, to)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to check direct rate requirement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DirectRateRequiredResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Required:     required,
	})
}

// UpsertDirectRate stores a direct market rate for a currency pair.
func (h *RateHandler) UpsertDirectRate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertDirectRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.catalogUC.SaveDirectRate(r.Context(), req.FromCurrency, req.ToCurrency, req.Rate); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to save direct rate", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
