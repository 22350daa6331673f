package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hewad/sarrafbook/internal/adapter/http/dto"
	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// LedgerService defines the behavior needed by TransferHandler.
type LedgerService interface {
	CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transaction, error)
	CreateExchangeTransfer(ctx context.Context, input usecase.CreateExchangeTransferInput) (*domain.Transaction, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	ledgerUC LedgerService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ledgerUC LedgerService) *TransferHandler {
	return &TransferHandler{ledgerUC: ledgerUC}
}

// Create creates a simple same-currency transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.ledgerUC.CreateTransfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(record))
}

// CreateExchange creates a currency-exchange transfer at a custom rate.
func (h *TransferHandler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExchangeTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.ledgerUC.CreateExchangeTransfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create exchange transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(record))
}
