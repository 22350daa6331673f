package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hewad/sarrafbook/internal/adapter/http/dto"
	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// TransactionService defines the read side needed by TransactionHandler.
type TransactionService interface {
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// ReversalService defines the reversal operation needed by TransactionHandler.
type ReversalService interface {
	ReverseTransaction(ctx context.Context, id string) error
}

// TransactionHandler handles transaction read and reversal HTTP requests.
type TransactionHandler struct {
	ledgerUC   TransactionService
	reversalUC ReversalService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC TransactionService, reversalUC ReversalService) *TransactionHandler {
	return &TransactionHandler{
		ledgerUC:   ledgerUC,
		reversalUC: reversalUC,
	}
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	record, err := h.ledgerUC.GetTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(record))
}

// List lists transactions, optionally scoped to one party.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.ledgerUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		EntityID: r.URL.Query().Get("entity"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(records))
}

// Reverse undoes a committed transaction and deletes its record.
func (h *TransactionHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.reversalUC.ReverseTransaction(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse transaction", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
