package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/adapter/http/dto"
	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

type transactionServiceStub struct {
	getFn  func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, input)
}

type reversalServiceStub struct {
	reverseFn func(ctx context.Context, id string) error
}

func (s *reversalServiceStub) ReverseTransaction(ctx context.Context, id string) error {
	return s.reverseFn(ctx, id)
}

func TestTransactionHandler_Reverse_Success(t *testing.T) {
	var reversed string
	handler := NewTransactionHandler(&transactionServiceStub{}, &reversalServiceStub{
		reverseFn: func(ctx context.Context, id string) error {
			reversed = id
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/transactions/tx-1", nil)
	req = withURLParam(req, "id", "tx-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if reversed != "tx-1" {
		t.Fatalf("expected tx-1 to be reversed, got %q", reversed)
	}
}

func TestTransactionHandler_Reverse_NotFound(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{}, &reversalServiceStub{
		reverseFn: func(ctx context.Context, id string) error {
			return domain.ErrTransactionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/transactions/ghost", nil)
	req = withURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandler_List_ScopedToEntity(t *testing.T) {
	var captured usecase.ListTransactionsInput
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return []*domain.Transaction{
				{ID: "tx-1", GiverID: "ent-1", TakerID: domain.OwnerID, Amount: decimal.NewFromInt(5), Currency: "USD"},
			}, nil
		},
	}, &reversalServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/transactions?entity=ent-1&limit=5", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.EntityID != "ent-1" || captured.Limit != 5 {
		t.Fatalf("expected scoped query, got %+v", captured)
	}

	var resp []*dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "tx-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
