package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hewad/sarrafbook/internal/adapter/http/dto"
)

func TestCurrencyCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("create and list currencies", func(t *testing.T) {
		env.reset(ctx)

		for _, req := range []dto.CreateCurrencyRequest{
			{Code: baseCurrency, Symbol: "؋", RateToBase: dec("1")},
			{Code: "USD", Symbol: "$", RateToBase: dec("70")},
		} {
			body, _ := json.Marshal(req)
			r := httptest.NewRequest(http.MethodPost, "/api/v1/currencies", bytes.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			env.Router.ServeHTTP(w, r)

			if w.Code != http.StatusCreated {
				t.Fatalf("failed to create currency %s: %d %s", req.Code, w.Code, w.Body.String())
			}
		}

		r := httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var currencies []*dto.CurrencyResponse
		if err := json.Unmarshal(w.Body.Bytes(), &currencies); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if len(currencies) != 2 {
			t.Fatalf("expected 2 currencies, got %d", len(currencies))
		}

		for _, c := range currencies {
			if c.Code == baseCurrency && !c.IsBase {
				t.Errorf("expected %s to be flagged as base", baseCurrency)
			}
			if c.Code == "USD" && c.IsBase {
				t.Error("USD must not be flagged as base")
			}
		}
	})

	t.Run("duplicate currency is rejected", func(t *testing.T) {
		env.reset(ctx)
		env.seedStandardCurrencies(ctx)

		body, _ := json.Marshal(dto.CreateCurrencyRequest{Code: "USD", RateToBase: dec("71")})
		r := httptest.NewRequest(http.MethodPost, "/api/v1/currencies", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
		}
	})

	t.Run("update rate", func(t *testing.T) {
		env.reset(ctx)
		env.seedStandardCurrencies(ctx)

		body, _ := json.Marshal(dto.UpdateRateRequest{RateToBase: dec("71.50")})
		r := httptest.NewRequest(http.MethodPut, "/api/v1/currencies/USD/rate", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d: %s", http.StatusNoContent, w.Code, w.Body.String())
		}

		currency, err := env.RateRepo.GetCurrency(ctx, "USD")
		if err != nil {
			t.Fatalf("failed to read currency: %v", err)
		}
		if !currency.RateToBase.Equal(dec("71.50")) {
			t.Errorf("expected rate 71.50, got %s", currency.RateToBase)
		}
	})

	t.Run("base currency rate is immutable", func(t *testing.T) {
		env.reset(ctx)
		env.seedStandardCurrencies(ctx)

		body, _ := json.Marshal(dto.UpdateRateRequest{RateToBase: dec("2")})
		r := httptest.NewRequest(http.MethodPut, "/api/v1/currencies/"+baseCurrency+"/rate", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}
	})
}
