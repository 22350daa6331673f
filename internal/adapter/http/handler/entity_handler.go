package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hewad/sarrafbook/internal/adapter/http/dto"
	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// EntityService defines the behavior needed by EntityHandler.
type EntityService interface {
	RegisterEntity(ctx context.Context, input usecase.RegisterEntityInput) (*domain.Entity, error)
	GetEntity(ctx context.Context, id string) (*domain.Entity, error)
	ListEntities(ctx context.Context, input usecase.ListEntitiesInput) ([]*domain.Entity, error)
	GetBalances(ctx context.Context, entityID string) (domain.BalanceSnapshot, error)
}

// EntityHandler handles party-related HTTP requests.
type EntityHandler struct {
	entityUC EntityService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(entityUC EntityService) *EntityHandler {
	return &EntityHandler{entityUC: entityUC}
}

// Create registers a new party.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entity, err := h.entityUC.RegisterEntity(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to register entity", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntityFromDomain(entity))
}

// Get retrieves a party by ID.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entity ID", "")
		return
	}

	entity, err := h.entityUC.GetEntity(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entity", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntityFromDomain(entity))
}

// List lists parties, optionally filtered by category.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	input := usecase.ListEntitiesInput{
		Limit:  limit,
		Offset: offset,
	}
	if categoryParam := r.URL.Query().Get("category"); categoryParam != "" {
		category := domain.Category(categoryParam)
		input.Category = &category
	}

	entities, err := h.entityUC.ListEntities(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list entities", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntitiesResponse{
		Entities: dto.EntitiesFromDomain(entities),
		Total:    int64(len(entities)),
	})
}

// GetBalances returns a party's full per-currency balance map. The owner
// sentinel "myself" is accepted here.
func (h *EntityHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entity ID", "")
		return
	}

	balances, err := h.entityUC.GetBalances(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromSnapshot(id, balances))
}
