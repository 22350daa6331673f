package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
)

// EntityUseCase handles party registration and balance reads. Balances are
// only ever mutated by the ledger and reversal engines.
type EntityUseCase struct {
	entityRepo  EntityRepository
	balanceRepo BalanceRepository
	idGen       IDGenerator
}

// NewEntityUseCase creates a new EntityUseCase.
func NewEntityUseCase(entityRepo EntityRepository, balanceRepo BalanceRepository, idGen IDGenerator) *EntityUseCase {
	return &EntityUseCase{
		entityRepo:  entityRepo,
		balanceRepo: balanceRepo,
		idGen:       idGen,
	}
}

// RegisterEntityInput represents input for registering a party.
type RegisterEntityInput struct {
	Name     string
	Category domain.Category
	Phone    string
	Address  string
}

// RegisterEntity registers a new party with a zero base balance.
func (uc *EntityUseCase) RegisterEntity(ctx context.Context, input RegisterEntityInput) (*domain.Entity, error) {
	if err := domain.ValidateEntityName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateCategory(input.Category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entity := &domain.Entity{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Category:    input.Category,
		BaseBalance: decimal.Zero,
		Phone:       input.Phone,
		Address:     input.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.entityRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// GetEntity retrieves a party by ID.
func (uc *EntityUseCase) GetEntity(ctx context.Context, id string) (*domain.Entity, error) {
	return uc.entityRepo.GetByID(ctx, id)
}

// ListEntitiesInput represents input for listing parties.
type ListEntitiesInput struct {
	Category *domain.Category
	Limit    int
	Offset   int
}

// ListEntities lists parties, optionally filtered by partition.
func (uc *EntityUseCase) ListEntities(ctx context.Context, input ListEntitiesInput) ([]*domain.Entity, error) {
	if input.Category != nil {
		if err := domain.ValidateCategory(*input.Category); err != nil {
			return nil, err
		}
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entityRepo.List(ctx, input.Category, limit, offset)
}

// GetBalances returns a party's full per-currency balance map. The owner
// sentinel reads from the cashbox record.
func (uc *EntityUseCase) GetBalances(ctx context.Context, entityID string) (domain.BalanceSnapshot, error) {
	return uc.balanceRepo.GetAll(ctx, entityID)
}
