package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
)

// EntityRepository defines data access for partitioned entity records.
type EntityRepository interface {
	Create(ctx context.Context, entity *domain.Entity) error
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	// ExistsInCategory probes a single partition for an identifier.
	ExistsInCategory(ctx context.Context, id string, category domain.Category) (bool, error)
	List(ctx context.Context, category *domain.Category, limit, offset int) ([]*domain.Entity, error)
}

// BalanceRepository defines read and atomic incremental-update primitives
// over the base-currency field and the currency side table. The owner
// sentinel is backed by the cashbox record instead of an entity row.
type BalanceRepository interface {
	// GetAll reads a party's full balance map outside any transaction.
	GetAll(ctx context.Context, entityID string) (domain.BalanceSnapshot, error)
	// GetAllTx re-reads the balance map inside tx so post-mutation
	// snapshots observe the same unit's effects.
	GetAllTx(ctx context.Context, tx Transaction, entityID string) (domain.BalanceSnapshot, error)
	// ApplyDelta adds delta (signed) to the stored balance for currency,
	// creating the side-table row if absent. Runs inside tx.
	ApplyDelta(ctx context.Context, tx Transaction, entityID, currency string, delta decimal.Decimal) error
}

// RateRepository defines data access for the currency catalog.
type RateRepository interface {
	CreateCurrency(ctx context.Context, currency *domain.Currency) error
	GetCurrency(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]*domain.Currency, error)
	UpdateRate(ctx context.Context, code string, rate decimal.Decimal, updatedAt time.Time) error
	GetDirectRate(ctx context.Context, from, to string) (*domain.DirectRate, error)
	UpsertDirectRate(ctx context.Context, rate *domain.DirectRate) error
}

// TransactionRepository defines data access for immutable transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// GetByIDForUpdate locks the record so concurrent reversals of the
	// same transaction serialize.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByEntity(ctx context.Context, entityID string, limit, offset int) ([]*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an atomic unit when the store reports a serialization
// conflict. It never retries commit failures caused by an unavailable store.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-mostly listing data. Rates used
// inside a transaction are always read from the store, never from here.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
