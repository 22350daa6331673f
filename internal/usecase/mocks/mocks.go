package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hewad/sarrafbook/internal/domain"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// MockEntityRepository is a map-backed mock of EntityRepository.
type MockEntityRepository struct {
	mu       sync.RWMutex
	entities map[string]*domain.Entity

	CreateFunc           func(ctx context.Context, entity *domain.Entity) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Entity, error)
	ExistsInCategoryFunc func(ctx context.Context, id string, category domain.Category) (bool, error)
	ListFunc             func(ctx context.Context, category *domain.Category, limit, offset int) ([]*domain.Entity, error)
}

func NewMockEntityRepository() *MockEntityRepository {
	return &MockEntityRepository{entities: make(map[string]*domain.Entity)}
}

// Seed adds an entity directly to the backing map.
func (m *MockEntityRepository) Seed(entity *domain.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[entity.ID] = entity
}

func (m *MockEntityRepository) Create(ctx context.Context, entity *domain.Entity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[entity.ID] = entity
	return nil
}

func (m *MockEntityRepository) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entity, ok := m.entities[id]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}
	return entity, nil
}

func (m *MockEntityRepository) ExistsInCategory(ctx context.Context, id string, category domain.Category) (bool, error) {
	if m.ExistsInCategoryFunc != nil {
		return m.ExistsInCategoryFunc(ctx, id, category)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entity, ok := m.entities[id]
	return ok && entity.Category == category, nil
}

func (m *MockEntityRepository) List(ctx context.Context, category *domain.Category, limit, offset int) ([]*domain.Entity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, category, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entities []*domain.Entity
	for _, entity := range m.entities {
		if category == nil || entity.Category == *category {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// MockBalanceRepository is a map-backed mock of BalanceRepository. Its
// default behavior applies deltas to an in-memory balance map, so tests can
// assert conservation properties directly.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]map[string]decimal.Decimal

	GetAllFunc     func(ctx context.Context, entityID string) (domain.BalanceSnapshot, error)
	GetAllTxFunc   func(ctx context.Context, tx usecase.Transaction, entityID string) (domain.BalanceSnapshot, error)
	ApplyDeltaFunc func(ctx context.Context, tx usecase.Transaction, entityID, currency string, delta decimal.Decimal) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{balances: make(map[string]map[string]decimal.Decimal)}
}

// SetBalance seeds a stored balance.
func (m *MockBalanceRepository) SetBalance(entityID, currency string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[entityID] == nil {
		m.balances[entityID] = make(map[string]decimal.Decimal)
	}
	m.balances[entityID][currency] = amount
}

// Balance reads a stored balance, zero when absent.
func (m *MockBalanceRepository) Balance(entityID, currency string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[entityID][currency]
}

func (m *MockBalanceRepository) snapshot(entityID string) domain.BalanceSnapshot {
	snapshot := make(domain.BalanceSnapshot)
	for currency, amount := range m.balances[entityID] {
		snapshot[currency] = amount
	}
	return snapshot
}

func (m *MockBalanceRepository) GetAll(ctx context.Context, entityID string) (domain.BalanceSnapshot, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, entityID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(entityID), nil
}

func (m *MockBalanceRepository) GetAllTx(ctx context.Context, tx usecase.Transaction, entityID string) (domain.BalanceSnapshot, error) {
	if m.GetAllTxFunc != nil {
		return m.GetAllTxFunc(ctx, tx, entityID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(entityID), nil
}

func (m *MockBalanceRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, entityID, currency string, delta decimal.Decimal) error {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, entityID, currency, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[entityID] == nil {
		m.balances[entityID] = make(map[string]decimal.Decimal)
	}
	m.balances[entityID][currency] = m.balances[entityID][currency].Add(delta)
	return nil
}

// MockRateRepository is a map-backed mock of RateRepository.
type MockRateRepository struct {
	mu          sync.RWMutex
	currencies  map[string]*domain.Currency
	directRates map[string]*domain.DirectRate

	GetCurrencyFunc      func(ctx context.Context, code string) (*domain.Currency, error)
	GetDirectRateFunc    func(ctx context.Context, from, to string) (*domain.DirectRate, error)
	UpsertDirectRateFunc func(ctx context.Context, rate *domain.DirectRate) error
}

func NewMockRateRepository() *MockRateRepository {
	return &MockRateRepository{
		currencies:  make(map[string]*domain.Currency),
		directRates: make(map[string]*domain.DirectRate),
	}
}

// SeedCurrency adds a currency directly.
func (m *MockRateRepository) SeedCurrency(currency *domain.Currency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[currency.Code] = currency
}

// SeedDirectRate adds a direct rate directly.
func (m *MockRateRepository) SeedDirectRate(rate *domain.DirectRate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directRates[rate.FromCurrency+"/"+rate.ToCurrency] = rate
}

func (m *MockRateRepository) CreateCurrency(ctx context.Context, currency *domain.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.currencies[currency.Code]; ok {
		return domain.ErrCurrencyExists
	}
	m.currencies[currency.Code] = currency
	return nil
}

func (m *MockRateRepository) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	if m.GetCurrencyFunc != nil {
		return m.GetCurrencyFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	currency, ok := m.currencies[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
	}
	return currency, nil
}

func (m *MockRateRepository) ListCurrencies(ctx context.Context) ([]*domain.Currency, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var currencies []*domain.Currency
	for _, currency := range m.currencies {
		currencies = append(currencies, currency)
	}
	return currencies, nil
}

func (m *MockRateRepository) UpdateRate(ctx context.Context, code string, rate decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	currency, ok := m.currencies[code]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
	}
	currency.RateToBase = rate
	currency.UpdatedAt = updatedAt
	return nil
}

func (m *MockRateRepository) GetDirectRate(ctx context.Context, from, to string) (*domain.DirectRate, error) {
	if m.GetDirectRateFunc != nil {
		return m.GetDirectRateFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rate, ok := m.directRates[from+"/"+to]
	if !ok {
		return nil, domain.ErrDirectRateNotFound
	}
	return rate, nil
}

func (m *MockRateRepository) UpsertDirectRate(ctx context.Context, rate *domain.DirectRate) error {
	if m.UpsertDirectRateFunc != nil {
		return m.UpsertDirectRateFunc(ctx, rate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directRates[rate.FromCurrency+"/"+rate.ToCurrency] = rate
	return nil
}

// MockTransactionRepository is a map-backed mock of TransactionRepository.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Transaction

	CreateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.Transaction) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{records: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return record, nil
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MockTransactionRepository) ListByEntity(ctx context.Context, entityID string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.Transaction
	for _, record := range m.records {
		if record.GiverID == entityID || record.TakerID == entityID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.Transaction
	for _, record := range m.records {
		records = append(records, record)
	}
	return records, nil
}

// MockOutboxRepository collects outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, event := range m.Events {
		if !event.Published {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.Events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// MockTransaction is a no-op usecase.Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("id-%04d", m.n)
}

// MockCache is a map-backed usecase.Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[key]
	if !ok {
		return nil, fmt.Errorf("cache miss: %s", key)
	}
	return data, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
