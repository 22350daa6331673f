package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated  = "transaction.created"
	EventTypeTransactionReversed = "transaction.reversed"
	EventTypeEntityCreated       = "entity.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeEntity      = "entity"
)

// OutboxEvent represents an event appended in the same atomic unit as the
// mutation it describes, published asynchronously by the outbox worker.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionCreatedEvent payload
type TransactionCreatedEvent struct {
	TransactionID string `json:"transaction_id"`
	GiverID       string `json:"giver_id"`
	TakerID       string `json:"taker_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	IsExchange    bool   `json:"is_exchange"`
}

// TransactionReversedEvent payload
type TransactionReversedEvent struct {
	TransactionID string `json:"transaction_id"`
	GiverID       string `json:"giver_id"`
	TakerID       string `json:"taker_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// EntityCreatedEvent payload
type EntityCreatedEvent struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
