package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerID is the well-known identifier for the ledger owner. It is never
// stored in any entity partition; the directory resolves it without I/O and
// the balance store reads it from the cashbox record.
const OwnerID = "myself"

// Category identifies which partition an entity belongs to.
type Category string

const (
	CategoryCustomer  Category = "customer"
	CategoryMiddleman Category = "middleman"
	CategorySupplier  Category = "supplier"
	CategoryOwner     Category = "owner"
)

// PartitionProbeOrder is the fixed order in which the directory probes the
// stored partitions. The order carries no priority meaning; an identifier is
// expected to exist in exactly one partition, and the first match wins.
var PartitionProbeOrder = []Category{
	CategoryCustomer,
	CategoryMiddleman,
	CategorySupplier,
}

// Valid reports whether c names a storable partition. CategoryOwner is valid
// as a resolution result but is never a storage partition.
func (c Category) Valid() bool {
	switch c {
	case CategoryCustomer, CategoryMiddleman, CategorySupplier:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// Entity represents a party the owner transacts with. Its base-currency
// balance is colocated with the record; non-base balances live in the
// currency_balances side table.
type Entity struct {
	ID          string
	Name        string
	Category    Category
	BaseBalance decimal.Decimal
	Phone       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
