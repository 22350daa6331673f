package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidEntityName   = errors.New("invalid entity name")
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	ErrInvalidCategory     = errors.New("invalid entity category")
	ErrNoteTooLong         = errors.New("note exceeds maximum length")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxEntityNameLength = 255
	MaxNoteLength       = 1024
	MaxAmount           = "1000000000000" // 1 trillion
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateEntityName validates a party display name.
func ValidateEntityName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEntityName)
	}

	if len(name) > MaxEntityNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidEntityName, MaxEntityNameLength)
	}

	return nil
}

// ValidateCurrencyCode validates an ISO 4217 style currency code.
func ValidateCurrencyCode(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q is not a three-letter code", ErrInvalidCurrencyCode, code)
	}

	return nil
}

// ValidateCategory validates a storable partition name.
func ValidateCategory(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}

	return nil
}

// ValidateAmount validates a transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateNote validates the free-text note attached to a transaction.
func ValidateNote(note string) error {
	if len(note) > MaxNoteLength {
		return fmt.Errorf("%w: limit is %d bytes", ErrNoteTooLong, MaxNoteLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
