package usecase

import (
	"errors"

	"github.com/hewad/sarrafbook/internal/domain"
)

// errorLabel maps a failure to a low-cardinality metric label.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrPartyNotFound):
		return "party_not_found"
	case errors.Is(err, domain.ErrEntityNotFound):
		return "entity_not_found"
	case errors.Is(err, domain.ErrCurrencyNotFound):
		return "currency_not_found"
	case errors.Is(err, domain.ErrDirectRateRequired):
		return "direct_rate_required"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "transaction_not_found"
	case errors.Is(err, domain.ErrCommitFailed):
		return "commit_failed"
	case errors.Is(err, domain.ErrSameParty),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameCurrency),
		errors.Is(err, domain.ErrInvalidRate):
		return "validation"
	default:
		return "internal"
	}
}
