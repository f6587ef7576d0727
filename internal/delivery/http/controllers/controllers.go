package controllers

import (
	"errors"

	"ensembleplanner/internal/domain"
)

// isDomainError reports whether err belongs to the domain taxonomy, meaning
// the response status is the caller's problem rather than ours and the error
// does not need to be logged as a failure.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrPastDate) ||
		errors.Is(err, domain.ErrAlreadyInvited) ||
		errors.Is(err, domain.ErrAlreadyResponded) ||
		errors.Is(err, domain.ErrContractExists)
}
