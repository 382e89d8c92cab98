package library

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the catalog, the ledger and the
// account store matches exactly one of these with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrOperational          = errors.New("operation failed")
)

var (
	ErrISBNRequired    = fmt.Errorf("%w: isbn is required", ErrValidation)
	ErrISBNInvalid     = fmt.Errorf("%w: isbn must contain digits only", ErrValidation)
	ErrTitleRequired   = fmt.Errorf("%w: title is required", ErrValidation)
	ErrInvalidRate     = fmt.Errorf("%w: daily rate must be between 0 and 10000.00", ErrValidation)
	ErrBookNotFound    = fmt.Errorf("book %w", ErrNotFound)
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrNotCheckedOut   = fmt.Errorf("open checkout %w", ErrNotFound)
	ErrAnonymous       = fmt.Errorf("%w: sign in required", ErrAuthenticationFailed)
)

// Operational wraps an unexpected storage failure so callers can tell it
// apart from the domain error kinds.
func Operational(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrOperational, op, err)
}
