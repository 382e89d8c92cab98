// Package library holds the circulation rules of the library: the catalog,
// the checkout ledger and the late fee arithmetic.
//
// Services here are storage agnostic. They depend on the small store
// interfaces in stores.go, implemented by the repositories under
// internal/database.
//
// # Errors
//
// Every failure matches one of four kinds with errors.Is:
//
//	ErrValidation           // malformed input, e.g. a non-numeric ISBN
//	ErrNotFound             // missing book, account or open checkout
//	ErrAuthenticationFailed // bad credentials or anonymous caller
//	ErrOperational          // unexpected storage failure
//
// Repeating a checkout or a registration is not an error; the result
// reports that nothing changed.
//
// # Late fees
//
// A checkout is overdue once now is strictly after its due time. The fee is
// the number of whole days past due multiplied by the daily rate:
//
//	due = now - 5d, rate 1.00  ->  5.00
//	due = now + 1d, rate 1.00  ->  0.00
//
// Fees are only computed when a book is returned or a listing is requested.
package library
