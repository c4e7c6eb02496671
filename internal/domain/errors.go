package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup error below.
	ErrNotFound = errors.New("not found")

	// Referential errors
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrRecordNotFound  = fmt.Errorf("finance record %w", ErrNotFound)
	ErrDebtNotFound    = fmt.Errorf("debt %w", ErrNotFound)
	ErrPaymentNotFound = fmt.Errorf("payment %w", ErrNotFound)

	// Session errors
	ErrSessionOpen     = errors.New("session is still running")
	ErrInvalidInterval = errors.New("session end is before its start")
	ErrMissingInterval = errors.New("session start and end are required")

	// Debt errors
	ErrOverpayment        = errors.New("payment exceeds remaining debt")
	ErrAutomaticPayment   = errors.New("automatic payments cannot be removed")
	ErrSameCreditorDebtor = errors.New("creditor and debtor must differ")

	// ErrPersistenceFailure is matched by *PersistenceError.
	ErrPersistenceFailure = errors.New("changes were not persisted")
)

// PersistenceError describes a snapshot that could not be loaded or saved.
// The in-memory state is never rolled back because of it.
type PersistenceError struct {
	Op  string // load, save, encode, decode
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s snapshot: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s snapshot %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports PersistenceError as ErrPersistenceFailure.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}
