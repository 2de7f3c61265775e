package core

import "errors"

// Error kinds surfaced by ledger operations. Callers match with errors.Is;
// the wrapped message carries the human-readable detail.
var (
	// ErrValidation rejects an operation before any I/O happens.
	ErrValidation = errors.New("validation failed")
	// ErrIO aborts an operation with the prior file state unchanged.
	ErrIO = errors.New("ledger i/o failure")
	// ErrNotFound reports an operation with nothing to act on.
	ErrNotFound = errors.New("not found")
)
