package store

import "errors"

// ErrStoreUnavailable signals an I/O failure in the underlying database.
// The orchestrator maps this to a graceful degraded response; it is never
// returned alongside a partial aggregate.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrNotFound is the absent sentinel for single-record lookups.
var ErrNotFound = errors.New("record not found")
