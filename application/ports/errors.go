package ports

import "errors"

// Sentinel conditions shared by all repository and unit-of-work
// implementations. Services translate these into their typed error domains
// at their own boundary.
var (
	// ErrNotFound signals an absent identity on the command side.
	ErrNotFound = errors.New("entity not found")

	// ErrNoActiveTransaction signals a repository or coordinator call
	// outside an active transaction. This is a usage error.
	ErrNoActiveTransaction = errors.New("no active transaction")

	// ErrTransactionActive signals Begin on an already active coordinator.
	ErrTransactionActive = errors.New("transaction already active")

	// ErrVersionConflict signals a stale write: the version observed when
	// the write was staged no longer matches the stored version.
	ErrVersionConflict = errors.New("stale write: version conflict")
)
