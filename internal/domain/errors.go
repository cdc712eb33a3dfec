package domain

import "errors"

var (
	ErrInvalidTable     = errors.New("invalid table")
	ErrNoItems          = errors.New("no items")
	ErrItemsUnavailable = errors.New("one or more items unavailable")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrStatusConflict   = errors.New("status changed by someone else")
	ErrOrderNotFound    = errors.New("order not found")
	// ErrDuplicateClientKey is raised by the store when a concurrent
	// creation with the same idempotency key won the insert race.
	ErrDuplicateClientKey = errors.New("duplicate client key")
	ErrBadDate            = errors.New("bad date")
)
