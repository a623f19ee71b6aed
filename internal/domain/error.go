package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrConfiguration         = errors.New("configuration read/write failed")
	ErrPersistence           = errors.New("persistence operation failed")
	ErrAuditGap              = errors.New("AI call succeeded but usage was not logged")
	ErrClassifierUnavailable = errors.New("sensitivity classification unavailable")
	ErrLockHeld              = errors.New("lock is held by another worker")
	ErrInvalidExecContext    = errors.New("invalid executor context")
)
