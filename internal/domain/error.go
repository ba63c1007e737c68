package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Check-in specific
	ErrEventNotFound      = errors.New("event not found")
	ErrDuplicateAdmission = errors.New("member already admitted for this event")
	ErrCardRevoked        = errors.New("member card is revoked")
)
