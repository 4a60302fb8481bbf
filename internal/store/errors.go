package store

import "errors"

var (
	// ErrNotFound is returned when no row matches the requested key.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyAssigned is returned when a user is assigned to a property twice.
	ErrAlreadyAssigned = errors.New("user is already assigned to this property")
)
