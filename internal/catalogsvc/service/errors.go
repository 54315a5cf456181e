package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested card id does not exist.
	ErrNotFound = errors.New("card not found")

	// ErrConflict is returned when the unique name index rejects an insert.
	ErrConflict = errors.New("card name already exists")
)

// ValidationError rejects a create payload before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
