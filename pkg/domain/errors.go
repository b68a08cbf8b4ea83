package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing field. It is always raised
// before any write is attempted.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// StorageError wraps a failure reported by the backing collection store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ReferenceNotFoundError reports an operation naming a record id that does not
// exist where the operation requires it to.
type ReferenceNotFoundError struct {
	Entity EntityType
	ID     string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err carries a ReferenceNotFoundError.
func IsNotFound(err error) bool {
	var target *ReferenceNotFoundError
	return errors.As(err, &target)
}

// IsStorage reports whether err carries a StorageError.
func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
