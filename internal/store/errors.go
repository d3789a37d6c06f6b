package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity. ConflictError matches it with errors.Is.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails the storage schema.
	// ValidationError matches it with errors.Is.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrAccountNotFound indicates that the requested account does not exist in the store.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// ConflictError reports a unique-key violation on write.
// Fields maps each colliding field to the value that collided.
type ConflictError struct {
	Fields map[string]string
	Err    error
}

// NewConflictError creates a ConflictError for the given field/value pairs.
func NewConflictError(fields map[string]string, err error) *ConflictError {
	return &ConflictError{Fields: fields, Err: err}
}

func (e *ConflictError) Error() string {
	return "duplicate key: " + strings.Join(e.FieldNames(), ", ")
}

// FieldNames returns the colliding field names in sorted order.
func (e *ConflictError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ConflictError) Unwrap() error { return e.Err }

func (e *ConflictError) Is(target error) bool { return target == ErrDuplicate }

// FieldViolation is the structured detail for one field that broke the schema.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationError reports schema violations on write, one entry per field.
type ValidationError struct {
	Message string
	Fields  map[string]FieldViolation
	Err     error
}

// NewValidationError builds a ValidationError whose message lists every violation.
func NewValidationError(entity string, fields map[string]FieldViolation, err error) *ValidationError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name].Message)
	}

	return &ValidationError{
		Message: fmt.Sprintf("%s validation failed: %s", entity, strings.Join(parts, "; ")),
		Fields:  fields,
		Err:     err,
	}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidEntity }
