package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/phrazzld/accounts-api/internal/store"
)

// Service errors. Callers use errors.Is/errors.As to check for them; the API
// layer maps each one to an HTTP status code.
var (
	// ErrAccountNotFound indicates that a lookup by id, email or phone matched nothing.
	// API layer should map this to HTTP 404 Not Found.
	ErrAccountNotFound = errors.New("user not found")
)

// DuplicateAccountError is returned by Register when email or phone is already taken.
// API layer should map this to HTTP 409 Conflict.
type DuplicateAccountError struct {
	// Fields maps each colliding field to the submitted value.
	Fields map[string]string
	Err    error
}

func (e *DuplicateAccountError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "account already exists: " + strings.Join(names, ", ")
}

func (e *DuplicateAccountError) Unwrap() error { return e.Err }

// InvalidInputError is returned by Register when the record breaks the storage schema.
// API layer should map this to HTTP 400 Bad Request.
type InvalidInputError struct {
	Message string
	// Fields has one entry per offending field.
	Fields map[string]store.FieldViolation
	Err    error
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Unwrap() error { return e.Err }

// ListingFailedError wraps any failure while paginating accounts.
// Message is the original failure's message, unchanged.
// API layer should map this to HTTP 422 Unprocessable Entity.
type ListingFailedError struct {
	Message string
	Err     error
}

func (e *ListingFailedError) Error() string { return e.Message }

func (e *ListingFailedError) Unwrap() error { return e.Err }
