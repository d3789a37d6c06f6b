// Package store defines the persistence contract for accounts: the
// AccountStore interface, the filter it understands, the schema every
// implementation enforces before writing, and the tagged errors
// (ConflictError, ValidationError, ErrAccountNotFound) implementations
// return so callers never have to inspect driver-specific error codes.
package store
