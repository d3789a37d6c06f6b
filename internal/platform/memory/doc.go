// Package memory provides an in-process implementation of store.AccountStore.
//
// It is used when database.driver is "memory" and by tests that need a
// real store without a database. It enforces the same schema and
// uniqueness rules as the database-backed stores and reports violations
// with the same tagged errors.
package memory
